/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rwrap

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/builder"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/internal/logging"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil)
	s.bld = b
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("rwrap: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("rwrap: builder returned nil resolver")
)

// ForName resolves a qualified type name ("net/url.URL", "[]int",
// "map[string]*pkg.T") with the global resolver.
func ForName(name string) (reflect.Type, bool) {
	s := st.Load()
	return s.res.Resolve(name, s.cfg)
}

// Snapshot returns the configuration, registry and resolver of one
// consistent published state.
func Snapshot() (apis.Config, apis.Registry, apis.Resolver) {
	s := st.Load()
	return s.cfg, s.reg, s.res
}

// Register adds a name for t to the global registry.
func Register(t reflect.Type, name string) error {
	return st.Load().reg.Register(t, name)
}

// RegisterType registers t under its qualified name in the global registry.
func RegisterType(t reflect.Type) error {
	err := st.Load().reg.RegisterType(t)
	if err != nil {
		logging.L().Debug("type registration failed", zap.Stringer("type", typeString{t}), zap.Error(err))
	}
	return err
}

// RegisterFor is RegisterType for a type parameter.
func RegisterFor[T any]() error {
	return RegisterType(reflect.TypeFor[T]())
}

// BindConstructor binds fn as a constructor of T. fn returns T, *T (or a
// type assignable to T), optionally followed by an error. An empty name
// defaults to "New" + the type name.
func BindConstructor[T any](name string, fn any) error {
	return bind[T](apis.BindConstructor, name, fn)
}

// BindMethod binds fn as a method of T named name. The first parameter of fn
// is the receiver (T or *T). Use it to expose functions reflection cannot
// see, such as unexported methods wrapped in a closure.
func BindMethod[T any](name string, fn any) error {
	return bind[T](apis.BindMethod, name, fn)
}

// BindFunc binds fn as a static function of T named name.
func BindFunc[T any](name string, fn any) error {
	return bind[T](apis.BindFunc, name, fn)
}

func bind[T any](kind apis.BindingKind, name string, fn any) error {
	t := reflect.TypeFor[T]()
	err := st.Load().reg.Bind(t, apis.Binding{Kind: kind, Name: name, Fn: reflect.ValueOf(fn)})
	if err != nil {
		return err
	}
	logging.L().Debug("bound function", zap.Stringer("type", t), zap.Stringer("kind", kind), zap.String("name", name))
	return nil
}

// SetLogger installs the logger used by rwrap packages. nil disables logging.
func SetLogger(l *zap.Logger) {
	logging.Set(l)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged (registry and
// resolver are rebuilt by the builder instead). Non-nil registry/resolver
// arguments are pinned; nil ones are unpinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(old *state) *state {
		next := *old
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}

		next.reg, next.preg = reg, reg != nil
		if reg == nil {
			next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
		}
		next.res, next.pres = res, res != nil
		if res == nil {
			next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res)
		}
		return &next
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the
// layers that are not pinned.
func SetConfig(cfg apis.Config) {
	update(func(old *state) *state {
		next := *old
		next.cfg = cfg
		return rebuild(old, &next)
	})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global registry and rebuilds the
// resolver unless it is pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.reg, next.preg = reg, true
		if !old.pres {
			next.res = old.bld.BuildResolver(old.cfg, reg, old.res)
		}
		return &next
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.res, next.pres = res, true
		return &next
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the layers that are not
// pinned with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.bld = b
		return rebuild(old, &next)
	})
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() {
	update(func(old *state) *state {
		next := *old
		next.preg = true
		return &next
	})
}

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() {
	update(func(old *state) *state {
		next := *old
		next.preg = false
		return &next
	})
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() {
	update(func(old *state) *state {
		next := *old
		next.pres = true
		return &next
	})
}

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() {
	update(func(old *state) *state {
		next := *old
		next.pres = false
		return &next
	})
}

// rebuild rebuilds the unpinned layers of next from old with next's builder
// and configuration.
func rebuild(old, next *state) *state {
	if !old.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	if !old.pres {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res)
	}
	return next
}

// update derives a new state under buildMu and publishes it.
func update(fn func(old *state) *state) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := fn(st.Load())
	// Ensure non-nil reg and res.
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(next)
}

// typeString prints a possibly nil reflect.Type.
type typeString struct{ t reflect.Type }

func (s typeString) String() string {
	if s.t == nil {
		return "<nil>"
	}
	return s.t.String()
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the registry is pinned.
	preg bool
	// pres indicates whether the resolver is pinned.
	pres bool
}
