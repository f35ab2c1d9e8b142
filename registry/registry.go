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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	uref "dirpx.dev/rwrap/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("rwrap(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("rwrap(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to bind a taken name
	// to a different type.
	ErrConflictingRegistration = errors.New("rwrap(registry): conflicting type registration")
	// ErrBadBinding indicates a bound function whose shape does not fit its kind.
	ErrBadBinding = errors.New("rwrap(registry): invalid binding")
)

var errorType = reflect.TypeFor[error]()

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency, the counter and the bindings.
	mu sync.Mutex
	// names maps a name to its reflect.Type.
	names sync.Map // map[string]reflect.Type
	// types maps a reflect.Type to its first registered name.
	types sync.Map // map[reflect.Type]string
	// binds maps a reflect.Type to its bound functions.
	binds map[reflect.Type][]apis.Binding
	// count tracks the number of registered names.
	count int
}

// Register associates name with t. It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.names.Load(name); ok {
		if old.(reflect.Type) == t {
			return nil
		}
		return fmt.Errorf("%w: %q is %v, not %v", ErrConflictingRegistration, name, old, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.names.Load(name); ok {
		if old.(reflect.Type) == t {
			return nil
		}
		return fmt.Errorf("%w: %q is %v, not %v", ErrConflictingRegistration, name, old, t)
	}

	r.names.Store(name, t)
	r.types.LoadOrStore(t, name)
	r.count++
	return nil
}

// RegisterType registers the nearest named type of t under its qualified name.
func (r *registry) RegisterType(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}
	if err := r.Register(b, uref.QualifiedName(b)); err != nil {
		return err
	}
	if alias := aliasOf(b); alias != "" {
		return r.Register(b, alias)
	}
	return nil
}

// aliasOf asks the zero value of t, or of *t, for an apis.Namer alias.
func aliasOf(t reflect.Type) string {
	if t.Kind() == reflect.Interface {
		return ""
	}
	for _, v := range []reflect.Value{reflect.Zero(t), reflect.New(t)} {
		if n, ok := v.Interface().(apis.Namer); ok {
			return safeTypeName(n)
		}
	}
	return ""
}

// safeTypeName calls TypeName, treating a panic (nil receiver) as no alias.
func safeTypeName(n apis.Namer) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	return n.TypeName()
}

// Lookup returns the type registered under name.
func (r *registry) Lookup(name string) (reflect.Type, bool) {
	if name == "" {
		return nil, false
	}
	if v, ok := r.names.Load(name); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// NameOf returns the first name t was registered under.
func (r *registry) NameOf(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := r.types.Load(t); ok {
		return v.(string), true
	}
	return "", false
}

// Bind validates b against t and appends it to t's bindings.
// The type itself does not need to be registered by name.
func (r *registry) Bind(t reflect.Type, b apis.Binding) error {
	if t == nil {
		return ErrNilType
	}
	if err := validate(t, &b); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.binds == nil {
		r.binds = make(map[reflect.Type][]apis.Binding)
	}
	r.binds[t] = append(r.binds[t], b)
	return nil
}

// Bindings returns a copy of t's bindings in registration order.
func (r *registry) Bindings(t reflect.Type) []apis.Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	bs := r.binds[t]
	if len(bs) == 0 {
		return nil
	}
	out := make([]apis.Binding, len(bs))
	copy(out, bs)
	return out
}

// validate checks the function shape of b for its kind and fills in the
// default constructor name.
func validate(t reflect.Type, b *apis.Binding) error {
	if !b.Fn.IsValid() || b.Fn.Kind() != reflect.Func || b.Fn.IsNil() {
		return fmt.Errorf("%w: %s %q is not a function", ErrBadBinding, b.Kind, b.Name)
	}
	ft := b.Fn.Type()

	switch b.Kind {
	case apis.BindConstructor:
		if b.Name == "" {
			b.Name = "New" + t.Name()
		}
		out := ft.NumOut()
		if out == 2 && ft.Out(1) != errorType {
			return fmt.Errorf("%w: constructor %q: second result must be error", ErrBadBinding, b.Name)
		}
		if out < 1 || out > 2 {
			return fmt.Errorf("%w: constructor %q must return T or (T, error)", ErrBadBinding, b.Name)
		}
		res := ft.Out(0)
		if !res.AssignableTo(t) && !(res.Kind() == reflect.Pointer && res.Elem() == t) &&
			!(t.Kind() == reflect.Pointer && res == t.Elem()) {
			return fmt.Errorf("%w: constructor %q returns %v, want %v", ErrBadBinding, b.Name, res, t)
		}
	case apis.BindMethod:
		if b.Name == "" {
			return fmt.Errorf("%w: method without a name", ErrBadBinding)
		}
		if ft.NumIn() < 1 {
			return fmt.Errorf("%w: method %q has no receiver parameter", ErrBadBinding, b.Name)
		}
		recv := ft.In(0)
		if recv != t && recv != reflect.PointerTo(t) && !(t.Kind() == reflect.Pointer && recv == t.Elem()) {
			return fmt.Errorf("%w: method %q receiver is %v, want %v", ErrBadBinding, b.Name, recv, t)
		}
	case apis.BindFunc:
		if b.Name == "" {
			return fmt.Errorf("%w: func without a name", ErrBadBinding)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrBadBinding, b.Kind)
	}
	return nil
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
// Bound types that have no name are reported with an empty Name.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	seen := make(map[reflect.Type]bool)
	r.names.Range(func(key, value any) bool {
		t := value.(reflect.Type)
		entries = append(entries, apis.Entry{
			Type:     t,
			Name:     key.(string),
			Bindings: r.Bindings(t),
		})
		seen[t] = true
		return true
	})

	r.mu.Lock()
	var unnamed []reflect.Type
	for t := range r.binds {
		if !seen[t] {
			unnamed = append(unnamed, t)
		}
	}
	r.mu.Unlock()
	for _, t := range unnamed {
		entries = append(entries, apis.Entry{Type: t, Bindings: r.Bindings(t)})
	}
	return entries
}

// Count returns the number of registered names.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = sync.Map{}
	r.types = sync.Map{}
	r.binds = nil
	r.count = 0
}
