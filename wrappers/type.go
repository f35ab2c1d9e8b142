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

package wrappers

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/rwrap"
	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/internal/logging"
	"dirpx.dev/rwrap/match"
	"dirpx.dev/rwrap/opt"
	uref "dirpx.dev/rwrap/utils/reflect"
)

// Type is a possibly absent type together with the configuration and
// registry its members are looked up in. Lookups never fail: a member that
// does not exist, or any member of an absent type, is an absent descriptor.
type Type[O any] struct {
	t   opt.Value[reflect.Type]
	cfg apis.Config
	reg apis.Registry
}

// ForName resolves name with the global resolver.
func ForName(name string) Type[any] {
	cfg, reg, res := rwrap.Snapshot()
	return ForNameIn(reg, res, cfg, name)
}

// ForNameIn resolves name with res. reg supplies the bound members and may
// be nil.
func ForNameIn(reg apis.Registry, res apis.Resolver, cfg apis.Config, name string) Type[any] {
	typ := Type[any]{cfg: cfg, reg: reg}
	if res == nil {
		return typ
	}
	t, ok := res.Resolve(name, cfg)
	if !ok {
		logging.L().Debug("type not resolved", zap.String("name", name))
		return typ
	}
	typ.t = opt.Of(t)
	return typ
}

// Of returns the descriptor of O.
func Of[O any]() Type[O] {
	cfg, reg, _ := rwrap.Snapshot()
	return Type[O]{t: opt.Of(reflect.TypeFor[O]()), cfg: cfg, reg: reg}
}

// Wrap returns the descriptor of t. It panics with ErrNilType if t is nil.
func Wrap(t reflect.Type) Type[any] {
	if t == nil {
		panic(ErrNilType)
	}
	cfg, reg, _ := rwrap.Snapshot()
	return Type[any]{t: opt.Of(t), cfg: cfg, reg: reg}
}

// Constructor returns the first constructor taking params.
func (t Type[O]) Constructor(params ...reflect.Type) Constructor[O] {
	if !t.IsPresent() {
		return Constructor[O]{}
	}
	checkParams(params)
	for _, c := range t.Constructors() {
		if t.params(c.sig.In, params) {
			return c
		}
	}
	return Constructor[O]{}
}

// HasConstructor reports whether a constructor takes params.
func (t Type[O]) HasConstructor(params ...reflect.Type) bool {
	return t.Constructor(params...).IsPresent()
}

// Constructors returns the implicit zero-value constructor followed by the
// bound constructors in registration order.
func (t Type[O]) Constructors() []Constructor[O] {
	typ, ok := t.t.Get()
	if !ok {
		return nil
	}
	out := []Constructor[O]{implicitConstructor[O](typ, t.cfg)}
	for _, b := range t.bindings(apis.BindConstructor) {
		out = append(out, boundConstructor[O](typ, b, t.cfg))
	}
	return out
}

// Field returns the exported field name, promoted fields included.
func (t Type[O]) Field(name string) Field[any] {
	return t.FieldOfType(nil, name)
}

// FieldOfType returns the exported field name whose values are assignable
// to ft. A nil ft accepts any type.
func (t Type[O]) FieldOfType(ft reflect.Type, name string) Field[any] {
	return findField[any](t, ft, name, false)
}

// DeclaredField returns the field name declared on the struct itself.
func (t Type[O]) DeclaredField(name string) Field[any] {
	return t.DeclaredFieldOfType(nil, name)
}

// DeclaredFieldOfType is DeclaredField restricted to values assignable to ft.
func (t Type[O]) DeclaredFieldOfType(ft reflect.Type, name string) Field[any] {
	return findField[any](t, ft, name, true)
}

// HasField reports whether FieldOfType finds a field.
func (t Type[O]) HasField(ft reflect.Type, name string) bool {
	return t.FieldOfType(ft, name).IsPresent()
}

// HasDeclaredField reports whether DeclaredFieldOfType finds a field.
func (t Type[O]) HasDeclaredField(ft reflect.Type, name string) bool {
	return t.DeclaredFieldOfType(ft, name).IsPresent()
}

// FieldFor returns the exported field name of t typed as F.
func FieldFor[F, O any](t Type[O], name string) Field[F] {
	return findField[F](t, reflect.TypeFor[F](), name, false)
}

// DeclaredFieldFor returns the declared field name of t typed as F.
func DeclaredFieldFor[F, O any](t Type[O], name string) Field[F] {
	return findField[F](t, reflect.TypeFor[F](), name, true)
}

func findField[F, O any](t Type[O], ft reflect.Type, name string, declared bool) Field[F] {
	st, ok := t.structType()
	if !ok {
		return Field[F]{}
	}
	for _, sf := range fieldsOf(st, declared) {
		if match.Field(sf, ft, name) {
			return newField[F](st, sf, t.cfg)
		}
	}
	return Field[F]{}
}

// Fields returns the exported fields in reflect.VisibleFields order.
func (t Type[O]) Fields() []Field[any] {
	return t.fields(false)
}

// DeclaredFields returns the fields declared on the struct in declaration
// order.
func (t Type[O]) DeclaredFields() []Field[any] {
	return t.fields(true)
}

func (t Type[O]) fields(declared bool) []Field[any] {
	st, ok := t.structType()
	if !ok {
		return nil
	}
	sfs := fieldsOf(st, declared)
	out := make([]Field[any], 0, len(sfs))
	for _, sf := range sfs {
		out = append(out, newField[any](st, sf, t.cfg))
	}
	return out
}

func fieldsOf(st reflect.Type, declared bool) []reflect.StructField {
	if declared {
		out := make([]reflect.StructField, st.NumField())
		for i := range out {
			out[i] = st.Field(i)
		}
		return out
	}
	var out []reflect.StructField
	for _, sf := range reflect.VisibleFields(st) {
		if sf.IsExported() {
			out = append(out, sf)
		}
	}
	return out
}

// structType returns the struct the fields of t live in: t itself or the
// element of a pointer.
func (t Type[O]) structType() (reflect.Type, bool) {
	typ, ok := t.t.Get()
	if !ok {
		return nil, false
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ, typ.Kind() == reflect.Struct
}

// Method returns the first exported method of T called name taking params,
// whatever it returns.
func (t Type[O]) Method(name string, params ...reflect.Type) Method[any] {
	return t.MethodReturning(nil, name, params...)
}

// MethodReturning is Method restricted to methods whose result is
// assignable to ret. A nil ret accepts void methods too.
func (t Type[O]) MethodReturning(ret reflect.Type, name string, params ...reflect.Type) Method[any] {
	return findMethod[any](t, ret, name, params, false)
}

// DeclaredMethod looks through the method set of *T and the functions bound
// to the type.
func (t Type[O]) DeclaredMethod(name string, params ...reflect.Type) Method[any] {
	return t.DeclaredMethodReturning(nil, name, params...)
}

// DeclaredMethodReturning is DeclaredMethod restricted to ret.
func (t Type[O]) DeclaredMethodReturning(ret reflect.Type, name string, params ...reflect.Type) Method[any] {
	return findMethod[any](t, ret, name, params, true)
}

// HasMethod reports whether MethodReturning finds a method.
func (t Type[O]) HasMethod(ret reflect.Type, name string, params ...reflect.Type) bool {
	return t.MethodReturning(ret, name, params...).IsPresent()
}

// HasDeclaredMethod reports whether DeclaredMethodReturning finds a method.
func (t Type[O]) HasDeclaredMethod(ret reflect.Type, name string, params ...reflect.Type) bool {
	return t.DeclaredMethodReturning(ret, name, params...).IsPresent()
}

// MethodFor returns the exported method name of t returning R.
func MethodFor[R, O any](t Type[O], name string, params ...reflect.Type) Method[R] {
	return findMethod[R](t, reflect.TypeFor[R](), name, params, false)
}

// DeclaredMethodFor returns the declared method name of t returning R.
func DeclaredMethodFor[R, O any](t Type[O], name string, params ...reflect.Type) Method[R] {
	return findMethod[R](t, reflect.TypeFor[R](), name, params, true)
}

func findMethod[R, O any](t Type[O], ret reflect.Type, name string, params []reflect.Type, declared bool) Method[R] {
	if !t.IsPresent() {
		return Method[R]{}
	}
	checkParams(params)
	for _, m := range methodsOf[R](t, ret, declared) {
		if match.Method(m.sig, ret, name, params, t.cfg.StrictParams) {
			return m
		}
	}
	return Method[R]{}
}

// Methods returns the exported methods of T sorted by name.
func (t Type[O]) Methods() []Method[any] {
	return methodsOf[any](t, nil, false)
}

// DeclaredMethods returns the methods of *T sorted by name followed by the
// bound methods and functions in registration order.
func (t Type[O]) DeclaredMethods() []Method[any] {
	return methodsOf[any](t, nil, true)
}

func methodsOf[R, O any](t Type[O], ret reflect.Type, declared bool) []Method[R] {
	typ, ok := t.t.Get()
	if !ok {
		return nil
	}
	set := typ
	if declared && typ.Kind() != reflect.Pointer && typ.Kind() != reflect.Interface {
		set = reflect.PointerTo(typ)
	}
	var out []Method[R]
	for i := 0; i < set.NumMethod(); i++ {
		m := set.Method(i)
		if !m.IsExported() {
			continue
		}
		out = append(out, reflected[R](typ, m, ret, t.cfg))
	}
	if !declared {
		return out
	}
	for _, b := range t.bindings(apis.BindMethod, apis.BindFunc) {
		out = append(out, bound[R](typ, b, ret, t.cfg))
	}
	return out
}

// bindings returns the registry bindings of kinds for the type, and for the
// element type when the type is a pointer.
func (t Type[O]) bindings(kinds ...apis.BindingKind) []apis.Binding {
	typ, ok := t.t.Get()
	if !ok || t.reg == nil {
		return nil
	}
	all := t.reg.Bindings(typ)
	if typ.Kind() == reflect.Pointer {
		all = append(all, t.reg.Bindings(typ.Elem())...)
	}
	var out []apis.Binding
	for _, b := range all {
		for _, k := range kinds {
			if b.Kind == k {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// checkParams panics on a nil requested parameter type, whether or not a
// member gets far enough to be matched against it.
func checkParams(params []reflect.Type) {
	for _, p := range params {
		if p == nil {
			panic(match.ErrNilType)
		}
	}
}

func (t Type[O]) params(declared, requested []reflect.Type) bool {
	if t.cfg.StrictParams {
		return match.ParametersExact(declared, requested)
	}
	return match.Parameters(declared, requested)
}

// Type returns the described type, nil when absent.
func (t Type[O]) Type() reflect.Type {
	return t.t.Value()
}

// Name returns the registered name of the type, its qualified name, or the
// reflect spelling for unnamed types. It is empty when absent.
func (t Type[O]) Name() string {
	typ, ok := t.t.Get()
	if !ok {
		return ""
	}
	if t.reg != nil {
		if n, ok := t.reg.NameOf(typ); ok {
			return n
		}
	}
	if n := uref.QualifiedName(typ); n != "" {
		return n
	}
	return typ.String()
}

// Config returns the configuration lookups run with.
func (t Type[O]) Config() apis.Config {
	return t.cfg
}

// Registry returns the registry bound members come from. It may be nil.
func (t Type[O]) Registry() apis.Registry {
	return t.reg
}

// Get returns the described type.
func (t Type[O]) Get() (reflect.Type, bool) {
	return t.t.Get()
}

// IsPresent reports whether a type is described.
func (t Type[O]) IsPresent() bool {
	return t.t.IsPresent()
}

// Equal reports whether t and other describe the same type.
func (t Type[O]) Equal(other Type[O]) bool {
	return t.IsPresent() == other.IsPresent() && t.Type() == other.Type()
}

// String implements fmt.Stringer.
func (t Type[O]) String() string {
	if !t.IsPresent() {
		return "Type[absent]"
	}
	return fmt.Sprintf("Type[%s]", t.Name())
}
