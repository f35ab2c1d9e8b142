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
	"errors"
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"go.uber.org/zap"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/internal/logging"
	"dirpx.dev/rwrap/opt"
	"dirpx.dev/rwrap/policy"
	uref "dirpx.dev/rwrap/utils/reflect"
)

// Field describes a struct field. O is the requested value type; it is any
// unless the field was looked up with FieldFor or DeclaredFieldFor.
type Field[O any] struct {
	owner    reflect.Type
	sf       reflect.StructField
	override bool
	cfg      apis.Config
	ok       bool
}

// FieldOf wraps sf, a field of the struct type owner as returned by
// owner.Field, owner.FieldByName or reflect.VisibleFields.
func FieldOf(owner reflect.Type, sf reflect.StructField) Field[any] {
	return newField[any](owner, sf, config.DefaultConfig())
}

func newField[O any](owner reflect.Type, sf reflect.StructField, cfg apis.Config) Field[O] {
	f := Field[O]{owner: owner, sf: sf, cfg: cfg, ok: true}
	f.override = !reachable(owner, sf.Index)
	if f.override {
		logging.L().Debug("field access override",
			zap.Stringer("owner", owner), zap.String("field", sf.Name))
	}
	return f
}

// reachable reports whether every field on the index path is exported.
func reachable(owner reflect.Type, index []int) bool {
	t := owner
	for _, i := range index {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		sf := t.Field(i)
		if !sf.IsExported() {
			return false
		}
		t = sf.Type
	}
	return true
}

// Read returns the field value of instance, a struct value or a pointer to
// one.
func (f Field[O]) Read(instance any) (opt.Value[any], error) {
	v, err := f.read(instance)
	if err != nil || !v.IsValid() {
		return opt.None[any](), err
	}
	return opt.Of(v.Interface()), nil
}

// ReadTyped is Read converted to O.
func (f Field[O]) ReadTyped(instance any) (opt.Value[O], error) {
	v, err := f.read(instance)
	if err != nil {
		return opt.None[O](), err
	}
	return present[O](v, "read", f)
}

func (f Field[O]) read(instance any) (reflect.Value, error) {
	if !f.ok {
		return reflect.Value{}, nil
	}
	root, err := f.root(instance, "read", false)
	if err != nil {
		return reflect.Value{}, err
	}
	return f.walk(root, "read")
}

// Write stores value into the field of instance, which must be a pointer to
// the owning struct. A nil value stores the zero value.
func (f Field[O]) Write(instance, value any) (bool, error) {
	if !f.ok {
		return false, nil
	}
	root, err := f.root(instance, "write", true)
	if err != nil {
		return false, err
	}
	fv, err := f.walk(root, "write")
	if err != nil {
		return false, err
	}
	nv, err := f.convert(value)
	if err != nil {
		return false, fail("write", f, ErrCast, err)
	}
	fv.Set(nv)
	return true, nil
}

// Apply lets p transform the collection held by the field of instance and
// stores the result. It reports false when the field does not hold a
// collection.
func (f Field[O]) Apply(instance any, p policy.Policy) (bool, error) {
	if !f.ok {
		return false, nil
	}
	root, err := f.root(instance, "apply", true)
	if err != nil {
		return false, err
	}
	fv, err := f.walk(root, "apply")
	if err != nil {
		return false, err
	}
	next, ok, err := policy.Apply(p, fv)
	if err != nil {
		kind := ErrInvocation
		if errors.Is(err, policy.ErrElement) {
			kind = ErrCast
		}
		return false, fail("apply", f, kind, err)
	}
	if !ok {
		return false, nil
	}
	fv.Set(next)
	return true, nil
}

// root returns an addressable owner struct for instance. Writes need a
// pointer; reads of a struct value go through a copy.
func (f Field[O]) root(instance any, op string, write bool) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, fail(op, f, ErrNilTarget, nil)
	}
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fail(op, f, ErrNilTarget, nil)
		}
		v = v.Elem()
	} else {
		if write {
			return reflect.Value{}, fail(op, f, ErrAccess, fmt.Errorf("%v is not addressable", v.Type()))
		}
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}
	if v.Type() != f.owner {
		return reflect.Value{}, fail(op, f, ErrCast, fmt.Errorf("%v is not a %v", v.Type(), f.owner))
	}
	return v, nil
}

// walk follows the index path from the addressable struct v, dereferencing
// embedded pointers. Unexported fields are reached through their address.
func (f Field[O]) walk(v reflect.Value, op string) (reflect.Value, error) {
	for n, i := range f.sf.Index {
		if n > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fail(op, f, ErrAccess, fmt.Errorf("nil embedded %v", v.Type()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	if f.override && !v.CanSet() {
		v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	}
	if !v.CanSet() {
		return reflect.Value{}, fail(op, f, ErrAccess, fmt.Errorf("%s is not settable", f.sf.Name))
	}
	return v, nil
}

func (f Field[O]) convert(value any) (reflect.Value, error) {
	t := f.sf.Type
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if f.cfg.CoerceArgs {
		if cv, ok := uref.Coerce(v, t); ok {
			return cv, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", v.Type(), t)
}

// Name returns the field name.
func (f Field[O]) Name() string { return f.sf.Name }

// Type returns the declared field type.
func (f Field[O]) Type() reflect.Type { return f.sf.Type }

// Tag returns the struct tag.
func (f Field[O]) Tag() reflect.StructTag { return f.sf.Tag }

// Exported reports whether the field itself is exported.
func (f Field[O]) Exported() bool { return f.ok && f.sf.IsExported() }

// Overridden reports whether access goes around an unexported field on the
// path.
func (f Field[O]) Overridden() bool { return f.override }

// Index returns the index path from the owning struct.
func (f Field[O]) Index() []int { return f.sf.Index }

// Get returns the underlying struct field.
func (f Field[O]) Get() (reflect.StructField, bool) {
	return f.sf, f.ok
}

// IsPresent reports whether f describes a field.
func (f Field[O]) IsPresent() bool {
	return f.ok
}

// Equal reports whether f and other describe the same field of the same
// owner. Absent fields are equal to each other.
func (f Field[O]) Equal(other Field[O]) bool {
	if !f.ok || !other.ok {
		return f.ok == other.ok
	}
	return f.owner == other.owner &&
		f.sf.Name == other.sf.Name &&
		f.sf.Type == other.sf.Type &&
		slices.Equal(f.sf.Index, other.sf.Index)
}

// String implements fmt.Stringer.
func (f Field[O]) String() string {
	if !f.ok {
		return "Field[absent]"
	}
	return fmt.Sprintf("Field[%v.%s %v]", f.owner, f.sf.Name, f.sf.Type)
}
