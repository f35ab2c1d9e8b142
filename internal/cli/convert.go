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

package cli

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

var durationType = reflect.TypeFor[time.Duration]()

// convert parses a command line argument into a value of type t. Only
// basic kinds and time.Duration are supported.
func convert(raw string, t reflect.Type) (reflect.Value, error) {
	var (
		x   any
		err error
	)
	switch t.Kind() {
	case reflect.String:
		x = raw
	case reflect.Bool:
		x, err = cast.ToBoolE(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == durationType {
			x, err = cast.ToDurationE(raw)
			break
		}
		x, err = cast.ToInt64E(raw)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		x, err = cast.ToUint64E(raw)
	case reflect.Float32, reflect.Float64:
		x, err = cast.ToFloat64E(raw)
	default:
		return reflect.Value{}, fmt.Errorf("cannot convert %q to %v", raw, t)
	}
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert %q to %v: %w", raw, t, err)
	}

	v := reflect.ValueOf(x)
	zero := reflect.Zero(t)
	switch {
	case zero.CanInt() && zero.OverflowInt(v.Int()),
		zero.CanUint() && zero.OverflowUint(v.Uint()),
		zero.CanFloat() && zero.OverflowFloat(v.Float()):
		return reflect.Value{}, fmt.Errorf("%q overflows %v", raw, t)
	}
	return v.Convert(t), nil
}

// convertible reports whether convert supports t.
func convertible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
