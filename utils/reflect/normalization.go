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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
)

var (
	// ErrNilType is returned by Normalize for a nil type.
	ErrNilType = errors.New("rwrap(reflect): nil type")
	// ErrNotNamed is returned by Normalize when no named type is reachable
	// within the unwrap limit (anonymous structs, func types and the like).
	ErrNotNamed = errors.New("rwrap(reflect): type has no name")
)

// Normalize returns the nearest named type inside t. Pointers, slices,
// arrays and channels are unwrapped through their element. For a map the
// side chosen by cfg.MapPreferElem wins when it is named, then the other
// side, and otherwise unwrapping goes on through the element. At most
// cfg.MaxUnwrap levels are peeled (config.DefaultMaxUnwrap when unset).
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	limit := cfg.MaxUnwrap
	if limit <= 0 {
		limit = config.DefaultMaxUnwrap
	}

	for depth := 0; depth < limit; depth++ {
		if t.Name() != "" {
			return t, nil
		}
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
		case reflect.Map:
			if side := mapSide(t, cfg.MapPreferElem); side != nil {
				return side, nil
			}
			t = t.Elem()
		default:
			return nil, ErrNotNamed
		}
	}
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrNotNamed
}

// mapSide picks the named side of map type t, the element first when elem
// is set. It returns nil when neither side is named.
func mapSide(t reflect.Type, elem bool) reflect.Type {
	first, second := t.Key(), t.Elem()
	if elem {
		first, second = second, first
	}
	switch {
	case first.Name() != "":
		return first
	case second.Name() != "":
		return second
	default:
		return nil
	}
}

// QualifiedName returns "pkg/path.Name" for a named type, the bare name for
// predeclared types and "" for unnamed ones. Generic instantiations keep
// their type arguments as reflect prints them.
func QualifiedName(t reflect.Type) string {
	if t == nil || t.Name() == "" {
		return ""
	}
	if p := t.PkgPath(); p != "" {
		return p + "." + t.Name()
	}
	return t.Name()
}
