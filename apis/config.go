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

package apis

// Config carries read-only resolution knobs that influence strategies and
// member descriptors. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// IncludeBuiltins controls whether predeclared type names
	// (e.g., "int", "string", "error") resolve to their types.
	IncludeBuiltins bool

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/map),
	// both when normalizing a type to its nearest named type and when
	// parsing composite type names such as "[]*pkg.T".
	MaxUnwrap int

	// MapPreferElem controls which side of map[K]V is considered “primary”
	// when searching for a nearest named inner type. If true, prefer V; otherwise K.
	MapPreferElem bool

	// CoerceArgs allows arguments of a basic kind to be converted to the
	// parameter type of the same kind family before a call or a field write
	// (e.g. an untyped int constant passed to an int64 parameter).
	CoerceArgs bool

	// StrictParams requires requested parameter types to be identical to the
	// declared ones instead of merely assignable.
	StrictParams bool
}
