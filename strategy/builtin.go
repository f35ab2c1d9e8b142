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

package strategy

import (
	"reflect"

	"dirpx.dev/rwrap/apis"
	uref "dirpx.dev/rwrap/utils/reflect"
)

// NewBuiltinStrategy creates an apis.Strategy for predeclared type names.
func NewBuiltinStrategy() apis.Strategy {
	return builtinStrategy{}
}

// builtinStrategy resolves "int", "string", "error", "any", ... unless
// cfg.IncludeBuiltins is off.
type builtinStrategy struct{}

var _ apis.Strategy = builtinStrategy{}

// TryResolve returns the predeclared type called name.
func (builtinStrategy) TryResolve(name string, cfg apis.Config) (reflect.Type, bool) {
	if !cfg.IncludeBuiltins {
		return nil, false
	}
	return uref.Builtin(name)
}
