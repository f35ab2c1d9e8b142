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

package builder

import (
	"reflect"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/registry"
	"dirpx.dev/rwrap/resolver"
	"dirpx.dev/rwrap/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry for cfg. If a pre-existing registry
// is provided, its names and bindings are copied into the new one.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if preg == nil {
		return nreg
	}
	bound := make(map[reflect.Type]bool)
	for _, e := range preg.Entries() {
		if e.Name != "" {
			_ = nreg.Register(e.Type, e.Name)
		}
		if bound[e.Type] {
			continue
		}
		bound[e.Type] = true
		for _, bd := range e.Bindings {
			_ = nreg.Bind(e.Type, bd)
		}
	}
	return nreg
}

// BuildResolver builds the default chain: registry names first, then
// predeclared names, then composite expressions over both.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	byName := strategy.NewRegistryStrategy(reg)
	builtin := strategy.NewBuiltinStrategy()
	return resolver.New(
		byName,
		builtin,
		strategy.NewCompositeStrategy(byName, builtin),
	)
}
