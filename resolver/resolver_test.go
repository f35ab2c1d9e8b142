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

package resolver_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/resolver"
)

type fixed struct {
	name string
	t    reflect.Type
	hits *int
}

func (f fixed) TryResolve(name string, _ apis.Config) (reflect.Type, bool) {
	*f.hits++
	if name == f.name {
		return f.t, true
	}
	return nil, false
}

func TestChain_OrderAndFallThrough(t *testing.T) {
	var first, second int
	res := resolver.New(
		nil,
		fixed{name: "a", t: reflect.TypeOf(0), hits: &first},
		fixed{name: "a", t: reflect.TypeOf(""), hits: &second},
		fixed{name: "b", t: reflect.TypeOf(""), hits: &second},
	)
	cfg := config.DefaultConfig()

	got, ok := res.Resolve("a", cfg)
	assert.True(t, ok)
	assert.Equal(t, reflect.TypeOf(0), got, "first strategy wins")
	assert.Equal(t, 0, second)

	got, ok = res.Resolve("b", cfg)
	assert.True(t, ok)
	assert.Equal(t, reflect.TypeOf(""), got)

	_, ok = res.Resolve("c", cfg)
	assert.False(t, ok)
}

func TestChain_Empty(t *testing.T) {
	_, ok := resolver.New().Resolve("int", config.DefaultConfig())
	assert.False(t, ok)
}
