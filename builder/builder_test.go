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

package builder_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/builder"
	"dirpx.dev/rwrap/config"
)

// userType is a plain named type with no special behavior.
type userType struct{}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a working Registry.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	require.NotNil(t, reg)

	tt := reflect.TypeOf(userType{})
	require.NoError(t, reg.Register(tt, "userType"))

	got, ok := reg.Lookup("userType")
	require.True(t, ok)
	assert.Equal(t, tt, got)
	assert.Equal(t, 1, reg.Count())
}

// TestBuildRegistry_Migrates verifies names and bindings survive a rebuild
// and bindings are not duplicated for aliased types.
func TestBuildRegistry_Migrates(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	prev := b.BuildRegistry(cfg, nil)
	tt := reflect.TypeOf(userType{})
	require.NoError(t, prev.Register(tt, "a"))
	require.NoError(t, prev.Register(tt, "b"))
	require.NoError(t, prev.Bind(tt, apis.Binding{Kind: apis.BindFunc, Name: "f", Fn: reflect.ValueOf(func() {})}))
	require.NoError(t, prev.Bind(reflect.TypeOf(0), apis.Binding{Kind: apis.BindFunc, Name: "g", Fn: reflect.ValueOf(func() {})}))

	next := b.BuildRegistry(config.NewConfig(config.WithMaxUnwrap(2)), prev)
	require.NotSame(t, prev, next)

	for _, name := range []string{"a", "b"} {
		got, ok := next.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, tt, got)
	}
	assert.Len(t, next.Bindings(tt), 1)
	assert.Len(t, next.Bindings(reflect.TypeOf(0)), 1, "unnamed bound types migrate too")
}

// TestBuildResolver_Order verifies resolution priority: registry names win
// over predeclared ones, and composites resolve through both.
func TestBuildResolver_Order(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil)
	// Shadow a predeclared name on purpose.
	require.NoError(t, reg.Register(reflect.TypeOf(userType{}), "int"))
	res := b.BuildResolver(cfg, reg, nil)

	got, ok := res.Resolve("int", cfg)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(userType{}), got)

	got, ok = res.Resolve("map[string][]int", cfg)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(map[string][]userType{}), got)

	got, ok = res.Resolve("error", cfg)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[error](), got)

	_, ok = res.Resolve("error", config.NewConfig(config.WithIncludeBuiltins(false)))
	assert.False(t, ok)
}

// TestBuilder_ConcurrentBuilds verifies builders can be used concurrently.
func TestBuilder_ConcurrentBuilds(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 2
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				reg := b.BuildRegistry(cfg, nil)
				_ = reg.Register(reflect.TypeOf(userType{}), "userType")
				res := b.BuildResolver(cfg, reg, nil)
				if _, ok := res.Resolve("[]userType", cfg); !ok {
					t.Error("resolve failed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
