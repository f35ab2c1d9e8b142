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

package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/registry"
	"dirpx.dev/rwrap/strategy"
)

// Local test types.
type A struct{}
type K string

func newRegistry(t *testing.T) apis.Registry {
	t.Helper()
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(reflect.TypeOf(A{}), "domain.A"))
	require.NoError(t, reg.Register(reflect.TypeOf(K("")), "domain.K"))
	return reg
}

func TestRegistryStrategy(t *testing.T) {
	s := strategy.NewRegistryStrategy(newRegistry(t))
	cfg := config.DefaultConfig()

	got, ok := s.TryResolve("domain.A", cfg)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(A{}), got)

	_, ok = s.TryResolve("domain.B", cfg)
	assert.False(t, ok)
	_, ok = s.TryResolve("", cfg)
	assert.False(t, ok)

	_, ok = strategy.NewRegistryStrategy(nil).TryResolve("domain.A", cfg)
	assert.False(t, ok)
}

func TestBuiltinStrategy(t *testing.T) {
	s := strategy.NewBuiltinStrategy()

	got, ok := s.TryResolve("int64", config.DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(int64(0)), got)

	_, ok = s.TryResolve("int64", config.NewConfig(config.WithIncludeBuiltins(false)))
	assert.False(t, ok)
}

func TestCompositeStrategy(t *testing.T) {
	s := strategy.NewCompositeStrategy(strategy.NewRegistryStrategy(newRegistry(t)), strategy.NewBuiltinStrategy())
	cfg := config.DefaultConfig()

	cases := []struct {
		name string
		want reflect.Type
	}{
		{"domain.A", reflect.TypeOf(A{})},
		{"*domain.A", reflect.TypeOf(&A{})},
		{"[]domain.A", reflect.TypeOf([]A{})},
		{"[]*domain.A", reflect.TypeOf([]*A{})},
		{"[3]int", reflect.TypeOf([3]int{})},
		{"map[string]domain.A", reflect.TypeOf(map[string]A{})},
		{"map[domain.K][]int", reflect.TypeOf(map[K][]int{})},
		{"map[[2]int]map[string]bool", reflect.TypeOf(map[[2]int]map[string]bool{})},
		{" *int ", reflect.TypeOf(new(int))},
		{"[007]int", reflect.TypeOf([7]int{})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.name, cfg)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	misses := []string{
		"", "*", "[]", "[x]int", "[-1]int", "[+3]int", "[ 3]int", "[]int]", "map[string", "map[[]int]bool", "*domain.Z", "chan int",
		// Well-formed but larger than the address space.
		"[9223372036854775807]int",
		"[99999999999999999999]int",
		"[4294967296][4294967296]byte",
		"[]*[4294967296][4294967296]byte",
	}
	for _, name := range misses {
		_, ok := s.TryResolve(name, cfg)
		assert.False(t, ok, name)
	}
}

func TestCompositeStrategy_MaxUnwrap(t *testing.T) {
	s := strategy.NewCompositeStrategy(strategy.NewBuiltinStrategy())

	_, ok := s.TryResolve("***int", config.NewConfig(config.WithMaxUnwrap(2)))
	assert.False(t, ok)

	got, ok := s.TryResolve("***int", config.NewConfig(config.WithMaxUnwrap(3)))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf((***int)(nil)), got)
}

// TestCompositeStrategy_Concurrent verifies resolution is race-free.
func TestCompositeStrategy_Concurrent(t *testing.T) {
	s := strategy.NewCompositeStrategy(strategy.NewRegistryStrategy(newRegistry(t)), strategy.NewBuiltinStrategy())
	cfg := config.DefaultConfig()
	names := []string{"domain.A", "[]*domain.A", "map[domain.K]int", "[4]string"}

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if _, ok := s.TryResolve(names[i%len(names)], cfg); !ok {
					t.Errorf("miss for %s", names[i%len(names)])
					return
				}
			}
		}()
	}
	wg.Wait()
}
