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

// Package cache memoizes descriptor lookups of the wrappers package.
//
// A lookup scans the fields or methods of a type every time it runs. When
// the same members are looked up repeatedly, a Cache keeps the resulting
// descriptors, absent ones included, keyed by the type, its configuration
// and registry, the member kind, name and requested types.
//
// Bindings added to a registry after a lookup was cached are not seen until
// the cache is purged.
package cache

import (
	"errors"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/wrappers"
)

// ErrSize is returned by New for a non-positive size.
var ErrSize = errors.New("rwrap(cache): size must be positive")

// maxKeyParams bounds the parameter list a key can hold. Lookups with more
// parameters bypass the cache.
const maxKeyParams = 8

type kind uint8

const (
	kindConstructor kind = iota + 1
	kindField
	kindDeclaredField
	kindMethod
	kindDeclaredMethod
)

type key struct {
	owner  reflect.Type
	cfg    apis.Config
	reg    apis.Registry
	kind   kind
	name   string
	ret    reflect.Type
	typed  reflect.Type
	n      int
	params [maxKeyParams]reflect.Type
}

// store is the part of the golang-lru caches a Cache uses.
type store interface {
	Get(key interface{}) (interface{}, bool)
	Len() int
	Purge()
}

// Cache holds looked up descriptors. It is safe for concurrent use.
type Cache struct {
	strategy Strategy
	store    store
	add      func(k, v interface{})
}

// New returns a cache of the given strategy holding up to size entries.
// size is ignored for None.
func New(strategy Strategy, size int) (*Cache, error) {
	c := &Cache{strategy: strategy}
	if strategy == None {
		return c, nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	switch strategy {
	case LRU:
		l, err := lru.New(size)
		if err != nil {
			return nil, err
		}
		c.store, c.add = l, func(k, v interface{}) { l.Add(k, v) }
	case TwoQueue:
		l, err := lru.New2Q(size)
		if err != nil {
			return nil, err
		}
		c.store, c.add = l, l.Add
	case ARC:
		l, err := lru.NewARC(size)
		if err != nil {
			return nil, err
		}
		c.store, c.add = l, l.Add
	default:
		return nil, fmt.Errorf("cache: unknown strategy %v", strategy)
	}
	return c, nil
}

// Strategy returns the eviction strategy of c.
func (c *Cache) Strategy() Strategy {
	return c.strategy
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int {
	if c.store == nil {
		return 0
	}
	return c.store.Len()
}

// Purge drops every cached descriptor.
func (c *Cache) Purge() {
	if c.store != nil {
		c.store.Purge()
	}
}

// Constructor is Type.Constructor through c.
func Constructor[O any](c *Cache, t wrappers.Type[O], params ...reflect.Type) wrappers.Constructor[O] {
	return lookup(c, t, kindConstructor, "", nil, reflect.TypeFor[O](), params, func() wrappers.Constructor[O] {
		return t.Constructor(params...)
	})
}

// Field is Type.FieldOfType through c.
func Field[O any](c *Cache, t wrappers.Type[O], ft reflect.Type, name string) wrappers.Field[any] {
	return lookup(c, t, kindField, name, ft, nil, nil, func() wrappers.Field[any] {
		return t.FieldOfType(ft, name)
	})
}

// DeclaredField is Type.DeclaredFieldOfType through c.
func DeclaredField[O any](c *Cache, t wrappers.Type[O], ft reflect.Type, name string) wrappers.Field[any] {
	return lookup(c, t, kindDeclaredField, name, ft, nil, nil, func() wrappers.Field[any] {
		return t.DeclaredFieldOfType(ft, name)
	})
}

// Method is Type.MethodReturning through c.
func Method[O any](c *Cache, t wrappers.Type[O], ret reflect.Type, name string, params ...reflect.Type) wrappers.Method[any] {
	return lookup(c, t, kindMethod, name, ret, nil, params, func() wrappers.Method[any] {
		return t.MethodReturning(ret, name, params...)
	})
}

// DeclaredMethod is Type.DeclaredMethodReturning through c.
func DeclaredMethod[O any](c *Cache, t wrappers.Type[O], ret reflect.Type, name string, params ...reflect.Type) wrappers.Method[any] {
	return lookup(c, t, kindDeclaredMethod, name, ret, nil, params, func() wrappers.Method[any] {
		return t.DeclaredMethodReturning(ret, name, params...)
	})
}

func lookup[D, O any](c *Cache, t wrappers.Type[O], k kind, name string, ret, typed reflect.Type, params []reflect.Type, scan func() D) D {
	owner, ok := t.Get()
	if !ok || c == nil || c.store == nil || len(params) > maxKeyParams {
		return scan()
	}
	for _, p := range params {
		if p == nil {
			return scan()
		}
	}

	ck := key{owner: owner, cfg: t.Config(), reg: t.Registry(), kind: k, name: name, ret: ret, typed: typed, n: len(params)}
	copy(ck.params[:], params)
	if v, ok := c.store.Get(ck); ok {
		return v.(D)
	}
	d := scan()
	c.add(ck, d)
	return d
}
