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
	"strconv"
	"strings"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
)

// NewCompositeStrategy creates an apis.Strategy for composite type names:
// "*T", "[]T", "[N]T" and "map[K]V". Element names are resolved with the
// given strategies, and recursively with the composite strategy itself, up
// to cfg.MaxUnwrap levels.
func NewCompositeStrategy(elems ...apis.Strategy) apis.Strategy {
	out := make([]apis.Strategy, 0, len(elems))
	for _, s := range elems {
		if s != nil {
			out = append(out, s)
		}
	}
	return &compositeStrategy{elems: out}
}

type compositeStrategy struct {
	elems []apis.Strategy
}

var _ apis.Strategy = (*compositeStrategy)(nil)

// TryResolve parses name as a composite type expression.
func (s *compositeStrategy) TryResolve(name string, cfg apis.Config) (reflect.Type, bool) {
	depth := cfg.MaxUnwrap
	if depth <= 0 {
		depth = config.DefaultMaxUnwrap
	}
	return s.resolve(strings.TrimSpace(name), cfg, depth)
}

func (s *compositeStrategy) resolve(name string, cfg apis.Config, depth int) (reflect.Type, bool) {
	if name == "" {
		return nil, false
	}
	for _, e := range s.elems {
		if t, ok := e.TryResolve(name, cfg); ok {
			return t, true
		}
	}
	if depth == 0 {
		return nil, false
	}

	switch {
	case strings.HasPrefix(name, "*"):
		elem, ok := s.resolve(name[1:], cfg, depth-1)
		if !ok {
			return nil, false
		}
		return reflect.PointerTo(elem), true

	case strings.HasPrefix(name, "[]"):
		elem, ok := s.resolve(name[2:], cfg, depth-1)
		if !ok {
			return nil, false
		}
		return reflect.SliceOf(elem), true

	case strings.HasPrefix(name, "["):
		end := strings.IndexByte(name, ']')
		if end < 0 {
			return nil, false
		}
		n, ok := arrayLen(name[1:end])
		if !ok {
			return nil, false
		}
		elem, ok := s.resolve(name[end+1:], cfg, depth-1)
		if !ok || !fits(n, elem) {
			return nil, false
		}
		return reflect.ArrayOf(n, elem), true

	case strings.HasPrefix(name, "map["):
		end := closingBracket(name, len("map"))
		if end < 0 {
			return nil, false
		}
		key, ok := s.resolve(name[len("map["):end], cfg, depth-1)
		if !ok || !key.Comparable() {
			return nil, false
		}
		elem, ok := s.resolve(name[end+1:], cfg, depth-1)
		if !ok {
			return nil, false
		}
		return reflect.MapOf(key, elem), true
	}
	return nil, false
}

// arrayLen parses the decimal length of an array type name.
func arrayLen(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// fits reports whether an array of n elem values stays within the address
// space; reflect.ArrayOf panics otherwise.
func fits(n int, elem reflect.Type) bool {
	size := elem.Size()
	return size == 0 || uintptr(n) <= ^uintptr(0)/size
}

// closingBracket returns the index of the ']' matching the '[' at open.
func closingBracket(s string, open int) int {
	level := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			level++
		case ']':
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}
