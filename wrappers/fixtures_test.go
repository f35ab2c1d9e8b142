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

package wrappers_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/builder"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/wrappers"
)

const personName = "dirpx.dev/rwrap/wrappers_test.Person"

type Greeter interface {
	Greet(name string) string
}

type Base struct {
	ID   int
	note string
}

func (b Base) Describe() string { return "base " + strconv.Itoa(b.ID) + b.note }

type Person struct {
	Base
	Name   string
	Tags   []string
	Scores []int
	Labels map[string]struct{}
	Extra  any
	age    int
	Parent *Person
}

func (p Person) Accept(s fmt.Stringer) string { return s.String() }
func (p Person) Boom() int                    { panic("boom") }
func (p Person) F(n int) string               { return strconv.Itoa(n) }
func (p Person) Greet(name string) string     { return "hello " + name + " from " + p.Name }
func (p Person) Meet(other Person) string     { return p.Name + " meets " + other.Name }
func (p Person) Pair() (string, int)          { return p.Name, p.age }
func (p Person) Wide(n int64) int64           { return n * 2 }
func (p *Person) Rename(name string)          { p.Name = name }

func (p Person) Join(sep string, parts ...string) string {
	return strings.Join(parts, sep)
}

func (p Person) Fail(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

func NewPerson(name string) *Person {
	return &Person{Name: name}
}

func NewAged(name string, age int) (*Person, error) {
	if age < 0 {
		return nil, fmt.Errorf("negative age %d", age)
	}
	return &Person{Name: name, age: age}, nil
}

type label string

func (l label) String() string { return string(l) }

// Holder reaches Base through a pointer that may be nil.
type Holder struct {
	*Base
	Own int
}

type fixture struct {
	reg apis.Registry
	res apis.Resolver
	cfg apis.Config
}

func newFixture(t *testing.T, opts ...config.Option) *fixture {
	t.Helper()
	cfg := config.NewConfig(opts...)
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	pt := reflect.TypeFor[Person]()
	require.NoError(t, reg.RegisterType(pt))
	require.NoError(t, reg.Bind(pt, apis.Binding{Kind: apis.BindConstructor, Name: "NewPerson", Fn: reflect.ValueOf(NewPerson)}))
	require.NoError(t, reg.Bind(pt, apis.Binding{Kind: apis.BindConstructor, Name: "NewAged", Fn: reflect.ValueOf(NewAged)}))
	require.NoError(t, reg.Bind(pt, apis.Binding{Kind: apis.BindMethod, Name: "secretAge", Fn: reflect.ValueOf(func(p Person) int { return p.age })}))
	require.NoError(t, reg.Bind(pt, apis.Binding{Kind: apis.BindFunc, Name: "Count", Fn: reflect.ValueOf(func() int { return 3 })}))
	return &fixture{reg: reg, res: b.BuildResolver(cfg, reg, nil), cfg: cfg}
}

func (f *fixture) forName(name string) wrappers.Type[any] {
	return wrappers.ForNameIn(f.reg, f.res, f.cfg, name)
}

func (f *fixture) person() wrappers.Type[any] {
	return f.forName(personName)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
