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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/rwrap"
	"dirpx.dev/rwrap/match"
	"dirpx.dev/rwrap/policy"
	"dirpx.dev/rwrap/wrappers"
)

func TestForName_Miss(t *testing.T) {
	typ := wrappers.ForName("no/such.Type")

	assert.False(t, typ.IsPresent())
	assert.Nil(t, typ.Type())
	assert.Equal(t, "", typ.Name())
	assert.Equal(t, "Type[absent]", typ.String())

	assert.False(t, typ.Constructor().IsPresent())
	assert.False(t, typ.Field("Name").IsPresent())
	assert.False(t, typ.DeclaredField("Name").IsPresent())
	assert.False(t, typ.Method("String").IsPresent())
	assert.False(t, typ.DeclaredMethod("String").IsPresent())
	assert.False(t, typ.HasConstructor())
	assert.False(t, typ.HasField(nil, "Name"))
	assert.False(t, typ.HasMethod(nil, "String"))
	assert.Empty(t, typ.Fields())
	assert.Empty(t, typ.DeclaredFields())
	assert.Empty(t, typ.Methods())
	assert.Empty(t, typ.DeclaredMethods())
	assert.Empty(t, typ.Constructors())
}

func TestForName_UnbuildableNamesAreAbsent(t *testing.T) {
	for _, name := range []string{
		"[9223372036854775807]int",
		"[4294967296][4294967296]byte",
		"map[string][9223372036854775807]int64",
		"[+3]int",
	} {
		var typ wrappers.Type[any]
		require.NotPanics(t, func() { typ = wrappers.ForName(name) }, name)
		assert.False(t, typ.IsPresent(), name)
	}
}

func TestAbsentDescriptors_NeverFail(t *testing.T) {
	typ := wrappers.ForName("no/such.Type")

	// Nil requested types are not inspected on an absent type.
	assert.NotPanics(t, func() { typ.Method("F", nil) })

	v, err := typ.Constructor().Invoke(1, 2, 3)
	require.NoError(t, err)
	assert.False(t, v.IsPresent())

	r, err := typ.Method("F").Invoke(nil, "junk")
	require.NoError(t, err)
	assert.False(t, r.IsPresent())

	f := typ.Field("Name")
	got, err := f.Read(nil)
	require.NoError(t, err)
	assert.False(t, got.IsPresent())

	ok, err := f.Write(nil, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.Apply(nil, policy.Append(1))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "Field[absent]", f.String())
	assert.Equal(t, "Method[absent]", typ.Method("F").String())
	assert.Equal(t, "Constructor[absent]", typ.Constructor().String())
}

func TestForName_Global(t *testing.T) {
	typ := wrappers.ForName("int")
	require.True(t, typ.IsPresent())
	assert.Equal(t, reflect.TypeFor[int](), typ.Type())
	assert.Equal(t, "Type[int]", typ.String())

	slice := wrappers.ForName("[]map[string]int")
	require.True(t, slice.IsPresent())
	assert.Equal(t, reflect.TypeFor[[]map[string]int](), slice.Type())
}

func TestForName_MissIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rwrap.SetLogger(zap.New(core))
	t.Cleanup(func() { rwrap.SetLogger(nil) })

	_ = wrappers.ForName("no/such.Type")

	entries := logs.FilterMessage("type not resolved").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "no/such.Type", entries[0].ContextMap()["name"])
}

func TestForNameIn_Registry(t *testing.T) {
	f := newFixture(t)
	typ := f.person()

	require.True(t, typ.IsPresent())
	assert.Equal(t, typeOf[Person](), typ.Type())
	assert.Equal(t, personName, typ.Name())

	ptr := f.forName("*" + personName)
	require.True(t, ptr.IsPresent())
	assert.Equal(t, typeOf[*Person](), ptr.Type())

	assert.False(t, wrappers.ForNameIn(nil, nil, f.cfg, personName).IsPresent())
}

func TestOfAndWrap(t *testing.T) {
	typ := wrappers.Of[Person]()
	require.True(t, typ.IsPresent())
	assert.Equal(t, typeOf[Person](), typ.Type())
	assert.Equal(t, "dirpx.dev/rwrap/wrappers_test.Person", typ.Name())

	assert.True(t, wrappers.Wrap(typeOf[Person]()).Equal(wrappers.Wrap(typeOf[Person]())))
	assert.False(t, wrappers.Wrap(typeOf[Person]()).Equal(wrappers.Wrap(typeOf[Base]())))
	assert.True(t, wrappers.ForName("no/such.A").Equal(wrappers.ForName("no/such.B")))

	assert.Equal(t, "[]string", wrappers.Wrap(typeOf[[]string]()).Name())

	assert.PanicsWithValue(t, wrappers.ErrNilType, func() { wrappers.Wrap(nil) })
}

func TestNilParameterType_Panics(t *testing.T) {
	typ := wrappers.Of[Person]()
	assert.PanicsWithValue(t, match.ErrNilType, func() { typ.Method("NoSuchMethod", nil) })
	assert.PanicsWithValue(t, match.ErrNilType, func() { typ.Constructor(nil) })
}

func TestEnumeration(t *testing.T) {
	f := newFixture(t)
	typ := f.person()

	var names []string
	for _, fd := range typ.Fields() {
		names = append(names, fd.Name())
	}
	assert.Equal(t, []string{"Base", "ID", "Name", "Tags", "Scores", "Labels", "Extra", "Parent"}, names)

	names = names[:0]
	for _, fd := range typ.DeclaredFields() {
		names = append(names, fd.Name())
	}
	assert.Equal(t, []string{"Base", "Name", "Tags", "Scores", "Labels", "Extra", "age", "Parent"}, names)

	names = names[:0]
	for _, m := range typ.Methods() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Accept", "Boom", "Describe", "F", "Fail", "Greet", "Join", "Meet", "Pair", "Wide"}, names)

	names = names[:0]
	for _, m := range typ.DeclaredMethods() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Accept", "Boom", "Describe", "F", "Fail", "Greet", "Join", "Meet", "Pair", "Rename", "Wide", "secretAge", "Count"}, names)

	cs := typ.Constructors()
	require.Len(t, cs, 3)
	assert.True(t, cs[0].Implicit())
	assert.Equal(t, "NewPerson", cs[1].Signature().Name)
	assert.Equal(t, "NewAged", cs[2].Signature().Name)
}

func TestPointerTypeSeesElementBindings(t *testing.T) {
	f := newFixture(t)
	ptr := f.forName("*" + personName)

	assert.True(t, ptr.HasConstructor(typeOf[string]()))
	assert.True(t, ptr.HasDeclaredMethod(nil, "secretAge"))
	assert.True(t, ptr.HasMethod(nil, "Rename", typeOf[string]()))
	assert.True(t, ptr.HasField(typeOf[string](), "Name"))
}
