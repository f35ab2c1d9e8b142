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

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "rwrap", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"types", "inspect", "new"})
}

func TestTypes(t *testing.T) {
	out, err := run(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "net/url.URL struct")
	assert.Contains(t, out, "time.Duration int64")

	out, err = run(t, "types", "-o", "json")
	require.NoError(t, err)
	var entries []entryReport
	require.NoError(t, json.Unmarshal([]byte(out), &entries))

	byName := map[string]entryReport{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	require.Contains(t, byName, "net/url.URL")
	assert.Equal(t, "url.URL", byName["net/url.URL"].Type)
	assert.Contains(t, byName["net/url.URL"].Bindings, "constructor Parse")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "net/url.URL")
	require.NoError(t, err)
	assert.Contains(t, out, "Type net/url.URL (struct)")
	assert.Contains(t, out, "Parse(string) (*url.URL, error)")
	assert.Contains(t, out, "Host string")
	// Every method of url.URL has a pointer receiver.
	assert.NotContains(t, out, "Hostname")

	out, err = run(t, "inspect", "net/url.URL", "--declared")
	require.NoError(t, err)
	assert.Contains(t, out, "Hostname() string")
	assert.Contains(t, out, "static QueryEscape(string) string")
}

func TestInspect_DeclaredYAML(t *testing.T) {
	out, err := run(t, "inspect", "time.Time", "--declared", "-o", "yaml")
	require.NoError(t, err)

	var rep typeReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "time.Time", rep.Name)
	assert.Equal(t, "struct", rep.Kind)
	assert.Contains(t, rep.Constructors, "Unix(int64, int64) time.Time")

	var wall *fieldReport
	for i := range rep.Fields {
		if rep.Fields[i].Name == "wall" {
			wall = &rep.Fields[i]
		}
	}
	require.NotNil(t, wall)
	assert.False(t, wall.Exported)
	assert.True(t, wall.Overridden)
}

func TestInspect_Composite(t *testing.T) {
	out, err := run(t, "inspect", "[]net/url.URL", "-o", "json")
	require.NoError(t, err)
	var rep typeReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "[]url.URL", rep.Name)
	assert.Equal(t, "slice", rep.Kind)
}

func TestInspect_Unknown(t *testing.T) {
	_, err := run(t, "inspect", "no/such.Type")
	assert.ErrorContains(t, err, `unknown type "no/such.Type"`)

	_, err = run(t, "inspect")
	assert.Error(t, err)
}

func TestNew_Constructor(t *testing.T) {
	out, err := run(t, "new", "net/url.URL", "https://example.com/x?q=1", "-o", "json")
	require.NoError(t, err)
	var u map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "https", u["Scheme"])
	assert.Equal(t, "example.com", u["Host"])
	assert.Equal(t, "/x", u["Path"])
	assert.Equal(t, "q=1", u["RawQuery"])
}

func TestNew_Set(t *testing.T) {
	out, err := run(t, "new", "net/url.URL", "--set", "Scheme=https", "--set", "Host=example.org", "-o", "json")
	require.NoError(t, err)
	var u map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "https", u["Scheme"])
	assert.Equal(t, "example.org", u["Host"])

	_, err = run(t, "new", "net/url.URL", "--set", "Nope=1")
	assert.ErrorContains(t, err, `no exported field "Nope"`)

	_, err = run(t, "new", "net/url.URL", "--set", "Host")
	assert.ErrorContains(t, err, "want field=value")
}

func TestNew_ZeroValueHelp(t *testing.T) {
	out, err := run(t, "new", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "implicit zero-value constructor")

	// No arguments: the zero URL, with --set applied to it.
	out, err = run(t, "new", "net/url.URL", "--set", "Path=/x", "-o", "json")
	require.NoError(t, err)
	var u map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "/x", u["Path"])
	assert.Equal(t, "", u["Host"])
}

func TestNew_Text(t *testing.T) {
	out, err := run(t, "new", "time.Duration", "1h30m")
	require.NoError(t, err)
	assert.Contains(t, out, "time.Duration")
	assert.Contains(t, out, "1h30m0s")
}

func TestNew_Unix(t *testing.T) {
	out, err := run(t, "new", "time.Time", "0", "0", "-o", "json")
	require.NoError(t, err)
	var got time.Time
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(0), got.Unix())
}

func TestNew_Failures(t *testing.T) {
	_, err := run(t, "new", "time.Duration", "soon")
	assert.Error(t, err)

	_, err = run(t, "new", "time.Time", "1", "2", "3")
	assert.ErrorContains(t, err, "no constructor of time.Time takes 3 arguments")

	_, err = run(t, "new", "time.Time", "x", "0")
	assert.ErrorContains(t, err, "Unix")
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("RWRAP_OUTPUT", "json")
	out, err := run(t, "types")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	// Flags win over the environment.
	out, err = run(t, "types", "-o", "text")
	require.NoError(t, err)
	assert.False(t, json.Valid([]byte(out)))
}

func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rwrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: yaml\ncache: arc\ncache_size: 4\n"), 0o600))
	out, err := run(t, "inspect", "bytes.Buffer", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "name: bytes.Buffer"), out)
}

func TestConfig_Invalid(t *testing.T) {
	_, err := run(t, "types", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")

	_, err = run(t, "types", "--cache", "lfu")
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = run(t, "types", "--cache", "lru", "--cache-size", "0")
	assert.Error(t, err)

	_, err = run(t, "types", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConvert(t *testing.T) {
	tests := []struct {
		raw  string
		t    reflect.Type
		want any
	}{
		{"abc", reflect.TypeFor[string](), "abc"},
		{"true", reflect.TypeFor[bool](), true},
		{"-12", reflect.TypeFor[int8](), int8(-12)},
		{"300", reflect.TypeFor[uint16](), uint16(300)},
		{"1.5", reflect.TypeFor[float32](), float32(1.5)},
		{"2s", reflect.TypeFor[time.Duration](), 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := convert(tt.raw, tt.t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}

	_, err := convert("300", reflect.TypeFor[int8]())
	assert.ErrorContains(t, err, "overflows")
	_, err = convert("x", reflect.TypeFor[int]())
	assert.Error(t, err)
	_, err = convert("x", reflect.TypeFor[[]int]())
	assert.Error(t, err)
}
