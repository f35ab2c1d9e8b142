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
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"dirpx.dev/rwrap/cache"
	"dirpx.dev/rwrap/wrappers"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newNewCommand(a *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "new <name> [args...]",
		Short: "Construct a value of a type and print it",
		Long: `Construct a value of a type and print it.

The first constructor taking as many arguments as given, all of them of basic
kinds, is invoked with the arguments converted to its parameter types. With
no arguments the implicit zero-value constructor is used: pointers, maps,
slices and channels are allocated, everything else is the zero value.

Exported fields are then assigned from --set flags. A constructed value that
is not a pointer is copied into a new one first, so --set always writes to
the value that is printed.`,
		Example: `  # Parse a URL
  rwrap new net/url.URL https://example.com/path?q=1

  # A zero URL with two fields set
  rwrap new net/url.URL --set Scheme=https --set Host=example.com

  # A duration, as JSON
  rwrap new time.Duration 1h30m -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := wrappers.ForName(args[0])
			if !typ.IsPresent() {
				return fmt.Errorf("unknown type %q", args[0])
			}
			target, err := construct(typ, args[1:])
			if err != nil {
				return err
			}
			for _, s := range sets {
				name, raw, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("--set %q: want field=value", s)
				}
				if err := assign(a.cache, typ, target, name, raw); err != nil {
					return err
				}
			}
			out := target.Interface()
			return render(cmd.OutOrStdout(), a.cfg.Output, out, func(w io.Writer) {
				dumper.Fdump(w, out)
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "assign an exported field after construction (field=value)")
	return cmd
}

// construct invokes the first constructor of typ that accepts args and
// returns a pointer to the result.
func construct(typ wrappers.Type[any], args []string) (reflect.Value, error) {
	var errs []error
	for _, c := range typ.Constructors() {
		params := c.Params()
		if len(params) != len(args) || c.Signature().Variadic {
			continue
		}
		in, err := convertArgs(params, args)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Signature().Name, err))
			continue
		}
		v, err := c.Invoke(in...)
		if err != nil {
			return reflect.Value{}, err
		}
		x, ok := v.Get()
		if !ok {
			return reflect.Value{}, fmt.Errorf("%s returned nil", c.Signature().Name)
		}
		rv := reflect.ValueOf(x)
		if rv.Kind() == reflect.Pointer {
			return rv, nil
		}
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p, nil
	}
	if len(errs) > 0 {
		return reflect.Value{}, errors.Join(errs...)
	}
	return reflect.Value{}, fmt.Errorf("no constructor of %s takes %d arguments", typ.Name(), len(args))
}

func convertArgs(params []reflect.Type, args []string) ([]any, error) {
	in := make([]any, len(args))
	for i, p := range params {
		if !convertible(p) {
			return nil, fmt.Errorf("parameter %d of type %v cannot be given on the command line", i, p)
		}
		v, err := convert(args[i], p)
		if err != nil {
			return nil, err
		}
		in[i] = v.Interface()
	}
	return in, nil
}

// assign writes raw into the exported field name of the value target
// points to.
func assign(c *cache.Cache, typ wrappers.Type[any], target reflect.Value, name, raw string) error {
	f := cache.Field(c, typ, nil, name)
	if !f.IsPresent() {
		return fmt.Errorf("%s has no exported field %q", typ.Name(), name)
	}
	v, err := convert(raw, f.Type())
	if err != nil {
		return fmt.Errorf("--set %s: %w", name, err)
	}
	_, err = f.Write(target.Interface(), v.Interface())
	return err
}
