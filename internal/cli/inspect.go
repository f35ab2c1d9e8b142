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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dirpx.dev/rwrap/wrappers"
)

type typeReport struct {
	Name         string        `json:"name" yaml:"name"`
	Kind         string        `json:"kind" yaml:"kind"`
	Constructors []string      `json:"constructors" yaml:"constructors"`
	Fields       []fieldReport `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods      []string      `json:"methods,omitempty" yaml:"methods,omitempty"`
}

type fieldReport struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Tag        string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Exported   bool   `json:"exported" yaml:"exported"`
	Overridden bool   `json:"overridden,omitempty" yaml:"overridden,omitempty"`
}

func newInspectCommand(a *app) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show the constructors, fields and methods of a type",
		Long: `Show the constructors, fields and methods of a type.

By default only exported fields (promoted ones included) and the exported
methods of the value type are listed. With --declared the fields declared on
the struct itself, unexported ones included, the methods of the pointer type
and the functions bound in the registry are listed instead.`,
		Example: `  # Public members of net/url.URL
  rwrap inspect net/url.URL

  # Everything declared on time.Time, as JSON
  rwrap inspect time.Time --declared -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := wrappers.ForName(args[0])
			if !typ.IsPresent() {
				return fmt.Errorf("unknown type %q", args[0])
			}
			rep := describe(typ, declared)
			return render(cmd.OutOrStdout(), a.cfg.Output, rep, rep.text)
		},
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "list declared members instead of public ones")
	return cmd
}

func describe(typ wrappers.Type[any], declared bool) typeReport {
	rep := typeReport{Name: typ.Name(), Kind: typ.Type().Kind().String()}
	for _, c := range typ.Constructors() {
		rep.Constructors = append(rep.Constructors, c.Signature().String())
	}

	fields, methods := typ.Fields(), typ.Methods()
	if declared {
		fields, methods = typ.DeclaredFields(), typ.DeclaredMethods()
	}
	for _, f := range fields {
		rep.Fields = append(rep.Fields, fieldReport{
			Name:       f.Name(),
			Type:       f.Type().String(),
			Tag:        string(f.Tag()),
			Exported:   f.Exported(),
			Overridden: f.Overridden(),
		})
	}
	for _, m := range methods {
		s := m.Signature().String()
		if m.Static() {
			s = "static " + s
		}
		rep.Methods = append(rep.Methods, s)
	}
	return rep
}

func (r typeReport) text(w io.Writer) {
	headerColor.Fprint(w, "Type ")
	nameColor.Fprint(w, r.Name)
	dimColor.Fprintf(w, " (%s)\n", r.Kind)

	section(w, "Constructors", r.Constructors)

	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		s := f.Name + " " + f.Type
		if f.Tag != "" {
			s += " `" + f.Tag + "`"
		}
		if f.Overridden {
			s += dimColor.Sprint(" [unexported]")
		}
		fields = append(fields, s)
	}
	section(w, "Fields", fields)
	section(w, "Methods", r.Methods)
}
