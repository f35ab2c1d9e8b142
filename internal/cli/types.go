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
	"sort"

	"github.com/spf13/cobra"

	"dirpx.dev/rwrap"
)

type entryReport struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Kind     string   `json:"kind" yaml:"kind"`
	Bindings []string `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

func newTypesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered type names",
		Long: `List the type names known to the registry, with the constructors,
methods and functions bound to each type.

Predeclared names (int, string, error, ...) and composite names built from
registered ones ([]T, map[K]V, *T) resolve as well but are not listed.`,
		Example: `  # List registered types
  rwrap types

  # As YAML
  rwrap types -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := listEntries()
			return render(cmd.OutOrStdout(), a.cfg.Output, entries, func(w io.Writer) {
				for _, e := range entries {
					nameColor.Fprint(w, e.Name)
					dimColor.Fprintf(w, " %s", e.Kind)
					if len(e.Bindings) > 0 {
						fmt.Fprintf(w, " (%d bound)", len(e.Bindings))
					}
					fmt.Fprintln(w)
				}
			})
		},
	}
}

func listEntries() []entryReport {
	var out []entryReport
	for _, e := range rwrap.Registry().Entries() {
		if e.Name == "" {
			continue
		}
		r := entryReport{Name: e.Name, Type: e.Type.String(), Kind: e.Type.Kind().String()}
		for _, b := range e.Bindings {
			r.Bindings = append(r.Bindings, fmt.Sprintf("%s %s", b.Kind, b.Name))
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
