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

// Package cli implements the rwrap command line tool.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dirpx.dev/rwrap"
	"dirpx.dev/rwrap/cache"
	"dirpx.dev/rwrap/config"
)

// app is the state shared by the subcommands of one root command.
type app struct {
	v     *viper.Viper
	cfg   Config
	cache *cache.Cache
}

// flagKeys maps configuration keys to the persistent flags bound to them.
var flagKeys = map[string]string{
	"include_builtins": "include-builtins",
	"max_unwrap":       "max-unwrap",
	"map_prefer_elem":  "map-prefer-elem",
	"coerce_args":      "coerce-args",
	"strict_params":    "strict-params",
	"cache":            "cache",
	"cache_size":       "cache-size",
	"output":           "output",
	"verbose":          "verbose",
	"no_color":         "no-color",
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "rwrap",
		Short: "Look up, inspect and construct Go types by name",
		Long: color.CyanString(`rwrap - safe reflection over registered Go types

rwrap resolves qualified type names such as net/url.URL, []time.Duration or
map[string]*bytes.Buffer, lists their constructors, fields and methods, and
builds values through them.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default ./rwrap.yaml)")
	pf.StringP("output", "o", "text", "output format: text, yaml or json")
	pf.BoolP("verbose", "v", false, "log lookups to stderr")
	pf.Bool("no-color", false, "disable colored output")
	pf.Bool("include-builtins", true, "resolve predeclared type names")
	pf.Int("max-unwrap", 8, "maximum nesting of composite type names")
	pf.Bool("map-prefer-elem", true, "name maps after their element type when registering")
	pf.Bool("coerce-args", true, "convert basic-kind arguments without loss")
	pf.Bool("strict-params", false, "match parameter types exactly")
	pf.String("cache", "lru", "descriptor cache: lru, 2q, arc or none")
	pf.Int("cache-size", 256, "descriptor cache capacity")
	for key, flag := range flagKeys {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(newTypesCommand(a))
	cmd.AddCommand(newInspectCommand(a))
	cmd.AddCommand(newNewCommand(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := Load(a.v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NoColor {
		color.NoColor = true
	}
	if cfg.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		rwrap.SetLogger(l)
	}

	registerStdlib()
	rwrap.SetConfig(config.NewConfig(cfg.Options()...))

	strategy, err := cache.Parse(cfg.Cache)
	if err != nil {
		return err
	}
	a.cache, err = cache.New(strategy, cfg.CacheSize)
	return err
}
