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

	"github.com/spf13/viper"

	"dirpx.dev/rwrap/cache"
	"dirpx.dev/rwrap/config"
)

// Config is the CLI configuration. It is read from flags, RWRAP_*
// environment variables and an optional rwrap.yaml, in that order of
// precedence.
type Config struct {
	IncludeBuiltins bool   `mapstructure:"include_builtins"`
	MaxUnwrap       int    `mapstructure:"max_unwrap"`
	MapPreferElem   bool   `mapstructure:"map_prefer_elem"`
	CoerceArgs      bool   `mapstructure:"coerce_args"`
	StrictParams    bool   `mapstructure:"strict_params"`
	Cache           string `mapstructure:"cache"`
	CacheSize       int    `mapstructure:"cache_size"`
	Output          string `mapstructure:"output"`
	Verbose         bool   `mapstructure:"verbose"`
	NoColor         bool   `mapstructure:"no_color"`
}

// Load reads the configuration into v. path names an explicit config file;
// when empty, rwrap.yaml in the working directory is used if it exists.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetDefault("include_builtins", true)
	v.SetDefault("max_unwrap", 8)
	v.SetDefault("map_prefer_elem", true)
	v.SetDefault("coerce_args", true)
	v.SetDefault("strict_params", false)
	v.SetDefault("cache", "lru")
	v.SetDefault("cache_size", 256)
	v.SetDefault("output", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("no_color", false)

	v.SetEnvPrefix("RWRAP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rwrap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Output {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("invalid output format %q: want text, yaml or json", c.Output)
	}
	if c.MaxUnwrap < 0 {
		return fmt.Errorf("max_unwrap must not be negative, got %d", c.MaxUnwrap)
	}
	if _, err := cache.Parse(c.Cache); err != nil {
		return err
	}
	return nil
}

// Options converts c into rwrap configuration options.
func (c Config) Options() []config.Option {
	return []config.Option{
		config.WithIncludeBuiltins(c.IncludeBuiltins),
		config.WithMaxUnwrap(c.MaxUnwrap),
		config.WithMapPreferElem(c.MapPreferElem),
		config.WithCoerceArgs(c.CoerceArgs),
		config.WithStrictParams(c.StrictParams),
	}
}
