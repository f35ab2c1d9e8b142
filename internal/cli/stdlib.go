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
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/rwrap"
	"dirpx.dev/rwrap/internal/logging"
)

var stdlibOnce sync.Once

// registerStdlib registers the standard library types the CLI knows by
// name, with the constructors and functions that make them useful.
func registerStdlib() {
	stdlibOnce.Do(func() {
		errs := []error{
			rwrap.RegisterFor[url.URL](),
			rwrap.RegisterFor[url.Userinfo](),
			rwrap.RegisterFor[time.Time](),
			rwrap.RegisterFor[time.Duration](),
			rwrap.RegisterFor[time.Location](),
			rwrap.RegisterFor[bytes.Buffer](),
			rwrap.RegisterFor[strings.Builder](),

			rwrap.BindConstructor[url.URL]("Parse", url.Parse),
			rwrap.BindConstructor[url.Userinfo]("User", url.User),
			rwrap.BindConstructor[url.Userinfo]("UserPassword", url.UserPassword),
			rwrap.BindConstructor[time.Time]("Unix", time.Unix),
			rwrap.BindConstructor[time.Time]("Now", time.Now),
			rwrap.BindConstructor[time.Duration]("ParseDuration", time.ParseDuration),
			rwrap.BindConstructor[time.Location]("LoadLocation", time.LoadLocation),
			rwrap.BindConstructor[bytes.Buffer]("NewBufferString", bytes.NewBufferString),

			rwrap.BindFunc[url.URL]("QueryEscape", url.QueryEscape),
			rwrap.BindFunc[url.URL]("PathEscape", url.PathEscape),
			rwrap.BindFunc[time.Duration]("Since", time.Since),
		}
		for _, err := range errs {
			if err != nil {
				logging.L().Warn("standard library registration failed", zap.Error(err))
			}
		}
	})
}
