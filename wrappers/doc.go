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

// Package wrappers provides lookup and access descriptors over reflect.
//
// A Type describes a possibly absent type. Its lookups return Constructor,
// Field and Method descriptors that are themselves possibly absent: a member
// that does not exist is never an error, it is an absent descriptor whose
// operations are no-ops returning an absent value. Errors are reserved for
// operations on present members that fail, such as a callee that panics or
// a value that does not fit a field. They are reported as *MemberError and
// classified with errors.Is against the package sentinels.
//
// Names resolve through the rwrap registry, so a type is registered before
// it can be found by name:
//
//	_ = rwrap.RegisterFor[url.URL]()
//
//	t := wrappers.ForName("net/url.URL")
//	host := t.Field("Host")
//	u := &url.URL{}
//	if _, err := host.Write(u, "example.com"); err != nil {
//		// ...
//	}
//	s, _ := t.Method("String").Invoke(u)
//
// Descriptors are immutable values and safe for concurrent use. Writes
// through them are not synchronized with other access to the same instance.
package wrappers
