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

package apis

import "reflect"

// Registry is the process-wide descriptor table: it maps qualified names to
// types and carries the functions bound to a type (constructors, methods
// that reflection cannot see, static functions).
// Implementations must be safe for concurrent use.
type Registry interface {
	// Register associates name with t. Registering the same pair twice is a
	// no-op; binding an already taken name to another type is an error.
	Register(t reflect.Type, name string) error
	// RegisterType registers the nearest named type of t under its qualified
	// name ("pkg/path.Name") and, if it implements Namer, under that name too.
	RegisterType(t reflect.Type) error
	// Lookup returns the type registered under name.
	Lookup(name string) (t reflect.Type, ok bool)
	// NameOf returns the first name t was registered under.
	NameOf(t reflect.Type) (name string, ok bool)
	// Bind attaches a function to t.
	Bind(t reflect.Type, b Binding) error
	// Bindings returns the functions bound to t in registration order.
	Bindings(t reflect.Type) []Binding
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered names.
	Count() int
	// Reset clears all registered names and bindings.
	Reset()
}

// Entry is a single (type, name) association in a Registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated name.
	Name string
	// Bindings are the functions bound to Type.
	Bindings []Binding
}

// BindingKind tells how a bound function relates to its type.
type BindingKind uint8

const (
	// BindConstructor is a function producing a value of the type.
	BindConstructor BindingKind = iota + 1
	// BindMethod is a function whose first parameter is the receiver.
	BindMethod
	// BindFunc is a static function: no receiver.
	BindFunc
)

// String returns a lowercase token for k.
func (k BindingKind) String() string {
	switch k {
	case BindConstructor:
		return "constructor"
	case BindMethod:
		return "method"
	case BindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Binding is a function attached to a type in a Registry.
type Binding struct {
	// Kind is the role of Fn.
	Kind BindingKind
	// Name is the member name callers look Fn up by.
	Name string
	// Fn is the function value.
	Fn reflect.Value
}
