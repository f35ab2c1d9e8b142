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

// Package rwrap provides a process-wide type registry and name resolution
// service for safe reflection.
//
// Go's reflect package can describe any type it is handed, but it cannot
// find a type by name and it does not know which functions construct a
// type. rwrap fills both gaps with a registry that code owning the types
// populates at init time:
//
//	func init() {
//		_ = rwrap.RegisterFor[Order]()                       // "example.com/shop.Order"
//		_ = rwrap.BindConstructor[Order]("NewOrder", NewOrder)
//		_ = rwrap.BindMethod[Order]("total", (*Order).total) // unexported code
//	}
//
// The wrappers package builds on it: wrappers.ForName resolves a name
// through rwrap and returns a descriptor whose constructor, field and method
// lookups never fail, only come back absent.
//
// # Design
//
// The core of rwrap is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: rules that control resolution and access (how deep composite
//     names may nest, whether predeclared names resolve, whether basic-kind
//     arguments are converted, whether parameter types match exactly).
//
//   - Registry: a process-wide mapping between qualified names and Go types,
//     plus the functions bound to each type (constructors, methods and
//     static functions). The registry can be written to at runtime.
//
//   - Resolver: a read-only object that answers "which type is called
//     this?". The default resolver tries, in order:
//     1. the registry,
//     2. the predeclared names (int, string, error, any, ...),
//     3. composite expressions over both: *T, []T, [N]T, map[K]V.
//     Resolver is expected to be concurrency-safe for reads.
//
//   - Builder: a pluggable factory that knows how to construct Registry
//     and Resolver instances for a given Config, migrating names and
//     bindings from the previous Registry.
//
// All of these live inside a single immutable struct. The package holds an
// atomic pointer to the current state. Readers load that pointer, use it,
// and never mutate it. Writers build a new state and atomically swap it in,
// so lookups are lock-free on the hot path:
//
//	t, ok := rwrap.ForName("map[string]*example.com/shop.Order")
//
// # Global API
//
//  1. Read helpers:
//
//     ForName(name string) (reflect.Type, bool)
//     Snapshot() (apis.Config, apis.Registry, apis.Resolver)
//     Config(), Registry(), Resolver(), Builder()
//
//  2. Registration helpers:
//
//     Register(t, name), RegisterType(t), RegisterFor[T]()
//     BindConstructor[T](name, fn)
//     BindMethod[T](name, fn)
//     BindFunc[T](name, fn)
//
//  3. Mutation helpers:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetRegistry(reg apis.Registry)
//     SetResolver(res apis.Resolver)
//     PinRegistry(), UnpinRegistry(), PinResolver(), UnpinResolver()
//     SetAll(...)
//     SetLogger(l *zap.Logger)
//
//     Each mutation acquires an internal build lock, derives a new
//     snapshot (rebuilding or reusing Registry and Resolver as needed),
//     and atomically publishes it.
//
// # Pinning
//
// SetRegistry and SetResolver install an exact instance and pin it: later
// SetConfig or SetBuilder calls do not rebuild a pinned layer until it is
// unpinned. SetAll is the hard reset used by tests to get a deterministic
// state.
//
// # Logging
//
// rwrap logs through zap and is silent by default. SetLogger installs a
// logger for the rwrap packages; lookups that miss and field accesses that
// go around an unexported field are logged at debug level.
//
// # Scope
//
// rwrap does not map objects, serialize them or inject dependencies. It
// resolves names to types and gives safe, absence-aware access to their
// members; everything else belongs to higher layers.
package rwrap
