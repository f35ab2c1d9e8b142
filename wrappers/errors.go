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

package wrappers

import (
	"errors"
	"fmt"
)

var (
	// ErrAccess is returned when a field cannot be reached or written.
	ErrAccess = errors.New("rwrap(wrappers): member not accessible")
	// ErrInvocation is returned when a call fails: bad arguments, a panic in
	// the callee or a non-nil trailing error result.
	ErrInvocation = errors.New("rwrap(wrappers): invocation failed")
	// ErrInstantiation is returned when the type has no value to construct.
	ErrInstantiation = errors.New("rwrap(wrappers): type cannot be instantiated")
	// ErrCast is returned when a value does not convert to the requested type.
	ErrCast = errors.New("rwrap(wrappers): value does not convert to requested type")
	// ErrNilTarget is returned for a nil instance or receiver.
	ErrNilTarget = errors.New("rwrap(wrappers): nil target")
	// ErrNilType is the panic value for a nil reflect.Type handed to Wrap.
	ErrNilType = errors.New("rwrap(wrappers): nil type")
)

// MemberError describes a failed operation on a member. errors.Is matches
// both Kind and Err.
type MemberError struct {
	// Op is the operation: "invoke", "read", "write", "apply".
	Op string
	// Member is the descriptor that failed, as printed by its String method.
	Member string
	// Kind is one of the package sentinels.
	Kind error
	// Err is the underlying cause, if any.
	Err error
}

func (e *MemberError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Member, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Member, e.Kind, e.Err)
}

func (e *MemberError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(op string, member fmt.Stringer, kind, err error) error {
	return &MemberError{Op: op, Member: member.String(), Kind: kind, Err: err}
}
