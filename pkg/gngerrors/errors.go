// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gngerrors

import "fmt"

// Kind classifies an Error into the closed set from spec §7.
type Kind string

const (
	// Config covers malformed recipes, invalid identifiers, invalid URLs, bad SPDX expressions.
	Config Kind = "CONFIG"
	// Io covers filesystem or process I/O failures.
	Io Kind = "IO"
	// Container covers a missing launcher, invalid bindings, or unavailable privilege escalation.
	Container Kind = "CONTAINER"
	// AgentFailed covers a nonzero agent exit code.
	AgentFailed Kind = "AGENT_FAILED"
	// AgentKilled covers an agent killed by signal.
	AgentKilled Kind = "AGENT_KILLED"
	// Protocol covers malformed framed messages or message-stream invariant violations.
	Protocol Kind = "PROTOCOL"
	// Packaging covers packager routing and archive-policy violations.
	Packaging Kind = "PACKAGING"
	// Repository covers repository-graph validation failures.
	Repository Kind = "REPOSITORY"
	// Archive covers tar/zstd decode failures and malformed packet metadata.
	Archive Kind = "ARCHIVE"
	// ScriptLimit covers a recipe script exceeding its instruction or memory budget.
	ScriptLimit Kind = "SCRIPT_LIMIT"
)

// Error is the structured error type returned across every package boundary
// in this module. It implements error and supports errors.Is/errors.As
// through Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithContext attaches debugging context to an error and returns it.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, gngerrors.New(gngerrors.Protocol, "")) style sentinel
// comparisons work on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}
