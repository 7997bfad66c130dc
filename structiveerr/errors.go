// Copyright 2025 The Rivaas Authors
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

// Package structiveerr defines the structured error taxonomy the engine
// raises instead of ad hoc errors.New calls, so every failure carries a
// stable code, human message, structured context, and a docs link.
package structiveerr

import "fmt"

// Severity classifies how serious a raised error is to the host
// application; it does not change control flow inside the engine.
type Severity string

const (
	SeverityFatal Severity = "fatal" // aborts construction/activation of a component
	SeverityError Severity = "error" // recovered at the render-loop boundary
	SeverityWarn  Severity = "warn"
)

// Error is the structured payload every engine failure carries.
type Error struct {
	Code     string
	Message  string
	Context  map[string]any
	DocsURL  string
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Code, so that
// errors.Is(err, structiveerr.ErrSTC001) matches even after WithContext
// produced a copy.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

const docsBase = "https://docs.structive.dev/errors/"

// New builds an Error for code with message, defaulting Severity to
// SeverityError and DocsURL to the conventional per-code documentation
// page.
func New(code, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		DocsURL:  docsBase + code,
		Severity: SeverityError,
	}
}

// WithContext returns a copy of e with ctx merged into Context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	cp := *e
	merged := make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	cp.Context = merged
	return &cp
}

// WithCause returns a copy of e with Cause set.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithSeverity returns a copy of e with Severity overridden.
func (e *Error) WithSeverity(s Severity) *Error {
	cp := *e
	cp.Severity = s
	return &cp
}

// Raise is the engine-wide entry point for constructing and immediately
// returning a structured error; callers pass a sentinel defined in codes.go
// plus call-site context.
func Raise(sentinel *Error, ctx map[string]any) *Error {
	if len(ctx) == 0 {
		return sentinel
	}
	return sentinel.WithContext(ctx)
}
