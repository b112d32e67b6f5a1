// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package diag collects the non-fatal and fatal diagnostics produced while
// folding, differentiating and assembling a Jacobian. Passes append to a
// shared Diagnostics accumulator rather than returning a Go error for
// every recoverable condition, carrying a span alongside each message the
// way a SyntaxError does.
package diag

import (
	"fmt"

	"github.com/openvaf/vacore/pkg/ast"
)

// Severity classifies a Diagnostic. Only Error severity is fatal to
// downstream passes; Lint never is.
type Severity uint8

// Severities a Diagnostic may carry.
const (
	SeverityLint Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityLint:
		return "lint"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported condition, optionally anchored to a
// syntax node via Span. A nil Span means the diagnostic has no precise
// source location (e.g. a whole-module summary).
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     *ast.Span
}

// Error implements the error interface so a Diagnostic can be passed
// anywhere a plain error is expected (e.g. wrapped by a caller).
func (d Diagnostic) Error() string {
	if d.Span == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start, d.Span.End, d.Severity, d.Message)
}

// ConstantOverflow builds the lint raised when constant folding an integer
// division by zero or an integer power overflow: the folder leaves that
// expression unfolded (its value unknown), and the lint records why.
func ConstantOverflow(span ast.Span) Diagnostic {
	return Diagnostic{
		Severity: SeverityLint,
		Message:  "constant expression overflows or divides by zero",
		Span:     &span,
	}
}

// ADError builds the diagnostic raised when symbolic differentiation
// cannot produce a derivative for a statement. This is
// non-fatal per statement: the offending derivative is simply omitted and
// differentiation continues with the remaining demanded statements.
func ADError(span ast.Span, reason string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf("cannot differentiate: %s", reason),
		Span:     &span,
	}
}

// Diagnostics is an ordered, appendable collection of Diagnostic values.
// The zero value is ready to use.
type Diagnostics struct {
	entries []Diagnostic
}

// Push appends d to the collection.
func (ds *Diagnostics) Push(d Diagnostic) {
	ds.entries = append(ds.entries, d)
}

// Errorf appends an Error-severity diagnostic built from a format string.
func (ds *Diagnostics) Errorf(span *ast.Span, format string, args ...any) {
	ds.entries = append(ds.entries, Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Lintf appends a Lint-severity diagnostic built from a format string.
func (ds *Diagnostics) Lintf(span *ast.Span, format string, args ...any) {
	ds.entries = append(ds.entries, Diagnostic{
		Severity: SeverityLint,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// All returns every diagnostic accumulated so far, in report order.
func (ds *Diagnostics) All() []Diagnostic {
	return ds.entries
}

// Len returns the number of diagnostics accumulated so far.
func (ds *Diagnostics) Len() int {
	return len(ds.entries)
}

// HasFatal reports whether any accumulated diagnostic is Error severity.
// The driver uses this to decide whether to continue to the next pass.
func (ds *Diagnostics) HasFatal() bool {
	for _, d := range ds.entries {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
