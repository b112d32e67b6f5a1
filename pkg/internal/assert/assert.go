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

// Package assert provides small test-only equality helpers used across this
// module's package tests, in place of reflect.DeepEqual failure messages
// that are hard to read for handle-heavy IR structures. This package sits
// below every arena/IR package in the import graph (pkg/handle, pkg/mir and
// the rest all have internal _test.go files that import it), so it cannot
// import any of them back without a cycle; handle-awareness here is
// necessarily structural (duck-typed against the method every
// handle.Handle[T] exposes) rather than a direct type import.
package assert

import (
	"math"
	"reflect"
	"testing"
)

// indexed is satisfied by every handle.Handle[T] in this module's arenas: a
// dense arena index exposed via Index() uint32. Equal special-cases it so a
// failing comparison reports the handle's own "#N" rendering (handle.Handle
// has a String method) instead of reflect.DeepEqual's dump of the
// unexported backing field, and so two handles into different arenas that
// happen to share a raw index don't silently compare equal by field shape.
type indexed interface {
	Index() uint32
}

// Equal errors if actual is not equal to expected. Arena handles compare by
// Index() and print via their own String method; everything else falls
// back to reflect.DeepEqual, with an int/uint-width escape hatch since
// arena code constantly compares a uint32 Len()/Index() result against an
// untyped int literal.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()

	if eq, handled := handleEqual(expected, actual); handled {
		if !eq {
			fail(t, expected, actual, msg)
		}
		return
	}

	if reflect.DeepEqual(expected, actual) || intEqual(expected, actual) {
		return
	}

	fail(t, expected, actual, msg)
}

// handleEqual compares two arena handles by Index() when both expected and
// actual implement indexed and share the same concrete (phantom) type;
// handled is false when either side isn't a handle at all, signalling the
// caller to fall through to the generic comparison. Requiring the same
// concrete type (rather than just both satisfying indexed) keeps a
// RealExpr handle and an IntExpr handle that happen to share a raw index
// from comparing equal.
func handleEqual(expected, actual any) (eq bool, handled bool) {
	a, aOk := expected.(indexed)
	b, bOk := actual.(indexed)
	if !aOk || !bOk {
		return false, false
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(actual) {
		return false, true
	}
	return a.Index() == b.Index(), true
}

func fail(t *testing.T, expected, actual any, msg []any) {
	t.Helper()

	t.Errorf("expected: %v, actual: %v", expected, actual)

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

// intEqual returns whether expected and actual are both integers and whether they are equal
// if that is the case.
func intEqual(expected, actual any) bool {
	a, aInt64 := asInt64(expected)
	b, bInt64 := asInt64(actual)

	if aInt64 != bInt64 {
		return false
	}

	if aInt64 {
		return a == b
	}

	x, aUint64 := expected.(uint64)
	y, bUint64 := actual.(uint64)

	if !aUint64 || !bUint64 {
		return false
	}

	return x == y
}

// asInt64 tries to convert x to an int64 and specifies if the conversion was successful or
// if x only can be expressed as a uint64
func asInt64(x any) (int64, bool) {
	if y, ok := x.(uint64); ok && y > math.MaxInt64 {
		return 0, false
	}

	switch x := x.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}

	return 0, false
}

// True errors if condition is false.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()

	if condition {
		return
	}

	t.Errorf("condition is false")

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

// False errors if condition is true.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()

	if !condition {
		return
	}

	t.Errorf("condition is true")

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

// ApproxEqual errors unless a and b are within a small relative/absolute
// margin of each other. Used by constant-folder tests exercising the same
// ULP-ish tolerance the real-equality fold rule applies (see
// pkg/constfold's Folder.approxEq).
func ApproxEqual(t *testing.T, expected, actual float64, msg ...any) {
	t.Helper()

	const epsilon = 1e-9

	diff := math.Abs(expected - actual)
	if diff <= epsilon || diff <= epsilon*math.Max(math.Abs(expected), math.Abs(actual)) {
		return
	}

	fail(t, expected, actual, msg)
}
