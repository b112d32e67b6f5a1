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

// Package jacobian assembles the resistive/reactive Jacobian matrix: two
// insertion-ordered (row, col) -> value maps built from the derivatives
// pkg/autodiff registered against every interned Voltage unknown.
package jacobian

import (
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
)

// Value is the handle a matrix cell's contents live at: every stamped
// derivative is real-sorted, the circuit equations this engine assembles
// having no integer- or string-valued unknowns.
type Value = handle.Handle[mir.RealExpr]

// Key addresses one matrix entry by its row and column node.
type Key struct {
	Row resolver.NodeID
	Col resolver.NodeID
}

// Entry is one populated matrix cell, in the order it was first inserted.
type Entry struct {
	Key   Key
	Value Value
}

// orderedMap is an insertion-ordered (Key -> Value) map: each distinct key
// gets the next slice index in first-insertion order, and removeIf compacts
// the slice and renumbers the surviving entries.
type orderedMap struct {
	index   map[Key]int
	entries []Entry
}

func newOrderedMap() orderedMap {
	return orderedMap{index: make(map[Key]int)}
}

func (m *orderedMap) get(k Key) (Value, bool) {
	i, ok := m.index[k]
	if !ok {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

func (m *orderedMap) set(k Key, v Value) {
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// removeIf deletes every entry whose value satisfies drop, compacting the
// slice in place and leaving the relative order of survivors unchanged.
func (m *orderedMap) removeIf(drop func(Value) bool) {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if drop(e.Value) {
			delete(m.index, e.Key)
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	for i, e := range m.entries {
		m.index[e.Key] = i
	}
}

func (m *orderedMap) rewriteValues(f func(Value) Value) {
	for i := range m.entries {
		m.entries[i].Value = f(m.entries[i].Value)
	}
}

// Matrix holds the resistive and reactive Jacobian maps, each
// insertion-ordered and keyed by non-ground (row, col) node pairs.
type Matrix struct {
	resistive orderedMap
	reactive  orderedMap
}

// NewMatrix constructs an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{resistive: newOrderedMap(), reactive: newOrderedMap()}
}

// Resistive returns the resistive entries in insertion order. The returned
// slice is owned by the caller; mutating it does not affect the matrix.
func (m *Matrix) Resistive() []Entry {
	out := make([]Entry, len(m.resistive.entries))
	copy(out, m.resistive.entries)
	return out
}

// Reactive returns the reactive entries in insertion order.
func (m *Matrix) Reactive() []Entry {
	out := make([]Entry, len(m.reactive.entries))
	copy(out, m.reactive.entries)
	return out
}

func (m *Matrix) mapFor(reactive bool) *orderedMap {
	if reactive {
		return &m.reactive
	}
	return &m.resistive
}
