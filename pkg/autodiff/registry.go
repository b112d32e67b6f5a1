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

package autodiff

import "github.com/openvaf/vacore/pkg/mir"

// regKey addresses one registered derivative: the differentiated
// variable's assignment Place crossed with the Unknown it was
// differentiated against.
type regKey struct {
	Place mir.Place
	U     Unknown
}

// Registry records, as a Run proceeds, the MIR value produced for every
// (place, unknown) pair it differentiated, and separately interns the
// distinct UnknownVoltage targets encountered in first-registration order
// — this is the interning map pkg/jacobian iterates over to enumerate
// matrix columns in a deterministic order.
type Registry struct {
	entries map[regKey]mir.Value

	voltageOrder []Unknown
	voltageSeen  map[Unknown]bool
}

// NewRegistry constructs an empty Registry ready to use.
func NewRegistry() *Registry {
	return &Registry{
		entries:     make(map[regKey]mir.Value),
		voltageSeen: make(map[Unknown]bool),
	}
}

// Register records that place's defining statement's derivative wrt u is
// value v.
func (r *Registry) Register(place mir.Place, u Unknown, v mir.Value) {
	r.entries[regKey{Place: place, U: u}] = v
	if u.Kind == UnknownVoltage && !r.voltageSeen[u] {
		r.voltageSeen[u] = true
		r.voltageOrder = append(r.voltageOrder, u)
	}
}

// Lookup returns the registered derivative of place wrt u, if any.
func (r *Registry) Lookup(place mir.Place, u Unknown) (mir.Value, bool) {
	v, ok := r.entries[regKey{Place: place, U: u}]
	return v, ok
}

// Voltages returns every distinct UnknownVoltage target registered so far,
// in first-registration order.
func (r *Registry) Voltages() []Unknown {
	out := make([]Unknown, len(r.voltageOrder))
	copy(out, r.voltageOrder)
	return out
}
