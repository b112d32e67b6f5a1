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
package debugprint

import (
	"fmt"
	"strings"

	"github.com/openvaf/vacore/pkg/jacobian"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
)

// PrintResistiveStamps renders every resistive entry as "(row, col) = expr",
// one per line, in insertion order.
func PrintResistiveStamps(m *jacobian.Matrix, nodes resolver.NodeResolver, mirM *mir.Mir) string {
	return printStamps(m.Resistive(), nodes, mirM)
}

// PrintReactiveStamps renders every reactive entry the same way.
func PrintReactiveStamps(m *jacobian.Matrix, nodes resolver.NodeResolver, mirM *mir.Mir) string {
	return printStamps(m.Reactive(), nodes, mirM)
}

func printStamps(entries []jacobian.Entry, nodes resolver.NodeResolver, mirM *mir.Mir) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "(%s, %s) = %s\n",
			nodes.Node(e.Key.Row).Name,
			nodes.Node(e.Key.Col).Name,
			RealExpr(mirM, e.Value),
		)
	}
	return b.String()
}

// PrintMatrix renders both maps, resistive first, under labeled headers.
func PrintMatrix(m *jacobian.Matrix, nodes resolver.NodeResolver, mirM *mir.Mir) string {
	var b strings.Builder
	b.WriteString("resistive:\n")
	b.WriteString(PrintResistiveStamps(m, nodes, mirM))
	b.WriteString("reactive:\n")
	b.WriteString(PrintReactiveStamps(m, nodes, mirM))
	return b.String()
}
