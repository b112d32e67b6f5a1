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
package cmd

import (
	"fmt"

	"github.com/openvaf/vacore/pkg/config"
	"github.com/openvaf/vacore/pkg/debugprint"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Run the core pipeline over a synthetic fixture and print the IR.",
	Long: `debug runs item-tree construction, constant folding, automatic
differentiation and Jacobian assembly over an in-process "linear resistor"
fixture (there being no parser in this module to read a real .va file from)
and prints the resulting item tree and Jacobian matrix.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		cfg := config.Default()
		cfg.StripDeadCode = GetFlag(cmd, "strip")
		cfg.MutateOnFold = !GetFlag(cmd, "no-fold")
		cfg.RealEqEpsilon = GetFloat64(cmd, "real-eq-epsilon")

		fx := buildLinearResistorFixture(cfg)

		fmt.Println("item tree:")
		fmt.Print(debugprint.PrintItemTree(fx.Tree))

		fmt.Println()
		fmt.Println("jacobian:")
		fmt.Print(debugprint.PrintMatrix(fx.Matrix, fx.Nodes, fx.Mir))

		if fx.Diags.Len() > 0 {
			fmt.Println()
			fmt.Println("diagnostics:")
			for _, d := range fx.Diags.All() {
				fmt.Printf("  %s\n", d.Error())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().Bool("strip", true, "run the dead-code strip pass after Jacobian assembly")
	debugCmd.Flags().Bool("no-fold", false, "evaluate constants without rewriting the IR in place")
	debugCmd.Flags().Float64("real-eq-epsilon", 1e-9, "relative/absolute tolerance for folding real == and !=")
}
