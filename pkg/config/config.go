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

// Package config carries the pass-level toggles the CLI exposes over the
// core: whether to run the strip/dead-code pass, the default-AD
// derivative-expansion heuristic's multiplier, and the real-equality
// tolerance the constant folder uses in place of exact bit-compare.
// None of these change a pass's contract, only whether/how aggressively it
// runs. The debug command in pkg/cmd sets the strip, fold-mutation and
// real-equality options from cobra flags; no flag sets the multiplier, so
// it keeps Default's value there.
package config

// Pipeline holds every pass-level knob the driver threads through one
// compilation: Populate with Default and override fields from CLI flags via
// pkg/cmd, not by constructing this struct's zero value directly.
type Pipeline struct {
	// MutateOnFold selects whether the constant folder rewrites foldable
	// IR in place (true) or only computes values without touching the IR
	// (false), i.e. constfold.Folder.Mutate.
	MutateOnFold bool

	// RealEqEpsilon is the relative/absolute tolerance real `==`/`!=`
	// folding uses instead of an exact bit-compare.
	RealEqEpsilon float64

	// StripDeadCode selects whether the retain-set strip pass runs after AD
	// and Jacobian assembly, compacting the CFG before handoff to the
	// backend.
	StripDeadCode bool

	// DerivativeExpansionMultiplier is the "2*" coefficient of autodiff's
	// default capacity heuristic (2*derivativeCount/variableCount + 1);
	// exposed so a caller profiling a model with an unusually high or low
	// derivative fan-out can retune it without recompiling.
	DerivativeExpansionMultiplier int
}

// Default returns the pipeline configuration used when no CLI flag
// overrides it: folding mutates the IR in place, the default real-equality
// margin matches constfold's own defaultEqMargin, dead-code stripping runs,
// and the derivative expansion multiplier is 2.
func Default() Pipeline {
	return Pipeline{
		MutateOnFold:                  true,
		RealEqEpsilon:                 1e-9,
		StripDeadCode:                 true,
		DerivativeExpansionMultiplier: 2,
	}
}
