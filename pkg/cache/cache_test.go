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
package cache

import (
	"sync"
	"testing"

	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/internal/assert"
	"github.com/openvaf/vacore/pkg/itemtree"
)

func TestItemTreeCachesByFile(t *testing.T) {
	var c FileCache
	syntax := ast.SyntaxTree{Root: []ast.RawNode{{Kind: ast.NodeModule, Name: "m"}}}

	first := c.ItemTree(1, syntax)
	second := c.ItemTree(1, syntax)
	assert.True(t, first == second, "expected the same *ItemTree pointer on a cache hit")

	other := c.ItemTree(2, syntax)
	assert.True(t, first != other, "expected a distinct tree for a distinct file id")
}

func TestInvalidateForcesRebuild(t *testing.T) {
	var c FileCache
	syntax := ast.SyntaxTree{Root: []ast.RawNode{{Kind: ast.NodeModule, Name: "m"}}}

	first := c.ItemTree(1, syntax)
	c.Invalidate(1)
	second := c.ItemTree(1, syntax)

	assert.True(t, first != second, "expected invalidation to force a fresh build")
}

func TestConcurrentBuildsConverge(t *testing.T) {
	var c FileCache
	syntax := ast.SyntaxTree{Root: []ast.RawNode{{Kind: ast.NodeModule, Name: "m"}}}

	const n = 16
	results := make([]*itemtree.ItemTree, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = c.ItemTree(1, syntax)
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.True(t, results[0] == results[i], "expected every concurrent build to converge on one winning tree")
	}
}
