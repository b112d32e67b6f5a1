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

// Package cache implements the per-file incremental query cache: item tree
// construction is a pure function of (file, syntax), so distinct files
// may build concurrently while each file's own result is computed once.
package cache

import (
	"sync"

	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/itemtree"
	log "github.com/sirupsen/logrus"
)

// FileCache memoizes *itemtree.ItemTree by ast.FileID. The zero value is
// ready to use.
type FileCache struct {
	entries sync.Map // ast.FileID -> *itemtree.ItemTree
}

// ItemTree returns the cached tree for file, building and storing it via
// itemtree.Build(file, syntax) on a miss. Concurrent calls for distinct
// files proceed independently; concurrent calls for the same file may both
// build once, the loser's result being discarded in favor of whichever
// store won the race, so a build should stay pure and cheap enough that the
// occasional duplicate is not worth serializing behind a mutex.
func (c *FileCache) ItemTree(file ast.FileID, syntax ast.SyntaxTree) *itemtree.ItemTree {
	if v, ok := c.entries.Load(file); ok {
		log.WithField("file", file).Trace("item tree cache: hit")
		return v.(*itemtree.ItemTree)
	}

	tree := itemtree.Build(file, syntax)
	actual, loaded := c.entries.LoadOrStore(file, tree)
	if loaded {
		log.WithField("file", file).Trace("item tree cache: hit (lost build race)")
		return actual.(*itemtree.ItemTree)
	}

	log.WithField("file", file).Trace("item tree cache: miss")
	return tree
}

// Invalidate drops the cached entry for file, if any, so the next ItemTree
// call rebuilds it.
func (c *FileCache) Invalidate(file ast.FileID) {
	c.entries.Delete(file)
}
