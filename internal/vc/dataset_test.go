// Copyright 2026 Iterum, Inc.
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

package vc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootAndMaster(t *testing.T, d *Dataset) (rootHash, masterHash string) {
	t.Helper()
	require.Len(t, d.Commits, 1)
	require.Len(t, d.Branches, 1)
	for h := range d.Commits {
		rootHash = h
	}
	for h := range d.Branches {
		masterHash = h
	}
	return rootHash, masterHash
}

func TestNewProducesConsistentInitialState(t *testing.T) {
	d := New()

	rootHash, masterHash := rootAndMaster(t, d)

	root := d.Commits[rootHash]
	assert.Empty(t, root.Parent)
	assert.Equal(t, masterHash, root.Branch)
	assert.Empty(t, root.Files)
	assert.False(t, root.Deprecated.Value)

	master := d.Branches[masterHash]
	assert.Equal(t, "master", master.Name)
	assert.Equal(t, rootHash, master.Head)

	node, ok := d.VersionTree.Tree[rootHash]
	require.True(t, ok)
	assert.Empty(t, node.Children)
	assert.Empty(t, node.Parent)

	assert.Equal(t, "master", d.VersionTree.Branches[masterHash])

	// P1/P2: key sets agree between the maps and the version tree.
	assert.Len(t, d.VersionTree.Tree, len(d.Commits))
	assert.Len(t, d.VersionTree.Branches, len(d.Branches))
}

func TestCloneIsIndependent(t *testing.T) {
	d := New()
	clone := d.Clone()

	rootHash, _ := rootAndMaster(t, d)
	node := clone.VersionTree.Tree[rootHash]
	node.Children = append(node.Children, "intruder")

	assert.Empty(t, d.VersionTree.Tree[rootHash].Children, "mutating a clone must not affect the original")
}
