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

	"github.com/iterum-io/iterum-daemon/internal/model"
)

// TestAddBranch is scenario S5.
func TestAddBranch(t *testing.T) {
	d := New()
	rootHash, _ := rootAndMaster(t, d)

	next, err := d.AddBranch(model.Branch{Hash: "b2", Name: "dev", Head: rootHash})
	require.NoError(t, err)
	assert.Equal(t, "dev", next.VersionTree.Branches["b2"])
	assert.Equal(t, rootHash, next.Branches["b2"].Head)

	_, err = next.AddBranch(model.Branch{Hash: "b2", Name: "dev", Head: rootHash})
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, BranchHashAlreadyExists, kind)

	_, err = next.AddBranch(model.Branch{Hash: "b3", Name: "x", Head: "zzz"})
	require.Error(t, err)
	kind, _ = KindOf(err)
	assert.Equal(t, BranchHeadDoesNotExist, kind)
}
