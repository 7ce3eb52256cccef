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

import "github.com/iterum-io/iterum-daemon/internal/model"

// AddBranch records a new branch pointing at an existing commit.
// Rules, checked in order:
//  1. branch.Hash must not already exist.
//  2. branch.Head must already be a node in the version tree.
func (d *Dataset) AddBranch(branch model.Branch) (*Dataset, error) {
	if _, exists := d.Branches[branch.Hash]; exists {
		return nil, newError(BranchHashAlreadyExists)
	}
	if _, exists := d.VersionTree.Tree[branch.Head]; !exists {
		return nil, newError(BranchHeadDoesNotExist)
	}

	next := d.Clone()
	next.Branches[branch.Hash] = branch
	next.VersionTree.Branches[branch.Hash] = branch.Name
	return next, nil
}
