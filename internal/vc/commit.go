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

// AddCommit records a new commit as a child of its parent, on its
// declared branch, advancing that branch's head. Rules, checked in
// order:
//  1. commit.Hash must not already exist.
//  2. commit.Parent must be present (only the root commit may omit it).
//  3. commit.Parent must be a node in the version tree.
//  4. commit.Branch must already exist.
//  5. commit.Parent must equal the current head of commit.Branch
//     (linear history per branch; merges are not modelled).
func (d *Dataset) AddCommit(commit model.Commit) (*Dataset, error) {
	if _, exists := d.Commits[commit.Hash]; exists {
		return nil, newError(CommitHashAlreadyExists)
	}
	if commit.Parent == "" {
		return nil, newError(CommitIncomplete)
	}
	parentNode, exists := d.VersionTree.Tree[commit.Parent]
	if !exists {
		return nil, newError(ParentCommitNotFound)
	}
	branch, exists := d.Branches[commit.Branch]
	if !exists {
		return nil, newError(BranchNotFound)
	}
	if branch.Head != commit.Parent {
		return nil, newError(ParentCommitIsNotBranchHead)
	}

	next := d.Clone()

	nextParentNode := *parentNode
	nextParentNode.Children = append(append([]string(nil), parentNode.Children...), commit.Hash)
	next.VersionTree.Tree[commit.Parent] = &nextParentNode

	next.VersionTree.Tree[commit.Hash] = &model.VersionTreeNode{
		Name:     "",
		Branch:   commit.Branch,
		Children: []string{},
		Parent:   commit.Parent,
	}

	branch.Head = commit.Hash
	next.Branches[commit.Branch] = branch

	next.Commits[commit.Hash] = commit

	return next, nil
}
