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

// Package vc is the version-control engine: pure, in-memory
// transitions over a Dataset value. No function in this package
// performs I/O; every transition either returns an updated Dataset or
// a *vc.Error, and never mutates the Dataset passed in — callers are
// free to keep using their original value after a rejected call.
package vc

import (
	"github.com/iterum-io/iterum-daemon/internal/idgen"
	"github.com/iterum-io/iterum-daemon/internal/model"
)

const masterBranchName = "master"

// Dataset is the versioned state of one dataset: its full commit and
// branch history plus the derived version tree. This is the VCDataset
// of the specification.
type Dataset struct {
	Commits         map[string]model.Commit          `json:"commits"`
	Branches        map[string]model.Branch          `json:"branches"`
	VersionTree     model.VersionTree                 `json:"version_tree"`
	PipelineResults map[string]model.PipelineResult   `json:"pipeline_results"`
}

// New constructs the initial Dataset for a freshly created dataset:
// one root commit with no parent and no files, on a freshly minted
// "master" branch.
func New() *Dataset {
	rootHash := idgen.NewHash()
	masterHash := idgen.NewHash()

	root := model.Commit{
		Hash:        rootHash,
		Parent:      "",
		Branch:      masterHash,
		Name:        "root",
		Description: "",
		Files:       []string{},
		Diff:        model.Diff{Added: []string{}, Updated: []string{}, Removed: []string{}},
		Deprecated:  model.Deprecated{Value: false, Reason: ""},
	}
	master := model.Branch{
		Hash: masterHash,
		Name: masterBranchName,
		Head: rootHash,
	}

	return &Dataset{
		Commits:  map[string]model.Commit{rootHash: root},
		Branches: map[string]model.Branch{masterHash: master},
		VersionTree: model.VersionTree{
			Tree: map[string]*model.VersionTreeNode{
				rootHash: {Name: "root", Branch: masterHash, Children: []string{}},
			},
			Branches: map[string]string{masterHash: masterBranchName},
		},
		PipelineResults: map[string]model.PipelineResult{},
	}
}

// Clone returns a deep copy of d, so that a transition can mutate the
// copy freely while leaving the caller's value untouched until the
// transition is known to succeed.
func (d *Dataset) Clone() *Dataset {
	clone := &Dataset{
		Commits:         make(map[string]model.Commit, len(d.Commits)),
		Branches:        make(map[string]model.Branch, len(d.Branches)),
		PipelineResults: make(map[string]model.PipelineResult, len(d.PipelineResults)),
		VersionTree: model.VersionTree{
			Tree:     make(map[string]*model.VersionTreeNode, len(d.VersionTree.Tree)),
			Branches: make(map[string]string, len(d.VersionTree.Branches)),
		},
	}
	for k, v := range d.Commits {
		clone.Commits[k] = v
	}
	for k, v := range d.Branches {
		clone.Branches[k] = v
	}
	for k, v := range d.PipelineResults {
		clone.PipelineResults[k] = v
	}
	for k, v := range d.VersionTree.Tree {
		node := *v
		node.Children = append([]string(nil), v.Children...)
		clone.VersionTree.Tree[k] = &node
	}
	for k, v := range d.VersionTree.Branches {
		clone.VersionTree.Branches[k] = v
	}
	return clone
}
