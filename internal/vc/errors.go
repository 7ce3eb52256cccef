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

// ErrorKind enumerates the rejection reasons a version-control
// transition can report. Every one of these maps to HTTP 409 in the
// request surface (internal/apierr).
type ErrorKind int

const (
	CommitIncomplete ErrorKind = iota
	ParentCommitNotFound
	BranchNotFound
	CommitNotFound
	CommitHashAlreadyExists
	BranchHashAlreadyExists
	BranchHeadDoesNotExist
	ParentCommitIsNotBranchHead
	PipelineHashAlreadyExists
)

var errorKindMessages = map[ErrorKind]string{
	CommitIncomplete:            "commit is incomplete: missing parent",
	ParentCommitNotFound:        "parent of commit is not present in the version tree",
	BranchNotFound:              "branch not present in version tree",
	CommitNotFound:              "commit not present in version tree",
	CommitHashAlreadyExists:     "Commit hash already exists in the version tree",
	BranchHashAlreadyExists:     "branch hash already exists in the version tree",
	BranchHeadDoesNotExist:      "branch head does not exist in the version tree",
	ParentCommitIsNotBranchHead: "parent commit hash is not the head of the branch",
	PipelineHashAlreadyExists:   "pipeline hash already exists",
}

// Error is the typed error every version-control transition returns
// on rejection. It wraps no underlying cause: every case is a pure
// validation failure over in-memory state.
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string {
	msg, ok := errorKindMessages[e.Kind]
	if !ok {
		return "version control error"
	}
	return msg
}

func newError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// KindOf extracts the ErrorKind from err if it is a *vc.Error, and
// reports whether the assertion succeeded.
func KindOf(err error) (ErrorKind, bool) {
	vcErr, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return vcErr.Kind, true
}
