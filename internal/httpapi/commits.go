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

package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/iterum-io/iterum-daemon/internal/apierr"
	"github.com/iterum-io/iterum-daemon/internal/cache"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/staging"
	"github.com/iterum-io/iterum-daemon/internal/storage"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

func (s *Server) handleGetCommit(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	d, err := s.requireDataset(vars["d"])
	if err != nil {
		return err
	}
	commit, ok := d.Commits[vars["ch"]]
	if !ok {
		return &storage.NotFoundError{Resource: "commit " + vars["ch"]}
	}
	return writeJSON(w, http.StatusOK, commit)
}

// stagedCommitUpload is the parsed-but-not-yet-applied result of
// reading a commit multipart body.
type stagedCommitUpload struct {
	commit model.Commit
	branch *model.Branch
	files  []string
}

// stageCommitParts reads every part of a commit multipart body,
// writing content parts straight into dir.FilePath(relativePath)
// without ever buffering a whole part in memory — the one suspension
// point the concurrency model calls out as dominant-cost.
func stageCommitParts(reader *multipart.Reader, dir *staging.Dir) (stagedCommitUpload, error) {
	var upload stagedCommitUpload
	var haveCommit bool

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stagedCommitUpload{}, &apierr.ParseError{Op: "read multipart part", Cause: err}
		}

		name := part.FileName()
		switch name {
		case "commit":
			if err := json.NewDecoder(part).Decode(&upload.commit); err != nil {
				part.Close()
				return stagedCommitUpload{}, &apierr.ParseError{Op: "decode commit part", Cause: err}
			}
			haveCommit = true
		case "branch.json":
			var branch model.Branch
			if err := json.NewDecoder(part).Decode(&branch); err != nil {
				part.Close()
				return stagedCommitUpload{}, &apierr.ParseError{Op: "decode branch.json part", Cause: err}
			}
			upload.branch = &branch
		default:
			if name == "" {
				part.Close()
				continue
			}
			if !filepath.IsLocal(name) {
				part.Close()
				return stagedCommitUpload{}, &apierr.ParseError{Op: "stage content part", Cause: fmt.Errorf("filename %q is not a relative path", name)}
			}
			dst := dir.FilePath(name)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				part.Close()
				return stagedCommitUpload{}, &apierr.ParseError{Op: "create staging directory", Cause: err}
			}
			f, err := os.Create(dst)
			if err != nil {
				part.Close()
				return stagedCommitUpload{}, &apierr.ParseError{Op: "create staged file", Cause: err}
			}
			_, copyErr := io.Copy(f, part)
			closeErr := f.Close()
			part.Close()
			if copyErr != nil {
				return stagedCommitUpload{}, &apierr.ParseError{Op: "write staged file", Cause: copyErr}
			}
			if closeErr != nil {
				return stagedCommitUpload{}, &apierr.ParseError{Op: "close staged file", Cause: closeErr}
			}
			upload.files = append(upload.files, name)
		}
		part.Close()
	}

	if !haveCommit {
		return stagedCommitUpload{}, &apierr.ParseError{Op: "read multipart body", Cause: errMissingCommitPart}
	}
	return upload, nil
}

var errMissingCommitPart = &missingPartError{"commit"}

type missingPartError struct{ part string }

func (e *missingPartError) Error() string { return "missing required multipart part " + e.part }

// handlePostCommit is POST /{d}/commit. A branch.json part, when
// present, is applied via the same AddBranch path the standalone
// POST /{d}/branch endpoint uses, before the commit itself is added.
// The version-control transition, the backend persist, and the cache
// install all happen inside one cache.Update call so a concurrent
// commit against the same dataset can never branch from a stale
// snapshot and silently clobber this one on install.
func (s *Server) handlePostCommit(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	if _, err := s.requireDataset(name); err != nil {
		return err
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return &apierr.ParseError{Op: "open multipart reader", Cause: err}
	}

	stageDir, err := s.staging.Begin()
	if err != nil {
		return err
	}
	defer stageDir.Close()

	upload, err := stageCommitParts(reader, stageDir)
	if err != nil {
		return err
	}

	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}

	_, err = s.cache.Update(name, func(cur *vc.Dataset) (*vc.Dataset, error) {
		next := cur
		var err error
		if upload.branch != nil {
			next, err = next.AddBranch(*upload.branch)
			if err != nil {
				return nil, err
			}
		}
		next, err = next.AddCommit(upload.commit)
		if err != nil {
			return nil, err
		}
		if err := backend.StoreCommittedFiles(r.Context(), name, upload.commit, stageDir.Path); err != nil {
			return nil, err
		}
		if err := backend.SaveDataset(r.Context(), name, next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		if err == cache.ErrNotFound {
			return &storage.NotFoundError{Resource: "dataset " + name}
		}
		return err
	}

	return writeJSON(w, http.StatusOK, upload.commit)
}
