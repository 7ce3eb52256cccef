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
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iterum-io/iterum-daemon/internal/apierr"
	"github.com/iterum-io/iterum-daemon/internal/cache"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/storage"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// requireDataset reads the cache snapshot a handler will build its
// transition against. A missing dataset is a 404, not an internal
// error.
func (s *Server) requireDataset(name string) (*vc.Dataset, error) {
	d, ok := s.cache.Get(name)
	if !ok {
		return nil, &storage.NotFoundError{Resource: "dataset " + name}
	}
	return d, nil
}

func (s *Server) handleGetVersionTree(w http.ResponseWriter, r *http.Request) error {
	d, err := s.requireDataset(mux.Vars(r)["d"])
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d.VersionTree)
}

func (s *Server) handleGetBranch(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	d, err := s.requireDataset(vars["d"])
	if err != nil {
		return err
	}
	branch, ok := d.Branches[vars["bh"]]
	if !ok {
		return &storage.NotFoundError{Resource: "branch " + vars["bh"]}
	}
	return writeJSON(w, http.StatusOK, branch)
}

// handlePostBranch is POST /{d}/branch. The transition, the backend
// persist, and the cache install all happen inside one cache.Update
// call so a concurrent write to the same dataset can't branch from a
// stale snapshot and clobber this one on install.
func (s *Server) handlePostBranch(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	if _, err := s.requireDataset(name); err != nil {
		return err
	}

	var branch model.Branch
	if err := json.NewDecoder(r.Body).Decode(&branch); err != nil {
		return &apierr.ParseError{Op: "decode Branch", Cause: err}
	}

	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}

	_, err = s.cache.Update(name, func(cur *vc.Dataset) (*vc.Dataset, error) {
		next, err := cur.AddBranch(branch)
		if err != nil {
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

	return writeJSON(w, http.StatusOK, branch)
}
