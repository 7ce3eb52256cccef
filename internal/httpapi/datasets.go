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
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iterum-io/iterum-daemon/internal/apierr"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/storage"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// handleCreateDataset is POST /. The storage backend is constructed
// (and credential-validated) before anything is persisted, so a
// malformed S3/GCS credential set fails the request instead of
// silently registering a dead dataset.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) error {
	var cfg model.DatasetConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		return &apierr.ParseError{Op: "decode DatasetConfig", Cause: err}
	}

	backend, err := storage.New(cfg)
	if err != nil {
		return err
	}
	if err := s.store.Put(cfg); err != nil {
		return err
	}

	dataset := vc.New()
	ctx := r.Context()
	if err := backend.SaveDataset(ctx, cfg.Name, dataset); err != nil {
		return err
	}
	s.cache.Install(cfg.Name, dataset)

	return writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) error {
	configs, err := s.store.List()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	return writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	cfg, err := s.datasetConfig(name)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	if err := backend.RemoveDataset(r.Context(), name); err != nil {
		return err
	}
	if err := s.store.Remove(name); err != nil {
		return err
	}
	s.cache.Remove(name)
	s.forgetBackend(name)
	return writeJSON(w, http.StatusOK, struct{}{})
}

// handleResetState is POST /reset_state: every registered dataset is
// removed, in no particular order. A failure partway through leaves
// whatever remains registered — the same partial-failure semantics as
// removing datasets one at a time.
func (s *Server) handleResetState(w http.ResponseWriter, r *http.Request) error {
	configs, err := s.store.List()
	if err != nil {
		return err
	}
	ctx := r.Context()
	for _, cfg := range configs {
		if err := s.removeOne(ctx, cfg.Name); err != nil {
			return err
		}
	}
	return writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) removeOne(ctx context.Context, name string) error {
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	if err := backend.RemoveDataset(ctx, name); err != nil {
		return err
	}
	if err := s.store.Remove(name); err != nil {
		return err
	}
	s.cache.Remove(name)
	s.forgetBackend(name)
	return nil
}
