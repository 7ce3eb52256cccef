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
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/iterum-io/iterum-daemon/internal/apierr"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/storage"
)

// Pipeline executions, lineage and results operate directly against
// the backend; the in-memory Dataset is never touched by any handler
// in this file.

func (s *Server) handleListDatasetPipelines(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	hashes, err := backend.GetPipelineExecutions(r.Context(), name)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, hashes)
}

func (s *Server) handleGetDatasetPipelineExecution(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	backend, err := s.backendFor(vars["d"])
	if err != nil {
		return err
	}
	execution, err := backend.GetPipelineExecution(r.Context(), vars["d"], vars["ph"])
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, execution)
}

func (s *Server) handlePostPipelineExecution(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["d"]
	var execution model.PipelineExecution
	if err := json.NewDecoder(r.Body).Decode(&execution); err != nil {
		return &apierr.ParseError{Op: "decode PipelineExecution", Cause: err}
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	if err := backend.StorePipelineExecution(r.Context(), name, execution); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, execution)
}

func (s *Server) handlePostFragmentLineage(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	var lineage model.FragmentLineage
	if err := json.NewDecoder(r.Body).Decode(&lineage); err != nil {
		return &apierr.ParseError{Op: "decode FragmentLineage", Cause: err}
	}
	backend, err := s.backendFor(vars["d"])
	if err != nil {
		return err
	}
	if err := backend.StorePipelineFragmentLineage(r.Context(), vars["d"], vars["ph"], lineage); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, lineage)
}

func (s *Server) handleGetFragmentLineages(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	backend, err := s.backendFor(vars["d"])
	if err != nil {
		return err
	}
	ids, err := backend.GetPipelineFragmentLineages(r.Context(), vars["d"], vars["ph"])
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ids)
}

// handlePostPipelineResult is POST /{d}/pipeline_result/{ph}:
// multipart, every part a result file named by its destination
// filename.
func (s *Server) handlePostPipelineResult(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	name, pipelineHash := vars["d"], vars["ph"]

	reader, err := r.MultipartReader()
	if err != nil {
		return &apierr.ParseError{Op: "open multipart reader", Cause: err}
	}
	stageDir, err := s.staging.Begin()
	if err != nil {
		return err
	}
	defer stageDir.Close()

	var staged []storage.StagedFile
	for {
		part, partErr := reader.NextPart()
		if partErr == io.EOF {
			break
		}
		if partErr != nil {
			return &apierr.ParseError{Op: "read multipart part", Cause: partErr}
		}
		filename := part.FileName()
		if filename == "" {
			part.Close()
			continue
		}
		dst := stageDir.FilePath(filename)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			part.Close()
			return &apierr.ParseError{Op: "create staging directory", Cause: err}
		}
		f, err := os.Create(dst)
		if err != nil {
			part.Close()
			return &apierr.ParseError{Op: "create staged result file", Cause: err}
		}
		_, copyErr := io.Copy(f, part)
		closeErr := f.Close()
		part.Close()
		if copyErr != nil {
			return &apierr.ParseError{Op: "write staged result file", Cause: copyErr}
		}
		if closeErr != nil {
			return &apierr.ParseError{Op: "close staged result file", Cause: closeErr}
		}
		staged = append(staged, storage.StagedFile{Filename: filename, StagingPath: dst})
	}

	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	if err := backend.StorePipelineResultFiles(r.Context(), name, staged, pipelineHash); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, struct{}{})
}

// datasetNames lists every registered dataset, used by the
// dataset-agnostic /pipelines/... routes to search for a pipeline
// hash across datasets.
func (s *Server) datasetNames() ([]string, error) {
	configs, err := s.store.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	return names, nil
}

func (s *Server) handleListAllPipelines(w http.ResponseWriter, r *http.Request) error {
	names, err := s.datasetNames()
	if err != nil {
		return err
	}
	ctx := r.Context()
	seen := make(map[string]bool)
	var all []string
	for _, name := range names {
		backend, err := s.backendFor(name)
		if err != nil {
			return err
		}
		hashes, err := backend.GetPipelineExecutions(ctx, name)
		if err != nil {
			return err
		}
		for _, h := range hashes {
			if !seen[h] {
				seen[h] = true
				all = append(all, h)
			}
		}
	}
	return writeJSON(w, http.StatusOK, all)
}

// findPipelineOwner returns the first registered dataset whose
// backend has pipelineHash registered.
func (s *Server) findPipelineOwner(ctx context.Context, pipelineHash string) (string, error) {
	names, err := s.datasetNames()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		backend, err := s.backendFor(name)
		if err != nil {
			return "", err
		}
		hashes, err := backend.GetPipelineExecutions(ctx, name)
		if err != nil {
			return "", err
		}
		for _, h := range hashes {
			if h == pipelineHash {
				return name, nil
			}
		}
	}
	return "", &storage.NotFoundError{Resource: "pipeline " + pipelineHash}
}

func (s *Server) handleGetAnyPipelineExecution(w http.ResponseWriter, r *http.Request) error {
	ph := mux.Vars(r)["ph"]
	name, err := s.findPipelineOwner(r.Context(), ph)
	if err != nil {
		return err
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	execution, err := backend.GetPipelineExecution(r.Context(), name, ph)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, execution)
}

func (s *Server) handleDeleteAnyPipelineExecution(w http.ResponseWriter, r *http.Request) error {
	ph := mux.Vars(r)["ph"]
	name, err := s.findPipelineOwner(r.Context(), ph)
	if err != nil {
		return err
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	if err := backend.RemovePipelineExecution(r.Context(), name, ph); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetAnyFragmentLineage(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	ph, fid := vars["ph"], vars["fid"]
	name, err := s.findPipelineOwner(r.Context(), ph)
	if err != nil {
		return err
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	lineage, err := backend.GetPipelineFragmentLineage(r.Context(), name, ph, fid)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, lineage)
}

func (s *Server) handleGetAnyPipelineResults(w http.ResponseWriter, r *http.Request) error {
	ph := mux.Vars(r)["ph"]
	name, err := s.findPipelineOwner(r.Context(), ph)
	if err != nil {
		return err
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	names, err := backend.GetPipelineResults(r.Context(), name, ph)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetAnyPipelineResult(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	ph, fn := vars["ph"], vars["fn"]
	name, err := s.findPipelineOwner(r.Context(), ph)
	if err != nil {
		return err
	}
	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	data, err := backend.GetPipelineResult(r.Context(), name, ph, fn)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, werr := w.Write(data)
	return werr
}
