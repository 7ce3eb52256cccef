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

// Package httpapi is the daemon's HTTP surface: one gorilla/mux
// router wired to the version-control engine, the storage backends
// and the dataset config store. Every handler follows the same fixed
// order — read cache snapshot, parse/stage the request, run the VC
// transition, persist to the backend, install into the cache, clean
// up staging, reply — so a failure at any step leaves the cache in the
// state it was in before the request began. Backend writes that
// already landed before the failing step (such as a commit's files)
// are not rolled back.
package httpapi

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/iterum-io/iterum-daemon/internal/cache"
	"github.com/iterum-io/iterum-daemon/internal/configstore"
	"github.com/iterum-io/iterum-daemon/internal/metrics"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/staging"
	"github.com/iterum-io/iterum-daemon/internal/storage"
)

// Server holds every dependency a handler needs and builds the
// gorilla/mux router that dispatches to them.
type Server struct {
	cache    *cache.DatasetCache
	store    *configstore.Store
	staging  *staging.Area
	log      *zap.Logger
	metrics  *metrics.Registry

	backendsMu sync.Mutex
	backends   map[string]storage.Backend
}

// New constructs a Server. The returned Server does not itself warm
// the cache; call cmd/iterumd's startup sequence for that.
func New(c *cache.DatasetCache, store *configstore.Store, stagingArea *staging.Area, log *zap.Logger) *Server {
	return &Server{
		cache:    c,
		store:    store,
		staging:  stagingArea,
		log:      log,
		metrics:  metrics.NewRegistry(),
		backends: make(map[string]storage.Backend),
	}
}

// backendFor returns the storage backend for datasetName, building
// and caching it from the registered DatasetConfig on first use.
func (s *Server) backendFor(datasetName string) (storage.Backend, error) {
	s.backendsMu.Lock()
	defer s.backendsMu.Unlock()

	if b, ok := s.backends[datasetName]; ok {
		return b, nil
	}
	cfg, err := s.store.Get(datasetName)
	if err != nil {
		return nil, err
	}
	b, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("httpapi: build backend for %q: %w", datasetName, err)
	}
	cached, err := storage.NewCachingBackend(b, 256)
	if err != nil {
		return nil, err
	}
	s.backends[datasetName] = cached
	return cached, nil
}

func (s *Server) forgetBackend(datasetName string) {
	s.backendsMu.Lock()
	defer s.backendsMu.Unlock()
	delete(s.backends, datasetName)
}

// Router builds the full route table of the daemon's HTTP surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.wrap("POST /", s.handleCreateDataset)).Methods(http.MethodPost)
	r.HandleFunc("/", s.wrap("GET /", s.handleListDatasets)).Methods(http.MethodGet)
	r.HandleFunc("/reset_state", s.wrap("POST /reset_state", s.handleResetState)).Methods(http.MethodPost)

	r.HandleFunc("/pipelines", s.wrap("GET /pipelines", s.handleListAllPipelines)).Methods(http.MethodGet)
	r.HandleFunc("/pipelines/{ph}", s.wrap("GET /pipelines/{ph}", s.handleGetAnyPipelineExecution)).Methods(http.MethodGet)
	r.HandleFunc("/pipelines/{ph}", s.wrap("DELETE /pipelines/{ph}", s.handleDeleteAnyPipelineExecution)).Methods(http.MethodDelete)
	r.HandleFunc("/pipelines/{ph}/lineage/{fid}", s.wrap("GET /pipelines/{ph}/lineage/{fid}", s.handleGetAnyFragmentLineage)).Methods(http.MethodGet)
	r.HandleFunc("/pipelines/{ph}/results", s.wrap("GET /pipelines/{ph}/results", s.handleGetAnyPipelineResults)).Methods(http.MethodGet)
	r.HandleFunc("/pipelines/{ph}/results/{fn}", s.wrap("GET /pipelines/{ph}/results/{fn}", s.handleGetAnyPipelineResult)).Methods(http.MethodGet)

	r.HandleFunc("/{d}", s.wrap("GET /{d}", s.handleGetDataset)).Methods(http.MethodGet)
	r.HandleFunc("/{d}", s.wrap("DELETE /{d}", s.handleDeleteDataset)).Methods(http.MethodDelete)

	r.HandleFunc("/{d}/vtree", s.wrap("GET /{d}/vtree", s.handleGetVersionTree)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/branch/{bh}", s.wrap("GET /{d}/branch/{bh}", s.handleGetBranch)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/branch", s.wrap("POST /{d}/branch", s.handlePostBranch)).Methods(http.MethodPost)
	r.HandleFunc("/{d}/commit/{ch}", s.wrap("GET /{d}/commit/{ch}", s.handleGetCommit)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/commit", s.wrap("POST /{d}/commit", s.handlePostCommit)).Methods(http.MethodPost)

	r.HandleFunc("/{d}/file/{filename}/{ch}", s.wrap("GET /{d}/file/{filename}/{ch}", s.handleGetFile)).Methods(http.MethodGet)

	r.HandleFunc("/{d}/pipelines", s.wrap("GET /{d}/pipelines", s.handleListDatasetPipelines)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/pipelines/{ph}", s.wrap("GET /{d}/pipelines/{ph}", s.handleGetDatasetPipelineExecution)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/pipelines", s.wrap("POST /{d}/pipelines", s.handlePostPipelineExecution)).Methods(http.MethodPost)
	r.HandleFunc("/{d}/pipelines/{ph}/lineage", s.wrap("POST /{d}/pipelines/{ph}/lineage", s.handlePostFragmentLineage)).Methods(http.MethodPost)
	r.HandleFunc("/{d}/pipelines/{ph}/lineage", s.wrap("GET /{d}/pipelines/{ph}/lineage", s.handleGetFragmentLineages)).Methods(http.MethodGet)
	r.HandleFunc("/{d}/pipeline_result/{ph}", s.wrap("POST /{d}/pipeline_result/{ph}", s.handlePostPipelineResult)).Methods(http.MethodPost)

	return r
}

// datasetConfig is a small accessor used by handlers that need the
// registered DatasetConfig rather than the live *vc.Dataset.
func (s *Server) datasetConfig(name string) (model.DatasetConfig, error) {
	return s.store.Get(name)
}
