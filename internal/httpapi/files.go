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
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/iterum-io/iterum-daemon/internal/metrics"
	"github.com/iterum-io/iterum-daemon/internal/storage"
)

// handleGetFile is GET /{d}/file/{filename}/{ch}. commitHash is
// validated against the dataset's commit map so a garbage commit hash
// still 404s, even though the Local backend's flat data/ layout means
// it doesn't otherwise affect which bytes are served.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	name, filename, commitHash := vars["d"], vars["filename"], vars["ch"]

	d, err := s.requireDataset(name)
	if err != nil {
		return err
	}
	if _, ok := d.Commits[commitHash]; !ok {
		return &storage.NotFoundError{Resource: "commit " + commitHash}
	}

	backend, err := s.backendFor(name)
	if err != nil {
		return err
	}
	data, err := backend.GetFile(r.Context(), name, commitHash, filename)
	if err != nil {
		return err
	}
	s.log.Debug("served file", zap.String("dataset", name), zap.String("file", filename), zap.String("size", metrics.BytesServed(int64(len(data)))))

	if strings.HasSuffix(strings.ToLower(filename), ".jpg") {
		w.Header().Set("Content-Type", "image/jpeg")
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, werr := w.Write(data)
	return werr
}
