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
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/iterum-io/iterum-daemon/internal/apierr"
)

// handlerFunc is the shape every route handler implements: parse,
// act, and either write a success response or return an error for the
// wrapper to translate.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// statusRecorder captures the status code a handler wrote, for
// logging, without altering ResponseWriter behavior.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// wrap adds request logging and latency tracking around h, and
// translates any returned error into the standard JSON error body via
// internal/apierr. routeName is a stable label ("GET /{d}/commit/{ch}")
// independent of the dataset name actually requested.
func (s *Server) wrap(routeName string, h handlerFunc) http.HandlerFunc {
	latency := s.metrics.Route(routeName)
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		err := h(rec, r)
		duration := time.Since(start)
		latency.Observe(duration)

		fields := []zap.Field{
			zap.String("route", routeName),
			zap.String("dataset", mux.Vars(r)["d"]),
			zap.Duration("duration", duration),
		}
		if err != nil {
			apierr.WriteJSON(rec, err)
			s.log.Warn("request failed", append(fields, zap.Int("status", apierr.From(err).Status), zap.Error(err))...)
			return
		}
		s.log.Info("request handled", append(fields, zap.Int("status", rec.status))...)
	}
}
