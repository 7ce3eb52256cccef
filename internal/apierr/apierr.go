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

// Package apierr translates errors from internal/vc, internal/storage
// and internal/configstore into the HTTP status code and JSON body the
// daemon's handlers write back to callers.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iterum-io/iterum-daemon/internal/configstore"
	"github.com/iterum-io/iterum-daemon/internal/storage"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// DaemonError pairs an HTTP status with the message a caller sees in
// the response body.
type DaemonError struct {
	Status  int
	Message string
	cause   error
}

func (e *DaemonError) Error() string { return e.Message }
func (e *DaemonError) Unwrap() error { return e.cause }

func newError(status int, cause error) *DaemonError {
	return &DaemonError{Status: status, Message: cause.Error(), cause: cause}
}

// ParseError reports a malformed request body: invalid JSON, a
// missing required multipart part, or similar. It always maps to 500
// per the daemon's status-code table — parsing failures are grouped
// with IO/Serialization/Cache failures, not treated as a 4xx class of
// their own.
type ParseError struct {
	Op    string
	Cause error
}

func (e *ParseError) Error() string { return e.Op + ": " + e.Cause.Error() }
func (e *ParseError) Unwrap() error { return e.Cause }

// From classifies err into the DaemonError the HTTP layer should
// render. An err that is already a *DaemonError passes through
// unchanged.
func From(err error) *DaemonError {
	if err == nil {
		return nil
	}

	var de *DaemonError
	if errors.As(err, &de) {
		return de
	}

	if _, ok := vc.KindOf(err); ok {
		// Every version-control rejection is a conflict with the
		// current state of the dataset, never a malformed request.
		return newError(http.StatusConflict, err)
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return newError(http.StatusInternalServerError, err)
	}

	if storage.IsNotFoundError(err) {
		return newError(http.StatusNotFound, err)
	}
	if storage.IsNotImplementedError(err) {
		return newError(http.StatusNotImplemented, err)
	}
	var ioErr *storage.IOError
	if errors.As(err, &ioErr) {
		return newError(http.StatusInternalServerError, err)
	}
	var serErr *storage.SerializationError
	if errors.As(err, &serErr) {
		return newError(http.StatusInternalServerError, err)
	}

	if errors.Is(err, configstore.ErrNotFound) {
		return newError(http.StatusNotFound, err)
	}
	if errors.Is(err, configstore.ErrAlreadyExists) {
		return newError(http.StatusConflict, err)
	}

	return newError(http.StatusInternalServerError, err)
}

// body is the JSON shape of every error response.
type body struct {
	Message string `json:"message"`
}

// WriteJSON renders err as the daemon's standard JSON error body,
// setting the status code classified by From.
func WriteJSON(w http.ResponseWriter, err error) {
	de := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(de.Status)
	_ = json.NewEncoder(w).Encode(body{Message: de.Message})
}
