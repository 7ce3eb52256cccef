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

package storage

import (
	"errors"
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/iterum-io/iterum-daemon/internal/model"
)

// NotFoundError reports that the addressed entity (dataset, commit,
// file, pipeline execution, lineage fragment, ...) is absent from the
// backend.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("storage: %s not found", e.Resource)
}

// IsNotFoundError reports whether err (or something it wraps) is a
// *NotFoundError.
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NotImplementedError reports that the requested operation was asked
// of a backend variant that is declared but not implemented.
type NotImplementedError struct {
	Backend model.BackendKind
	Op      string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("storage: backend %q does not implement %s", e.Backend, e.Op)
}

// IsNotImplementedError reports whether err (or something it wraps) is
// a *NotImplementedError.
func IsNotImplementedError(err error) bool {
	var ni *NotImplementedError
	return errors.As(err, &ni)
}

// IOError wraps an underlying filesystem or network failure with the
// operation that triggered it.
type IOError struct {
	Op    string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// SerializationError wraps a JSON marshal/unmarshal failure over
// persisted state.
type SerializationError struct {
	Op    string
	Cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("storage: %s: malformed JSON: %v", e.Op, e.Cause)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

// classifyIOErr normalizes a raw os/io error: file-not-found becomes
// *NotFoundError (so upper layers never have to inspect os.IsNotExist
// themselves), everything else is wrapped as *IOError with op context.
func classifyIOErr(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return &NotFoundError{Resource: resource}
	}
	return &IOError{Op: op, Cause: pkgerrors.Wrap(err, op)}
}
