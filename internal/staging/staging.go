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

// Package staging manages the scratch directories a request handler
// writes multipart upload parts into before the version-control
// transition that makes them durable. Every upload gets its own
// directory named by a fresh hash, so concurrent requests against the
// same dataset never share scratch space.
package staging

import (
	"os"
	"path/filepath"

	"github.com/iterum-io/iterum-daemon/internal/idgen"
)

// Area roots every staging directory this daemon creates.
type Area struct {
	root string
}

// NewArea returns an Area rooted at dir, creating dir if it does not
// already exist.
func NewArea(dir string) (*Area, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Area{root: dir}, nil
}

// Dir is one request's staging directory: a hash-named subdirectory
// of the area that the caller must Close when finished, successfully
// or not.
type Dir struct {
	Path string
}

// Begin allocates a fresh staging directory for a single request.
func (a *Area) Begin() (*Dir, error) {
	path := filepath.Join(a.root, idgen.NewHash())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return &Dir{Path: path}, nil
}

// FilePath returns the path a staged file named relativePath should
// be written to or read from within this directory.
func (d *Dir) FilePath(relativePath string) string {
	return filepath.Join(d.Path, relativePath)
}

// Close removes the staging directory and everything under it. It is
// safe to call after the backend has already moved files out, since
// os.RemoveAll tolerates a directory that's partially or fully empty.
func (d *Dir) Close() error {
	return os.RemoveAll(d.Path)
}
