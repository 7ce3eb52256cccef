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

// Package idgen generates the opaque, collision-resistant identifiers
// the version-control engine needs for the initial root commit and
// master branch, and that the request surface needs for staging
// directory names. Client-supplied commit and branch hashes are never
// routed through this package — they are opaque strings as far as the
// engine is concerned.
package idgen

import "github.com/google/uuid"

// NewHash returns a new collision-resistant identifier suitable for a
// commit hash, branch hash, or staging directory name.
func NewHash() string {
	return uuid.New().String()
}
