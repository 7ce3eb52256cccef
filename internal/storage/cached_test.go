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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iterum-io/iterum-daemon/internal/model"
)

func TestCachingBackendServesRepeatedReadsFromCache(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	inner := NewLocalBackend(root)

	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "a.csv"), []byte("v1"), 0o644))
	require.NoError(t, inner.StoreCommittedFiles(ctx, "ds1", model.Commit{Hash: "c1", Files: []string{"a.csv"}, Diff: model.Diff{Added: []string{"a.csv"}}}, staging))

	cached, err := NewCachingBackend(inner, 8)
	require.NoError(t, err)

	got, err := cached.GetFile(ctx, "ds1", "c1", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	// Mutate the backing file directly; the cache must still serve v1.
	require.NoError(t, os.WriteFile(filepath.Join(root, "ds1", "data", "a.csv"), []byte("v2"), 0o644))
	got, err = cached.GetFile(ctx, "ds1", "c1", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestCachingBackendInvalidatesOnOverwrite(t *testing.T) {
	ctx := context.Background()
	inner := NewLocalBackend(t.TempDir())
	cached, err := NewCachingBackend(inner, 8)
	require.NoError(t, err)

	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "a.csv"), []byte("v1"), 0o644))
	require.NoError(t, cached.StoreCommittedFiles(ctx, "ds1", model.Commit{Hash: "c1", Files: []string{"a.csv"}, Diff: model.Diff{Added: []string{"a.csv"}}}, staging))

	got, err := cached.GetFile(ctx, "ds1", "c1", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	staging2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging2, "a.csv"), []byte("v2"), 0o644))
	require.NoError(t, cached.StoreCommittedFiles(ctx, "ds1", model.Commit{Hash: "c1", Files: []string{"a.csv"}, Diff: model.Diff{Updated: []string{"a.csv"}}}, staging2))

	got, err = cached.GetFile(ctx, "ds1", "c1", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}
