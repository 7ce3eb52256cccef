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
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// TestLocalBackendDatasetRoundTrip is scenario R1: a saved dataset
// reads back byte-for-byte equivalent.
func TestLocalBackendDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBackend(t.TempDir())
	d := vc.New()

	require.NoError(t, b.SaveDataset(ctx, "ds1", d))
	got, err := b.ReadDataset(ctx, "ds1")
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestLocalBackendReadMissingDatasetIsNotFound(t *testing.T) {
	b := NewLocalBackend(t.TempDir())
	_, err := b.ReadDataset(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestLocalBackendStoreCommittedFilesLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b := NewLocalBackend(root)

	staging := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staging, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "nested", "a.csv"), []byte("x,y\n1,2\n"), 0o644))

	commit := model.Commit{Hash: "c1", Files: []string{"nested/a.csv"}, Diff: model.Diff{Added: []string{"nested/a.csv"}}}
	require.NoError(t, b.StoreCommittedFiles(ctx, "ds1", commit, staging))

	got, err := b.GetFile(ctx, "ds1", "c1", "nested/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "x,y\n1,2\n", string(got))

	// Staged source was moved, not copied.
	_, err = os.Stat(filepath.Join(staging, "nested", "a.csv"))
	assert.True(t, os.IsNotExist(err))
}

// TestLocalBackendStoreCommittedFilesSkipsUnchanged covers a commit
// that carries forward a path unchanged from its parent: Files lists
// it, but it was never staged and must not be copied/moved.
func TestLocalBackendStoreCommittedFilesSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBackend(t.TempDir())

	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "b.csv"), []byte("new"), 0o644))

	commit := model.Commit{
		Hash:  "c2",
		Files: []string{"a.csv", "b.csv"},
		Diff:  model.Diff{Added: []string{"b.csv"}},
	}
	require.NoError(t, b.StoreCommittedFiles(ctx, "ds1", commit, staging))

	got, err := b.GetFile(ctx, "ds1", "c2", "b.csv")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	_, err = b.GetFile(ctx, "ds1", "c2", "a.csv")
	assert.True(t, IsNotFoundError(err))
}

func TestLocalBackendPipelineResultsAndLineage(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBackend(t.TempDir())

	execution := model.PipelineExecution{PipelineRun: model.PipelineRun{PipelineRunHash: "p1"}}
	require.NoError(t, b.StorePipelineExecution(ctx, "ds1", execution))
	got, err := b.GetPipelineExecution(ctx, "ds1", "p1")
	require.NoError(t, err)
	assert.Equal(t, execution, got)

	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "out.csv"), []byte("ok"), 0o644))
	require.NoError(t, b.StorePipelineResultFiles(ctx, "ds1", []StagedFile{{Filename: "out.csv", StagingPath: filepath.Join(staging, "out.csv")}}, "p1"))

	names, err := b.GetPipelineResults(ctx, "ds1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"out.csv"}, names)

	lineage := model.FragmentLineage{Description: model.FragmentDescription{Metadata: model.FragmentMetadata{FragmentID: "f1"}}}
	require.NoError(t, b.StorePipelineFragmentLineage(ctx, "ds1", "p1", lineage))
	gotLineage, err := b.GetPipelineFragmentLineage(ctx, "ds1", "p1", "f1")
	require.NoError(t, err)
	assert.Equal(t, lineage, gotLineage)

	ids, err := b.GetPipelineFragmentLineages(ctx, "ds1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestLocalBackendGetPipelineResultMissingIsNotFound(t *testing.T) {
	b := NewLocalBackend(t.TempDir())
	_, err := b.GetPipelineResult(context.Background(), "ds1", "p1", "missing.csv")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}
