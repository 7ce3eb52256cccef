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
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// CachingBackend decorates a Backend with an in-process LRU over
// GetFile and GetPipelineResult reads, the two calls a repeated
// pipeline run tends to issue for the same bytes. Writes and removals
// pass through and invalidate the affected keys.
type CachingBackend struct {
	inner Backend
	files *lru.Cache[string, []byte]
}

// NewCachingBackend wraps inner with an LRU of at most size entries.
func NewCachingBackend(inner Backend, size int) (*CachingBackend, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachingBackend{inner: inner, files: cache}, nil
}

func fileKey(datasetName, commitHash, relativePath string) string {
	return strings.Join([]string{datasetName, commitHash, relativePath}, "\x00")
}

func resultKey(datasetName, pipelineHash, filename string) string {
	return strings.Join([]string{"result", datasetName, pipelineHash, filename}, "\x00")
}

func (c *CachingBackend) SaveDataset(ctx context.Context, datasetName string, dataset *vc.Dataset) error {
	return c.inner.SaveDataset(ctx, datasetName, dataset)
}

func (c *CachingBackend) ReadDataset(ctx context.Context, datasetName string) (*vc.Dataset, error) {
	return c.inner.ReadDataset(ctx, datasetName)
}

func (c *CachingBackend) RemoveDataset(ctx context.Context, datasetName string) error {
	c.purgePrefix(datasetName + "\x00")
	return c.inner.RemoveDataset(ctx, datasetName)
}

func (c *CachingBackend) StoreCommittedFiles(ctx context.Context, datasetName string, commit model.Commit, stagingDir string) error {
	if err := c.inner.StoreCommittedFiles(ctx, datasetName, commit, stagingDir); err != nil {
		return err
	}
	changed := append(append([]string{}, commit.Diff.Added...), commit.Diff.Updated...)
	// A path's bytes are the same whichever commit hash addresses it,
	// so every cached copy of a changed path is dropped, not only the
	// one keyed by this commit.
	prefix := datasetName + "\x00"
	for _, key := range c.files.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, rel := range changed {
			if strings.HasSuffix(key, "\x00"+rel) {
				c.files.Remove(key)
				break
			}
		}
	}
	return nil
}

func (c *CachingBackend) GetFile(ctx context.Context, datasetName, commitHash, relativePath string) ([]byte, error) {
	key := fileKey(datasetName, commitHash, relativePath)
	if cached, ok := c.files.Get(key); ok {
		return cached, nil
	}
	data, err := c.inner.GetFile(ctx, datasetName, commitHash, relativePath)
	if err != nil {
		return nil, err
	}
	c.files.Add(key, data)
	return data, nil
}

func (c *CachingBackend) StorePipelineExecution(ctx context.Context, datasetName string, execution model.PipelineExecution) error {
	return c.inner.StorePipelineExecution(ctx, datasetName, execution)
}

func (c *CachingBackend) GetPipelineExecution(ctx context.Context, datasetName, pipelineHash string) (model.PipelineExecution, error) {
	return c.inner.GetPipelineExecution(ctx, datasetName, pipelineHash)
}

func (c *CachingBackend) GetPipelineExecutions(ctx context.Context, datasetName string) ([]string, error) {
	return c.inner.GetPipelineExecutions(ctx, datasetName)
}

func (c *CachingBackend) RemovePipelineExecution(ctx context.Context, datasetName, pipelineHash string) error {
	c.purgePrefix(strings.Join([]string{"result", datasetName, pipelineHash}, "\x00"))
	return c.inner.RemovePipelineExecution(ctx, datasetName, pipelineHash)
}

func (c *CachingBackend) StorePipelineResultFiles(ctx context.Context, datasetName string, files []StagedFile, pipelineHash string) error {
	if err := c.inner.StorePipelineResultFiles(ctx, datasetName, files, pipelineHash); err != nil {
		return err
	}
	for _, f := range files {
		c.files.Remove(resultKey(datasetName, pipelineHash, f.Filename))
	}
	return nil
}

func (c *CachingBackend) GetPipelineResults(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return c.inner.GetPipelineResults(ctx, datasetName, pipelineHash)
}

func (c *CachingBackend) GetPipelineResult(ctx context.Context, datasetName, pipelineHash, filename string) ([]byte, error) {
	key := resultKey(datasetName, pipelineHash, filename)
	if cached, ok := c.files.Get(key); ok {
		return cached, nil
	}
	data, err := c.inner.GetPipelineResult(ctx, datasetName, pipelineHash, filename)
	if err != nil {
		return nil, err
	}
	c.files.Add(key, data)
	return data, nil
}

func (c *CachingBackend) StorePipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash string, lineage model.FragmentLineage) error {
	return c.inner.StorePipelineFragmentLineage(ctx, datasetName, pipelineHash, lineage)
}

func (c *CachingBackend) GetPipelineFragmentLineages(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return c.inner.GetPipelineFragmentLineages(ctx, datasetName, pipelineHash)
}

func (c *CachingBackend) GetPipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash, fragmentID string) (model.FragmentLineage, error) {
	return c.inner.GetPipelineFragmentLineage(ctx, datasetName, pipelineHash, fragmentID)
}

// purgePrefix drops every cached key sharing prefix, used when a
// dataset or pipeline run is removed wholesale.
func (c *CachingBackend) purgePrefix(prefix string) {
	for _, key := range c.files.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.files.Remove(key)
		}
	}
}
