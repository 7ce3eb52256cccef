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

// Package storage is the pluggable storage backend: durable
// persistence for datasets, committed files, pipeline executions,
// fragment lineage and pipeline result files. Local is the only
// implemented variant; AmazonS3 and GoogleCloud are declared but fail
// every data operation with *NotImplementedError.
package storage

import (
	"context"
	"fmt"

	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// StagedFile names one file waiting in a staging directory to be
// moved into a pipeline's result area, paired with its destination
// filename.
type StagedFile struct {
	Filename    string
	StagingPath string
}

// Backend is the fixed operation set every storage variant exposes.
// Every method takes a context because the dominant cost of these
// calls is blocking disk or network I/O (see the concurrency model).
type Backend interface {
	SaveDataset(ctx context.Context, datasetName string, dataset *vc.Dataset) error
	ReadDataset(ctx context.Context, datasetName string) (*vc.Dataset, error)
	RemoveDataset(ctx context.Context, datasetName string) error

	StoreCommittedFiles(ctx context.Context, datasetName string, commit model.Commit, stagingDir string) error
	GetFile(ctx context.Context, datasetName, commitHash, relativePath string) ([]byte, error)

	StorePipelineExecution(ctx context.Context, datasetName string, execution model.PipelineExecution) error
	GetPipelineExecution(ctx context.Context, datasetName, pipelineHash string) (model.PipelineExecution, error)
	GetPipelineExecutions(ctx context.Context, datasetName string) ([]string, error)
	RemovePipelineExecution(ctx context.Context, datasetName, pipelineHash string) error

	StorePipelineResultFiles(ctx context.Context, datasetName string, files []StagedFile, pipelineHash string) error
	GetPipelineResults(ctx context.Context, datasetName, pipelineHash string) ([]string, error)
	GetPipelineResult(ctx context.Context, datasetName, pipelineHash, filename string) ([]byte, error)

	StorePipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash string, lineage model.FragmentLineage) error
	GetPipelineFragmentLineages(ctx context.Context, datasetName, pipelineHash string) ([]string, error)
	GetPipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash, fragmentID string) (model.FragmentLineage, error)
}

// New constructs the Backend implied by cfg's backend kind and
// credentials. Local is the only variant whose data operations
// actually work; AmazonS3 and GoogleCloud construct (and validate)
// their respective SDK clients but reject every data operation.
func New(cfg model.DatasetConfig) (Backend, error) {
	switch cfg.Backend {
	case model.BackendLocal:
		if cfg.Local == nil || cfg.Local.Path == "" {
			return nil, fmt.Errorf("storage: Local backend requires a non-empty path")
		}
		return NewLocalBackend(cfg.Local.Path), nil
	case model.BackendAmazonS3:
		if cfg.S3 == nil || cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("storage: AmazonS3 backend requires a bucket")
		}
		return newS3Backend(*cfg.S3)
	case model.BackendGoogleCloud:
		if cfg.GCS == nil || cfg.GCS.Bucket == "" {
			return nil, fmt.Errorf("storage: GoogleCloud backend requires a bucket")
		}
		return newGCSBackend(*cfg.GCS)
	default:
		return nil, fmt.Errorf("storage: unknown backend kind %q", cfg.Backend)
	}
}
