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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gcstorage "cloud.google.com/go/storage"

	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// S3Backend is declared, not implemented: constructing one loads the
// default AWS configuration (with the optional region and endpoint)
// and builds a client; the bucket is not contacted and credentials
// are not resolved. Every data operation returns *NotImplementedError.
// It exists so DatasetConfig{Backend: AmazonS3} round-trips through
// registration without silently behaving like Local.
type S3Backend struct {
	client *s3.Client
	bucket string
}

func newS3Backend(creds model.S3Credentials) (*S3Backend, error) {
	ctx := context.Background()
	opts := []func(*awsconfig.LoadOptions) error{}
	if creds.Region != "" {
		opts = append(opts, awsconfig.WithRegion(creds.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, classifyIOErr("newS3Backend", creds.Bucket, err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = &creds.Endpoint
		}
	})
	return &S3Backend{client: client, bucket: creds.Bucket}, nil
}

func (b *S3Backend) notImplemented(op string) error {
	return &NotImplementedError{Backend: model.BackendAmazonS3, Op: op}
}

func (b *S3Backend) SaveDataset(ctx context.Context, datasetName string, dataset *vc.Dataset) error {
	return b.notImplemented("SaveDataset")
}
func (b *S3Backend) ReadDataset(ctx context.Context, datasetName string) (*vc.Dataset, error) {
	return nil, b.notImplemented("ReadDataset")
}
func (b *S3Backend) RemoveDataset(ctx context.Context, datasetName string) error {
	return b.notImplemented("RemoveDataset")
}
func (b *S3Backend) StoreCommittedFiles(ctx context.Context, datasetName string, commit model.Commit, stagingDir string) error {
	return b.notImplemented("StoreCommittedFiles")
}
func (b *S3Backend) GetFile(ctx context.Context, datasetName, commitHash, relativePath string) ([]byte, error) {
	return nil, b.notImplemented("GetFile")
}
func (b *S3Backend) StorePipelineExecution(ctx context.Context, datasetName string, execution model.PipelineExecution) error {
	return b.notImplemented("StorePipelineExecution")
}
func (b *S3Backend) GetPipelineExecution(ctx context.Context, datasetName, pipelineHash string) (model.PipelineExecution, error) {
	return model.PipelineExecution{}, b.notImplemented("GetPipelineExecution")
}
func (b *S3Backend) GetPipelineExecutions(ctx context.Context, datasetName string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineExecutions")
}
func (b *S3Backend) RemovePipelineExecution(ctx context.Context, datasetName, pipelineHash string) error {
	return b.notImplemented("RemovePipelineExecution")
}
func (b *S3Backend) StorePipelineResultFiles(ctx context.Context, datasetName string, files []StagedFile, pipelineHash string) error {
	return b.notImplemented("StorePipelineResultFiles")
}
func (b *S3Backend) GetPipelineResults(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineResults")
}
func (b *S3Backend) GetPipelineResult(ctx context.Context, datasetName, pipelineHash, filename string) ([]byte, error) {
	return nil, b.notImplemented("GetPipelineResult")
}
func (b *S3Backend) StorePipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash string, lineage model.FragmentLineage) error {
	return b.notImplemented("StorePipelineFragmentLineage")
}
func (b *S3Backend) GetPipelineFragmentLineages(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineFragmentLineages")
}
func (b *S3Backend) GetPipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash, fragmentID string) (model.FragmentLineage, error) {
	return model.FragmentLineage{}, b.notImplemented("GetPipelineFragmentLineage")
}

// GCSBackend mirrors S3Backend: a real client is constructed from the
// environment's default Google credentials (CredentialsFile and
// ProjectID are not used) and the bucket name is only recorded; no
// data operation is implemented.
type GCSBackend struct {
	client *gcstorage.Client
	bucket string
}

func newGCSBackend(creds model.GCSCredentials) (*GCSBackend, error) {
	ctx := context.Background()
	client, err := gcstorage.NewClient(ctx)
	if err != nil {
		return nil, classifyIOErr("newGCSBackend", creds.Bucket, err)
	}
	return &GCSBackend{client: client, bucket: creds.Bucket}, nil
}

func (b *GCSBackend) notImplemented(op string) error {
	return &NotImplementedError{Backend: model.BackendGoogleCloud, Op: op}
}

func (b *GCSBackend) SaveDataset(ctx context.Context, datasetName string, dataset *vc.Dataset) error {
	return b.notImplemented("SaveDataset")
}
func (b *GCSBackend) ReadDataset(ctx context.Context, datasetName string) (*vc.Dataset, error) {
	return nil, b.notImplemented("ReadDataset")
}
func (b *GCSBackend) RemoveDataset(ctx context.Context, datasetName string) error {
	return b.notImplemented("RemoveDataset")
}
func (b *GCSBackend) StoreCommittedFiles(ctx context.Context, datasetName string, commit model.Commit, stagingDir string) error {
	return b.notImplemented("StoreCommittedFiles")
}
func (b *GCSBackend) GetFile(ctx context.Context, datasetName, commitHash, relativePath string) ([]byte, error) {
	return nil, b.notImplemented("GetFile")
}
func (b *GCSBackend) StorePipelineExecution(ctx context.Context, datasetName string, execution model.PipelineExecution) error {
	return b.notImplemented("StorePipelineExecution")
}
func (b *GCSBackend) GetPipelineExecution(ctx context.Context, datasetName, pipelineHash string) (model.PipelineExecution, error) {
	return model.PipelineExecution{}, b.notImplemented("GetPipelineExecution")
}
func (b *GCSBackend) GetPipelineExecutions(ctx context.Context, datasetName string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineExecutions")
}
func (b *GCSBackend) RemovePipelineExecution(ctx context.Context, datasetName, pipelineHash string) error {
	return b.notImplemented("RemovePipelineExecution")
}
func (b *GCSBackend) StorePipelineResultFiles(ctx context.Context, datasetName string, files []StagedFile, pipelineHash string) error {
	return b.notImplemented("StorePipelineResultFiles")
}
func (b *GCSBackend) GetPipelineResults(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineResults")
}
func (b *GCSBackend) GetPipelineResult(ctx context.Context, datasetName, pipelineHash, filename string) ([]byte, error) {
	return nil, b.notImplemented("GetPipelineResult")
}
func (b *GCSBackend) StorePipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash string, lineage model.FragmentLineage) error {
	return b.notImplemented("StorePipelineFragmentLineage")
}
func (b *GCSBackend) GetPipelineFragmentLineages(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	return nil, b.notImplemented("GetPipelineFragmentLineages")
}
func (b *GCSBackend) GetPipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash, fragmentID string) (model.FragmentLineage, error) {
	return model.FragmentLineage{}, b.notImplemented("GetPipelineFragmentLineage")
}
