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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iterum-io/iterum-daemon/internal/model"
)

func TestS3BackendRejectsEveryDataOperation(t *testing.T) {
	b := &S3Backend{bucket: "bucket"}
	ctx := context.Background()

	err := b.SaveDataset(ctx, "ds1", nil)
	require.Error(t, err)
	assert.True(t, IsNotImplementedError(err))

	_, err = b.ReadDataset(ctx, "ds1")
	require.Error(t, err)
	assert.True(t, IsNotImplementedError(err))

	_, err = b.GetFile(ctx, "ds1", "c1", "a.csv")
	require.Error(t, err)
	var ni *NotImplementedError
	require.ErrorAs(t, err, &ni)
	assert.Equal(t, model.BackendAmazonS3, ni.Backend)
}

func TestGCSBackendRejectsEveryDataOperation(t *testing.T) {
	b := &GCSBackend{bucket: "bucket"}
	_, err := b.GetPipelineResult(context.Background(), "ds1", "p1", "out.csv")
	require.Error(t, err)
	var ni *NotImplementedError
	require.ErrorAs(t, err, &ni)
	assert.Equal(t, model.BackendGoogleCloud, ni.Backend)
}
