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

package vc

import "github.com/iterum-io/iterum-daemon/internal/model"

// AddPipelineResult records a PipelineResult in the dataset's internal
// pipeline-results map. PipelineExecutions proper bypass this model
// entirely and are persisted directly through the storage backend.
func (d *Dataset) AddPipelineResult(result model.PipelineResult) (*Dataset, error) {
	if _, exists := d.PipelineResults[result.Hash]; exists {
		return nil, newError(PipelineHashAlreadyExists)
	}

	next := d.Clone()
	next.PipelineResults[result.Hash] = result
	return next, nil
}
