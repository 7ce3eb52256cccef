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

package model

import "encoding/json"

// PipelineRun carries the identity of one pipeline execution. The
// rest of a PipelineExecution's metadata is opaque to the daemon core
// (it is recorded and served back verbatim, never interpreted).
type PipelineRun struct {
	PipelineRunHash string `json:"pipeline_run_hash"`
}

// PipelineExecution is a recorded run of a downstream pipeline against
// one commit of one dataset. It is owned by exactly one dataset and
// stored only through the backend, never held in the in-memory
// Dataset. Metadata is preserved verbatim via json.RawMessage so the
// daemon never needs to understand a pipeline's own schema.
type PipelineExecution struct {
	PipelineRun PipelineRun     `json:"pipeline_run"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// PipelineResult is added to a VCDataset's in-memory pipeline-results
// map by add_pipeline_result; it is distinct from PipelineExecution,
// which bypasses the in-memory model entirely.
type PipelineResult struct {
	Hash         string   `json:"hash"`
	DatasetHash  string   `json:"dataset_hash"`
	CommitHash   string   `json:"commit_hash"`
	Files        []string `json:"files"`
}

// FragmentDescription carries the provenance-identifying metadata of
// a FragmentLineage.
type FragmentDescription struct {
	Metadata FragmentMetadata `json:"metadata"`
}

// FragmentMetadata names the fragment a FragmentLineage describes.
type FragmentMetadata struct {
	FragmentID string `json:"fragment_id"`
}

// FragmentLineage is a provenance record for one fragment processed
// by a pipeline execution. The provenance payload itself is opaque to
// the daemon core.
type FragmentLineage struct {
	Description FragmentDescription `json:"description"`
	Provenance  json.RawMessage     `json:"provenance,omitempty"`
}
