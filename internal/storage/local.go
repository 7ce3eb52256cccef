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
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// LocalBackend persists every dataset under a single root directory:
//
//	<root>/<dataset>/dataset.json
//	<root>/<dataset>/data/<relative/path/from/commit>
//	<root>/<dataset>/runs/<pipelineHash>/execution.json
//	<root>/<dataset>/runs/<pipelineHash>/results/<filename>
//	<root>/<dataset>/runs/<pipelineHash>/lineage/<fragmentId>.json
type LocalBackend struct {
	root string
}

// NewLocalBackend returns a backend rooted at dir. dir is created
// lazily as datasets are saved; it need not exist yet.
func NewLocalBackend(dir string) *LocalBackend {
	return &LocalBackend{root: dir}
}

func (b *LocalBackend) datasetDir(name string) string  { return filepath.Join(b.root, name) }
func (b *LocalBackend) dataDir(name string) string      { return filepath.Join(b.datasetDir(name), "data") }
func (b *LocalBackend) runsDir(name string) string      { return filepath.Join(b.datasetDir(name), "runs") }
func (b *LocalBackend) runDir(name, hash string) string { return filepath.Join(b.runsDir(name), hash) }

func (b *LocalBackend) SaveDataset(ctx context.Context, datasetName string, dataset *vc.Dataset) error {
	dir := b.datasetDir(datasetName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classifyIOErr("SaveDataset", datasetName, err)
	}
	raw, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return &SerializationError{Op: "SaveDataset", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(dir, "dataset.json"), raw, 0o644); err != nil {
		return classifyIOErr("SaveDataset", datasetName, err)
	}
	return nil
}

func (b *LocalBackend) ReadDataset(ctx context.Context, datasetName string) (*vc.Dataset, error) {
	raw, err := os.ReadFile(filepath.Join(b.datasetDir(datasetName), "dataset.json"))
	if err != nil {
		return nil, classifyIOErr("ReadDataset", datasetName, err)
	}
	var d vc.Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, &SerializationError{Op: "ReadDataset", Cause: err}
	}
	return &d, nil
}

func (b *LocalBackend) RemoveDataset(ctx context.Context, datasetName string) error {
	if err := os.RemoveAll(b.datasetDir(datasetName)); err != nil {
		return classifyIOErr("RemoveDataset", datasetName, err)
	}
	return nil
}

// StoreCommittedFiles moves every file named in commit.Diff.Added and
// commit.Diff.Updated from stagingDir into the dataset's data
// directory, preserving relative paths. commit.Files lists the full
// version tree as of this commit, including paths carried forward
// unchanged from an ancestor; only added/updated paths were actually
// staged by the caller, so only those are moved here.
func (b *LocalBackend) StoreCommittedFiles(ctx context.Context, datasetName string, commit model.Commit, stagingDir string) error {
	dataDir := b.dataDir(datasetName)
	changed := append(append([]string{}, commit.Diff.Added...), commit.Diff.Updated...)
	for _, rel := range changed {
		dst := filepath.Join(dataDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return classifyIOErr("StoreCommittedFiles", datasetName, err)
		}
		src := filepath.Join(stagingDir, rel)
		if err := copyOrMove(src, dst); err != nil {
			return classifyIOErr("StoreCommittedFiles", datasetName, err)
		}
	}
	return nil
}

// GetFile returns the current bytes at relativePath. commitHash is
// validated by the caller against the dataset's commit map; Local
// keeps a single working copy per path rather than per-commit
// snapshots, so every commit that has touched relativePath serves the
// same, most-recent bytes.
func (b *LocalBackend) GetFile(ctx context.Context, datasetName, commitHash, relativePath string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(b.dataDir(datasetName), relativePath))
	if err != nil {
		return nil, classifyIOErr("GetFile", relativePath, err)
	}
	return raw, nil
}

func (b *LocalBackend) StorePipelineExecution(ctx context.Context, datasetName string, execution model.PipelineExecution) error {
	dir := b.runDir(datasetName, execution.PipelineRun.PipelineRunHash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classifyIOErr("StorePipelineExecution", datasetName, err)
	}
	raw, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return &SerializationError{Op: "StorePipelineExecution", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(dir, "execution.json"), raw, 0o644); err != nil {
		return classifyIOErr("StorePipelineExecution", datasetName, err)
	}
	return nil
}

func (b *LocalBackend) GetPipelineExecution(ctx context.Context, datasetName, pipelineHash string) (model.PipelineExecution, error) {
	raw, err := os.ReadFile(filepath.Join(b.runDir(datasetName, pipelineHash), "execution.json"))
	if err != nil {
		return model.PipelineExecution{}, classifyIOErr("GetPipelineExecution", pipelineHash, err)
	}
	var execution model.PipelineExecution
	if err := json.Unmarshal(raw, &execution); err != nil {
		return model.PipelineExecution{}, &SerializationError{Op: "GetPipelineExecution", Cause: err}
	}
	return execution, nil
}

func (b *LocalBackend) GetPipelineExecutions(ctx context.Context, datasetName string) ([]string, error) {
	entries, err := os.ReadDir(b.runsDir(datasetName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, classifyIOErr("GetPipelineExecutions", datasetName, err)
	}
	var hashes []string
	for _, e := range entries {
		if e.IsDir() {
			hashes = append(hashes, e.Name())
		}
	}
	return hashes, nil
}

func (b *LocalBackend) RemovePipelineExecution(ctx context.Context, datasetName, pipelineHash string) error {
	if err := os.RemoveAll(b.runDir(datasetName, pipelineHash)); err != nil {
		return classifyIOErr("RemovePipelineExecution", pipelineHash, err)
	}
	return nil
}

func (b *LocalBackend) resultsDir(datasetName, pipelineHash string) string {
	return filepath.Join(b.runDir(datasetName, pipelineHash), "results")
}

func (b *LocalBackend) StorePipelineResultFiles(ctx context.Context, datasetName string, files []StagedFile, pipelineHash string) error {
	dir := b.resultsDir(datasetName, pipelineHash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classifyIOErr("StorePipelineResultFiles", datasetName, err)
	}
	for _, f := range files {
		if err := copyOrMove(f.StagingPath, filepath.Join(dir, f.Filename)); err != nil {
			return classifyIOErr("StorePipelineResultFiles", datasetName, err)
		}
	}
	return nil
}

func (b *LocalBackend) GetPipelineResults(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	entries, err := os.ReadDir(b.resultsDir(datasetName, pipelineHash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, classifyIOErr("GetPipelineResults", pipelineHash, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (b *LocalBackend) GetPipelineResult(ctx context.Context, datasetName, pipelineHash, filename string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(b.resultsDir(datasetName, pipelineHash), filename))
	if err != nil {
		return nil, classifyIOErr("GetPipelineResult", filename, err)
	}
	return raw, nil
}

func (b *LocalBackend) lineageDir(datasetName, pipelineHash string) string {
	return filepath.Join(b.runDir(datasetName, pipelineHash), "lineage")
}

func (b *LocalBackend) StorePipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash string, lineage model.FragmentLineage) error {
	dir := b.lineageDir(datasetName, pipelineHash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classifyIOErr("StorePipelineFragmentLineage", datasetName, err)
	}
	raw, err := json.MarshalIndent(lineage, "", "  ")
	if err != nil {
		return &SerializationError{Op: "StorePipelineFragmentLineage", Cause: err}
	}
	path := filepath.Join(dir, lineage.Description.Metadata.FragmentID+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return classifyIOErr("StorePipelineFragmentLineage", datasetName, err)
	}
	return nil
}

func (b *LocalBackend) GetPipelineFragmentLineages(ctx context.Context, datasetName, pipelineHash string) ([]string, error) {
	entries, err := os.ReadDir(b.lineageDir(datasetName, pipelineHash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, classifyIOErr("GetPipelineFragmentLineages", pipelineHash, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			ids = append(ids, trimJSONExt(e.Name()))
		}
	}
	return ids, nil
}

func (b *LocalBackend) GetPipelineFragmentLineage(ctx context.Context, datasetName, pipelineHash, fragmentID string) (model.FragmentLineage, error) {
	raw, err := os.ReadFile(filepath.Join(b.lineageDir(datasetName, pipelineHash), fragmentID+".json"))
	if err != nil {
		return model.FragmentLineage{}, classifyIOErr("GetPipelineFragmentLineage", fragmentID, err)
	}
	var lineage model.FragmentLineage
	if err := json.Unmarshal(raw, &lineage); err != nil {
		return model.FragmentLineage{}, &SerializationError{Op: "GetPipelineFragmentLineage", Cause: err}
	}
	return lineage, nil
}

func trimJSONExt(name string) string {
	const ext = ".json"
	if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
		return name[:len(name)-len(ext)]
	}
	return name
}

// copyOrMove relocates src to dst, falling back to a copy-then-remove
// when the two paths live on different filesystems (os.Rename returns
// EXDEV in that case, e.g. staging on tmpfs and the dataset root on a
// mounted volume).
func copyOrMove(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
