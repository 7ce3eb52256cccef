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

package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iterum-io/iterum-daemon/internal/cache"
	"github.com/iterum-io/iterum-daemon/internal/configstore"
	"github.com/iterum-io/iterum-daemon/internal/model"
	"github.com/iterum-io/iterum-daemon/internal/staging"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	store, err := configstore.Open(filepath.Join(t.TempDir(), "iterum.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	area, err := staging.NewArea(t.TempDir())
	require.NoError(t, err)

	s := New(cache.New(), store, area, zap.NewNop())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, s
}

func createDataset(t *testing.T, ts *httptest.Server, storageRoot string) model.DatasetConfig {
	t.Helper()
	cfg := model.DatasetConfig{Name: "ds1", Backend: model.BackendLocal, Local: &model.LocalCredentials{Path: storageRoot}}
	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return cfg
}

func addPart(w *multipart.Writer, filename string, content []byte) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, filename, filename))
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(content)
	return err
}

func postCommitMultipart(t *testing.T, ts *httptest.Server, dataset string, commitJSON []byte, files map[string][]byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, addPart(w, "commit", commitJSON))
	for name, content := range files {
		require.NoError(t, addPart(w, name, content))
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/"+dataset+"/commit", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// TestScenarioS1DatasetCreation is spec scenario S1.
func TestScenarioS1DatasetCreation(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	resp, err := http.Get(ts.URL + "/ds1/vtree")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree model.VersionTree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	require.Len(t, tree.Tree, 1)
	for hash, node := range tree.Tree {
		assert.Empty(t, node.Children)
		assert.Empty(t, node.Parent)
		_ = hash
	}

	resp2, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var names []string
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&names))
	assert.Equal(t, []string{"ds1"}, names)
}

func rootAndMasterFromTree(tree model.VersionTree) (root, master string) {
	for hash := range tree.Tree {
		root = hash
	}
	for hash := range tree.Branches {
		master = hash
	}
	return
}

// TestScenarioS2CommitUpload is spec scenario S2.
func TestScenarioS2CommitUpload(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	resp, err := http.Get(ts.URL + "/ds1/vtree")
	require.NoError(t, err)
	var tree model.VersionTree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	resp.Body.Close()
	root, master := rootAndMasterFromTree(tree)

	commit := model.Commit{
		Hash: "c1", Parent: root, Branch: master, Name: "a",
		Files: []string{"a.jpg"},
		Diff:  model.Diff{Added: []string{"a.jpg"}},
	}
	commitJSON, err := json.Marshal(commit)
	require.NoError(t, err)

	resp = postCommitMultipart(t, ts, "ds1", commitJSON, map[string][]byte{"a.jpg": []byte("ABCD")})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fileResp, err := http.Get(ts.URL + "/ds1/file/a.jpg/c1")
	require.NoError(t, err)
	defer fileResp.Body.Close()
	assert.Equal(t, http.StatusOK, fileResp.StatusCode)
	assert.Equal(t, "image/jpeg", fileResp.Header.Get("Content-Type"))
	gotBody, err := io.ReadAll(fileResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ABCD", string(gotBody))

	commitResp, err := http.Get(ts.URL + "/ds1/commit/c1")
	require.NoError(t, err)
	defer commitResp.Body.Close()
	var gotCommit model.Commit
	require.NoError(t, json.NewDecoder(commitResp.Body).Decode(&gotCommit))
	assert.Equal(t, commit.Hash, gotCommit.Hash)

	treeResp, err := http.Get(ts.URL + "/ds1/vtree")
	require.NoError(t, err)
	defer treeResp.Body.Close()
	var newTree model.VersionTree
	require.NoError(t, json.NewDecoder(treeResp.Body).Decode(&newTree))
	assert.Equal(t, []string{"c1"}, newTree.Tree[root].Children)
	assert.Equal(t, root, newTree.Tree["c1"].Parent)
}

// TestScenarioS3DuplicateCommitRejected is spec scenario S3.
func TestScenarioS3DuplicateCommitRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	resp, _ := http.Get(ts.URL + "/ds1/vtree")
	var tree model.VersionTree
	json.NewDecoder(resp.Body).Decode(&tree)
	resp.Body.Close()
	root, master := rootAndMasterFromTree(tree)

	commit := model.Commit{Hash: "c1", Parent: root, Branch: master, Files: []string{"a.jpg"}, Diff: model.Diff{Added: []string{"a.jpg"}}}
	commitJSON, _ := json.Marshal(commit)

	resp = postCommitMultipart(t, ts, "ds1", commitJSON, map[string][]byte{"a.jpg": []byte("ABCD")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postCommitMultipart(t, ts, "ds1", commitJSON, map[string][]byte{"a.jpg": []byte("ABCD")})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Commit hash already exists")
}

// TestScenarioS4UnknownBranchRejected is spec scenario S4.
func TestScenarioS4UnknownBranchRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	resp, _ := http.Get(ts.URL + "/ds1/vtree")
	var tree model.VersionTree
	json.NewDecoder(resp.Body).Decode(&tree)
	resp.Body.Close()
	root, _ := rootAndMasterFromTree(tree)

	commit := model.Commit{Hash: "c1", Parent: root, Branch: "does-not-exist", Files: []string{"a.jpg"}, Diff: model.Diff{Added: []string{"a.jpg"}}}
	commitJSON, _ := json.Marshal(commit)

	resp = postCommitMultipart(t, ts, "ds1", commitJSON, map[string][]byte{"a.jpg": []byte("ABCD")})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// TestScenarioS5BranchCreation is spec scenario S5.
func TestScenarioS5BranchCreation(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	resp, _ := http.Get(ts.URL + "/ds1/vtree")
	var tree model.VersionTree
	json.NewDecoder(resp.Body).Decode(&tree)
	resp.Body.Close()
	root, master := rootAndMasterFromTree(tree)

	commit := model.Commit{Hash: "c1", Parent: root, Branch: master, Files: []string{"a.jpg"}, Diff: model.Diff{Added: []string{"a.jpg"}}}
	commitJSON, _ := json.Marshal(commit)
	r := postCommitMultipart(t, ts, "ds1", commitJSON, map[string][]byte{"a.jpg": []byte("ABCD")})
	require.Equal(t, http.StatusOK, r.StatusCode)
	r.Body.Close()

	branch := model.Branch{Hash: "b2", Name: "dev", Head: "c1"}
	branchJSON, _ := json.Marshal(branch)

	post := func() *http.Response {
		resp, err := http.Post(ts.URL+"/ds1/branch", "application/json", bytes.NewReader(branchJSON))
		require.NoError(t, err)
		return resp
	}

	first := post()
	assert.Equal(t, http.StatusOK, first.StatusCode)
	first.Body.Close()

	second := post()
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()

	bad := model.Branch{Hash: "b3", Name: "x", Head: "zzz"}
	badJSON, _ := json.Marshal(bad)
	resp3, err := http.Post(ts.URL+"/ds1/branch", "application/json", bytes.NewReader(badJSON))
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusConflict, resp3.StatusCode)
}

// TestScenarioS6DatasetDeletionAndReset is spec scenario S6.
func TestScenarioS6DatasetDeletionAndReset(t *testing.T) {
	ts, _ := newTestServer(t)
	createDataset(t, ts, t.TempDir())

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/ds1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/ds1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(ts.URL+"/reset_state", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
