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

package staging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginCreatesDistinctDirectories(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	d1, err := area.Begin()
	require.NoError(t, err)
	d2, err := area.Begin()
	require.NoError(t, err)

	assert.NotEqual(t, d1.Path, d2.Path)
	_, err = os.Stat(d1.Path)
	assert.NoError(t, err)
}

func TestCloseRemovesDirectory(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	d, err := area.Begin()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(d.FilePath("part.csv"), []byte("x"), 0o644))

	require.NoError(t, d.Close())
	_, err = os.Stat(d.Path)
	assert.True(t, os.IsNotExist(err))
}
