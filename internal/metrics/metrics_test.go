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

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRouteLatencyTracksCountAndPercentiles(t *testing.T) {
	r := NewRouteLatency()
	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		r.Observe(d)
	}
	snap := r.Snapshot()
	assert.EqualValues(t, 3, snap.Count)
	assert.Greater(t, snap.Max, 25*time.Millisecond)
}

func TestRegistryCreatesRoutesLazily(t *testing.T) {
	reg := NewRegistry()
	a := reg.Route("PUT /datasets/{name}")
	b := reg.Route("PUT /datasets/{name}")
	assert.Same(t, a, b)

	a.Observe(5 * time.Millisecond)
	assert.EqualValues(t, 1, reg.Route("PUT /datasets/{name}").Snapshot().Count)
}

func TestBytesServedFormatsHumanReadable(t *testing.T) {
	assert.Equal(t, "1.0 kB", BytesServed(1000))
}
