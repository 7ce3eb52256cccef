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

// Package metrics tracks per-route latency so operators can see
// whether a particular route (uploads among them) is degrading,
// without pulling in a full metrics pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
)

// minRecordable and maxRecordable bound the histogram's resolution:
// Observe folds anything above ten minutes into the top bucket rather
// than growing memory for an outlier.
const (
	minRecordableMicros = 1
	maxRecordableMicros = int64(10 * time.Minute / time.Microsecond)
	significantDigits    = 3
)

// RouteLatency accumulates request durations for a single named
// route into an HDR histogram, giving accurate percentiles without
// storing every sample.
type RouteLatency struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// NewRouteLatency returns an empty recorder.
func NewRouteLatency() *RouteLatency {
	return &RouteLatency{hist: hdrhistogram.New(minRecordableMicros, maxRecordableMicros, significantDigits)}
}

// Observe records one completed request's duration.
func (r *RouteLatency) Observe(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := d.Microseconds()
	if v > maxRecordableMicros {
		v = maxRecordableMicros
	}
	_ = r.hist.RecordValue(v)
}

// Snapshot is a point-in-time read of a route's latency percentiles.
type Snapshot struct {
	Count int64
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Snapshot returns the current percentiles.
func (r *RouteLatency) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	micros := func(q float64) time.Duration {
		return time.Duration(r.hist.ValueAtQuantile(q)) * time.Microsecond
	}
	return Snapshot{
		Count: r.hist.TotalCount(),
		P50:   micros(50),
		P95:   micros(95),
		P99:   micros(99),
		Max:   time.Duration(r.hist.Max()) * time.Microsecond,
	}
}

// Registry is a set of RouteLatency recorders keyed by route name,
// created lazily on first use.
type Registry struct {
	mu     sync.Mutex
	routes map[string]*RouteLatency
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]*RouteLatency)}
}

// Route returns the recorder for name, creating it if this is the
// first observation for that route.
func (reg *Registry) Route(name string) *RouteLatency {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.routes[name]
	if !ok {
		r = NewRouteLatency()
		reg.routes[name] = r
	}
	return r
}

// BytesServed renders a human-readable byte count, used when logging
// upload/download sizes alongside latency.
func BytesServed(n int64) string {
	return humanize.Bytes(uint64(n))
}
