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

// Package cache holds the process-wide, in-memory map of live
// datasets. Every request-handling goroutine reads or installs
// through this single structure; it is the one piece of shared
// mutable state the daemon has, so every other layer is built to keep
// its critical sections short.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/iterum-io/iterum-daemon/internal/vc"
)

// ErrNotFound is returned by Update when name has no cached dataset.
var ErrNotFound = errors.New("cache: dataset not registered")

// DatasetCache is a concurrency-safe map[name]*vc.Dataset. Writers
// install a new *vc.Dataset only after the corresponding storage
// write has already landed, so a reader never observes an in-memory
// state that doesn't yet exist on durable storage.
type DatasetCache struct {
	mu       sync.RWMutex
	datasets map[string]*vc.Dataset
}

// New returns an empty cache.
func New() *DatasetCache {
	return &DatasetCache{datasets: make(map[string]*vc.Dataset)}
}

// Get returns the cached dataset and whether it was present.
func (c *DatasetCache) Get(name string) (*vc.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.datasets[name]
	return d, ok
}

// Install replaces the cached dataset for name. Callers must have
// already persisted dataset to the backend before calling Install;
// the cache never initiates a write of its own.
func (c *DatasetCache) Install(name string, dataset *vc.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[name] = dataset
}

// Update applies fn to the currently cached dataset for name, holding
// the cache's single write lock for the entire call: fn is expected to
// run the version-control transition and persist it through the
// backend before returning, so the durable write and the cache install
// happen as one atomic critical section relative to every other
// reader and writer. Two concurrent writers to the same dataset can
// therefore never both branch from the same snapshot and silently
// discard one another on install.
func (c *DatasetCache) Update(name string, fn func(cur *vc.Dataset) (*vc.Dataset, error)) (*vc.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.datasets[name]
	if !ok {
		return nil, ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	c.datasets[name] = next
	return next, nil
}

// Remove drops name from the cache.
func (c *DatasetCache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.datasets, name)
}

// Names returns every currently cached dataset name.
func (c *DatasetCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	return names
}

// Loader reads the durable state for a single dataset name, used by
// Warm to populate the cache at startup.
type Loader func(ctx context.Context, name string) (*vc.Dataset, error)
