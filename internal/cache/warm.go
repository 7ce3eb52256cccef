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

package cache

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Warm loads every name in names concurrently via load, retrying each
// individual load with an exponential backoff (transient storage
// hiccups, e.g. a not-yet-mounted network volume, shouldn't fail the
// whole startup). It returns the first load error that persists past
// retry, after which the remaining in-flight loads are cancelled.
func (c *DatasetCache) Warm(ctx context.Context, names []string, load Loader, log *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			return c.warmOne(ctx, name, load, log)
		})
	}
	return g.Wait()
}

func (c *DatasetCache) warmOne(ctx context.Context, name string, load Loader, log *zap.Logger) error {
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		d, loadErr := load(ctx, name)
		if loadErr != nil {
			if log != nil {
				log.Warn("dataset warm-up attempt failed", zap.String("dataset", name), zap.Int("attempt", attempt), zap.Error(loadErr))
			}
			return loadErr
		}
		c.Install(name, d)
		return nil
	}, bo)
	if err != nil && log != nil {
		log.Error("dataset warm-up failed permanently", zap.String("dataset", name), zap.Error(err))
	}
	return err
}
