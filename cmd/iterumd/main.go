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

// Command iterumd runs the Iterum dataset-versioning daemon: it reads
// its config store, warms the in-memory dataset cache from the
// configured backends, and serves the HTTP surface of internal/httpapi.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iterum-io/iterum-daemon/internal/cache"
	"github.com/iterum-io/iterum-daemon/internal/config"
	"github.com/iterum-io/iterum-daemon/internal/configstore"
	"github.com/iterum-io/iterum-daemon/internal/httpapi"
	"github.com/iterum-io/iterum-daemon/internal/staging"
	"github.com/iterum-io/iterum-daemon/internal/storage"
	"github.com/iterum-io/iterum-daemon/internal/vc"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("iterumd exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	store, err := configstore.Open(cfg.LocalConfigPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stagingArea, err := staging.NewArea(cfg.StagingRoot)
	if err != nil {
		return err
	}

	datasetCache := cache.New()
	server := httpapi.New(datasetCache, store, stagingArea, log)

	if err := warmCache(datasetCache, store, log); err != nil {
		log.Warn("dataset warm-up did not fully complete", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("iterumd listening", zap.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// warmCache populates the cache with every dataset named in the
// config store, loading each concurrently with retry (internal/cache.Warm).
func warmCache(c *cache.DatasetCache, store *configstore.Store, log *zap.Logger) error {
	configs, err := store.List()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(configs))
	backends := make(map[string]storage.Backend, len(configs))
	for _, cfg := range configs {
		backend, err := storage.New(cfg)
		if err != nil {
			log.Warn("skipping dataset with unbuildable backend", zap.String("dataset", cfg.Name), zap.Error(err))
			continue
		}
		backends[cfg.Name] = backend
		names = append(names, cfg.Name)
	}

	return c.Warm(context.Background(), names, func(ctx context.Context, name string) (*vc.Dataset, error) {
		return backends[name].ReadDataset(ctx, name)
	}, log)
}
