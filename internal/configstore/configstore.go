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

// Package configstore is the durable registry of dataset
// configurations, keyed by dataset name. The daemon consults it once
// at startup to learn which datasets exist and how to build their
// storage backends, and writes to it whenever a dataset is registered
// or removed.
package configstore

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/iterum-io/iterum-daemon/internal/model"
)

var datasetsBucket = []byte("datasets")

// ErrNotFound is returned by Get when no configuration is registered
// under the given name.
var ErrNotFound = errors.New("configstore: dataset not registered")

// ErrAlreadyExists is returned by Put when a configuration already
// exists under the given name and overwrite was not requested.
var ErrAlreadyExists = errors.New("configstore: dataset already registered")

// Store is a boltdb-backed key/value registry of model.DatasetConfig,
// one row per dataset name.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the boltdb file at path and ensures
// the datasets bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "configstore: open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(datasetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "configstore: init bucket")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying boltdb file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put registers cfg under cfg.Name. It fails with ErrAlreadyExists if
// a configuration is already registered under that name, matching the
// version-control engine's reject-on-duplicate discipline.
func (s *Store) Put(cfg model.DatasetConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "configstore: marshal")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(datasetsBucket)
		if b.Get([]byte(cfg.Name)) != nil {
			return ErrAlreadyExists
		}
		return b.Put([]byte(cfg.Name), raw)
	})
}

// Get returns the configuration registered under name.
func (s *Store) Get(name string) (model.DatasetConfig, error) {
	var cfg model.DatasetConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(datasetsBucket).Get([]byte(name))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &cfg)
	})
	if err != nil {
		return model.DatasetConfig{}, err
	}
	return cfg, nil
}

// Remove deletes the configuration registered under name. It is not
// an error to remove a name that was never registered.
func (s *Store) Remove(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetsBucket).Delete([]byte(name))
	})
}

// List returns every registered configuration, in no particular
// order, for use during startup warm-up.
func (s *Store) List() ([]model.DatasetConfig, error) {
	var configs []model.DatasetConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetsBucket).ForEach(func(_, raw []byte) error {
			var cfg model.DatasetConfig
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return err
			}
			configs = append(configs, cfg)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}
