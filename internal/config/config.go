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

// Package config resolves the daemon's environment-supplied
// bootstrap settings: where to listen, and where the dataset registry
// and staging scratch space live on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the set of values the daemon needs before it can open its
// config store or bind its listener.
type Config struct {
	Host            string
	Port            string
	LocalConfigPath string
	StagingRoot     string
}

// FromEnv reads HOST, PORT, LOCAL_CONFIG_PATH and the optional
// STAGING_ROOT from the process environment. HOST, PORT and
// LOCAL_CONFIG_PATH are required; STAGING_ROOT defaults to a
// "staging" subdirectory next to the config store.
func FromEnv() (Config, error) {
	cfg := Config{
		Host:            os.Getenv("HOST"),
		Port:            os.Getenv("PORT"),
		LocalConfigPath: os.Getenv("LOCAL_CONFIG_PATH"),
		StagingRoot:     os.Getenv("STAGING_ROOT"),
	}
	if cfg.Host == "" {
		return Config{}, fmt.Errorf("config: HOST is required")
	}
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("config: PORT is required")
	}
	if cfg.LocalConfigPath == "" {
		return Config{}, fmt.Errorf("config: LOCAL_CONFIG_PATH is required")
	}
	if cfg.StagingRoot == "" {
		cfg.StagingRoot = filepath.Join(filepath.Dir(cfg.LocalConfigPath), "staging")
	}
	return cfg, nil
}

// Addr is the host:port string to pass to http.Server.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
