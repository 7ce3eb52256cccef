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

package model

import (
	"encoding/json"
	"fmt"
)

// BackendKind names a storage backend variant. Only BackendLocal is
// implemented; the others are accepted on a DatasetConfig but every
// backend operation against them fails with *storage.NotImplementedError.
type BackendKind string

const (
	BackendLocal       BackendKind = "Local"
	BackendAmazonS3    BackendKind = "AmazonS3"
	BackendGoogleCloud BackendKind = "GoogleCloud"
)

// LocalCredentials is the credential payload for BackendLocal: a
// filesystem root all of the dataset's state is rooted under.
type LocalCredentials struct {
	Path string `json:"path"`
}

// S3Credentials is the credential payload for BackendAmazonS3.
type S3Credentials struct {
	Bucket   string `json:"bucket"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// GCSCredentials is the credential payload for BackendGoogleCloud.
type GCSCredentials struct {
	Bucket          string `json:"bucket"`
	CredentialsFile string `json:"credentials_file,omitempty"`
	ProjectID       string `json:"project_id,omitempty"`
}

// DatasetConfig is the durable, config-store-resident description of
// a dataset: its name, description, and storage backend. It is
// created by POST / and destroyed together with the dataset by
// DELETE /{dataset}. On the wire it is flat:
//
//	{"name": "...", "description": "...", "backend": "Local", "credentials": {...}}
type DatasetConfig struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Backend     BackendKind `json:"-"`
	Local       *LocalCredentials
	S3          *S3Credentials
	GCS         *GCSCredentials
}

type datasetConfigWire struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Backend     BackendKind     `json:"backend"`
	Credentials json.RawMessage `json:"credentials"`
}

// MarshalJSON renders DatasetConfig with its credentials dispatched
// by the "backend" discriminator.
func (d DatasetConfig) MarshalJSON() ([]byte, error) {
	var creds interface{}
	switch d.Backend {
	case BackendLocal:
		creds = d.Local
	case BackendAmazonS3:
		creds = d.S3
	case BackendGoogleCloud:
		creds = d.GCS
	default:
		return nil, fmt.Errorf("model: unknown backend kind %q", d.Backend)
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	return json.Marshal(datasetConfigWire{
		Name:        d.Name,
		Description: d.Description,
		Backend:     d.Backend,
		Credentials: raw,
	})
}

// UnmarshalJSON parses DatasetConfig, dispatching the credentials
// payload by the "backend" discriminator.
func (d *DatasetConfig) UnmarshalJSON(data []byte) error {
	var wire datasetConfigWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.Name = wire.Name
	d.Description = wire.Description
	d.Backend = wire.Backend
	switch wire.Backend {
	case BackendLocal:
		var creds LocalCredentials
		if len(wire.Credentials) > 0 {
			if err := json.Unmarshal(wire.Credentials, &creds); err != nil {
				return err
			}
		}
		d.Local = &creds
	case BackendAmazonS3:
		var creds S3Credentials
		if len(wire.Credentials) > 0 {
			if err := json.Unmarshal(wire.Credentials, &creds); err != nil {
				return err
			}
		}
		d.S3 = &creds
	case BackendGoogleCloud:
		var creds GCSCredentials
		if len(wire.Credentials) > 0 {
			if err := json.Unmarshal(wire.Credentials, &creds); err != nil {
				return err
			}
		}
		d.GCS = &creds
	default:
		return fmt.Errorf("model: unknown backend kind %q", wire.Backend)
	}
	return nil
}
