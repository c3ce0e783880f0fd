// Copyright 2025 Luminai Systems
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


// Package minio implements blob.Store against S3-compatible object storage.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/luminai/askdocs/blob"
)

// Config holds connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("blob config: Endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("blob config: Bucket is required")
	}
	return nil
}

// Store implements blob.Store on top of an S3-compatible object store.
type Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

var _ blob.Store = (*Store)(nil)

// NewStore connects to the object store and ensures the bucket exists.
//
// Returns blob.Store interface to enforce abstraction.
func NewStore(ctx context.Context, config *Config) (blob.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{Region: config.Region}); err != nil {
			return nil, fmt.Errorf("creating bucket: %w", err)
		}
	}

	return &Store{
		client: client,
		bucket: config.Bucket,
		logger: slog.Default().With("component", "blob-minio"),
	}, nil
}

// Download fetches the object to a local temporary file and returns its path.
func (s *Store) Download(ctx context.Context, key string) (string, error) {
	tmp, err := os.CreateTemp("", "askdocs-blob-*")
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	tmp.Close()

	if err := s.client.FGetObject(ctx, s.bucket, key, path, minio.GetObjectOptions{}); err != nil {
		os.Remove(path)
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return "", fmt.Errorf("%w: %s", blob.ErrNotFound, key)
		}
		return "", fmt.Errorf("downloading %s: %w", key, err)
	}

	s.logger.Debug("downloaded object", "key", key, "path", path)
	return path, nil
}

// Upload stores the object under the given key.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	s.logger.Debug("uploaded object", "key", key, "size", size)
	return nil
}

// Presign returns a time-limited URL granting read access to the object.
func (s *Store) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", key, err)
	}
	return u.String(), nil
}
