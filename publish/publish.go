// elAlign: a front end for aligning and sorting sequencing reads.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elalign/blob/master/LICENSE.txt>.

// Package publish uploads finished alignment files to an S3-compatible
// object store.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/exascience/elalign/internal"
)

// Config describes the object store and the destination of uploads.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// ConfigFromEnv reads the configuration from the ELALIGN_S3_*
// environment variables and validates it.
func ConfigFromEnv() (Config, error) {
	useSSL, err := internal.EnvBool("ELALIGN_S3_USE_SSL", true)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  internal.EnvString("ELALIGN_S3_ENDPOINT", ""),
		AccessKey: internal.EnvString("ELALIGN_S3_ACCESS_KEY", ""),
		SecretKey: internal.EnvString("ELALIGN_S3_SECRET_KEY", ""),
		Region:    internal.EnvString("ELALIGN_S3_REGION", "us-east-1"),
		UseSSL:    useSSL,
		Bucket:    internal.EnvString("ELALIGN_S3_BUCKET", ""),
		Prefix:    internal.EnvString("ELALIGN_S3_PREFIX", ""),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all required settings are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("object store endpoint is required (ELALIGN_S3_ENDPOINT)")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("object store endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("object store access key is required (ELALIGN_S3_ACCESS_KEY)")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("object store secret key is required (ELALIGN_S3_SECRET_KEY)")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("object store bucket is required (ELALIGN_S3_BUCKET)")
	}
	return nil
}

// ObjectKey returns the key under which the file at filename is stored.
func (c Config) ObjectKey(filename string) string {
	return path.Join(strings.Trim(c.Prefix, "/"), filepath.Base(filename))
}

// NewClient returns a client for the configured object store.
func NewClient(cfg Config) (*minio.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	})
}

func contentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".sam":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Upload stores the file at filename in the configured bucket and
// returns its object key. The bucket must exist.
func Upload(ctx context.Context, client *minio.Client, cfg Config, filename string) (string, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return "", fmt.Errorf("checking bucket %v: %w", cfg.Bucket, err)
	}
	if !exists {
		return "", fmt.Errorf("bucket %v does not exist", cfg.Bucket)
	}
	key := cfg.ObjectKey(filename)
	info, err := client.FPutObject(ctx, cfg.Bucket, key, filename, minio.PutObjectOptions{ContentType: contentType(filename)})
	if err != nil {
		return "", fmt.Errorf("uploading %v: %w", filename, err)
	}
	log.Printf("Uploaded %v to %v/%v (%v bytes).\n", filename, cfg.Bucket, key, info.Size)
	return key, nil
}
