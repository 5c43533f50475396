// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

/*
Package blob provides the object-storage collaborator for payment-proof files.

It wraps a MinIO client pointed at an S3-compatible endpoint (Cloudflare R2 in
production). The core never overwrites: every upload gets a fresh unique key,
so Put is collision-free by construction.
*/
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is an S3-compatible object store scoped to one bucket.
type Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// Options configures a [Store].
type Options struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

// NewStore connects to the object-storage endpoint and verifies the bucket exists.
func NewStore(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: failed to create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("blob: bucket check failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("blob: bucket %q does not exist", opts.Bucket)
	}

	logger.Info("blob store connected",
		slog.String("endpoint", opts.Endpoint),
		slog.String("bucket", opts.Bucket),
	)

	return &Store{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}, nil
}

// Put uploads an object and returns its public URL.
//
// The caller owns the deadline: pass a context bounded by the upload timeout.
func (store *Store) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := store.client.PutObject(ctx, store.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("blob: put %q failed: %w", key, err)
	}

	return store.URL(key), nil
}

// Remove deletes an object. Removing a missing object is not an error.
func (store *Store) Remove(ctx context.Context, key string) error {
	if err := store.client.RemoveObject(ctx, store.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("blob: remove %q failed: %w", key, err)
	}
	return nil
}

// Healthy reports whether the bucket is still reachable. Used by the
// readiness probe.
func (store *Store) Healthy(ctx context.Context) error {
	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		return fmt.Errorf("blob: bucket check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("blob: bucket %q does not exist", store.bucket)
	}
	return nil
}

// URL composes the public URL for a stored object key.
func (store *Store) URL(key string) string {
	if store.publicBaseURL != "" {
		return store.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", store.client.EndpointURL().String(), store.bucket, key)
}
