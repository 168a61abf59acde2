// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package miniostore provides a storage backend built on the MinIO Go
// client. It targets MinIO deployments and any S3-compatible endpoint
// reachable with path-style requests, Ceph RGW included.
package miniostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/objsweep/go-objsweep/pkg/common"
)

const defaultTimeout = 30 * time.Second

// MinioStore is a storage backend backed by a MinIO core client.
type MinioStore struct {
	core   *minio.Core
	bucket string
}

// New creates a new MinIO storage backend.
func New() *MinioStore {
	return &MinioStore{}
}

// Configure sets up the backend with the necessary settings.
// Required settings:
//   - bucket: the bucket name
//   - endpoint: host:port of the service, without scheme
//
// Optional settings:
//   - accessKey / secretKey: static credentials
//   - useSSL: "true" to connect over TLS (defaults to false)
//   - region: bucket region hint passed to the client
//   - timeoutSeconds: dial and response header timeout (defaults to 30)
func (m *MinioStore) Configure(settings map[string]string) error {
	m.bucket = settings["bucket"]
	if m.bucket == "" {
		return common.ErrBucketNotSet
	}
	endpoint := settings["endpoint"]
	if endpoint == "" {
		return common.ErrEndpointNotSet
	}

	accessKey := settings["accessKey"]
	secretKey := settings["secretKey"]
	if accessKey != "" && secretKey == "" {
		return common.ErrSecretKeyNotSet
	}
	if secretKey != "" && accessKey == "" {
		return common.ErrAccessKeyNotSet
	}

	useSSL := false
	if raw := settings["useSSL"]; raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid useSSL: %q", raw)
		}
		useSSL = parsed
	}

	timeout := defaultTimeout
	if raw := settings["timeoutSeconds"]; raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid timeoutSeconds: %q", raw)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	opts := &minio.Options{
		Secure: useSSL,
		Region: settings["region"],
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			ResponseHeaderTimeout: timeout,
			TLSHandshakeTimeout:   timeout,
		},
	}
	if accessKey != "" {
		opts.Creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}

	core, err := minio.NewCore(endpoint, opts)
	if err != nil {
		return fmt.Errorf("creating minio client: %w", err)
	}
	m.core = core
	return nil
}

// GetObject retrieves an object's body together with its metadata.
func (m *MinioStore) GetObject(ctx context.Context, key string) (*common.Object, error) {
	if err := m.ready(key); err != nil {
		return nil, err
	}

	body, info, _, err := m.core.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.wrapError("get", key, err)
	}
	return &common.Object{
		Body:     body,
		Metadata: toMetadata(info),
	}, nil
}

// GetMetadata retrieves only the metadata for an object.
func (m *MinioStore) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	if err := m.ready(key); err != nil {
		return nil, err
	}

	info, err := m.core.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, m.wrapError("stat", key, err)
	}
	return toMetadata(info), nil
}

// PutWithMetadata stores an object with associated metadata. The MinIO
// client accepts an undeclared length and streams the body in parts.
func (m *MinioStore) PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *common.Metadata) error {
	if err := m.ready(key); err != nil {
		return err
	}

	size := common.SizeUnknown
	opts := minio.PutObjectOptions{}
	if metadata != nil {
		size = metadata.Size
		opts.ContentType = metadata.ContentType
		opts.UserMetadata = metadata.Custom
	}

	client := m.core.Client
	if _, err := client.PutObject(ctx, m.bucket, key, data, size, opts); err != nil {
		return m.wrapError("put", key, err)
	}
	return nil
}

// UpdateMetadata replaces the metadata on an existing object with a
// server-side self copy. The payload is not rewritten.
func (m *MinioStore) UpdateMetadata(ctx context.Context, key string, metadata *common.Metadata) error {
	if err := m.ready(key); err != nil {
		return err
	}

	dst := minio.CopyDestOptions{
		Bucket:          m.bucket,
		Object:          key,
		ReplaceMetadata: true,
	}
	if metadata != nil {
		dst.UserMetadata = metadata.Custom
	}
	src := minio.CopySrcOptions{
		Bucket: m.bucket,
		Object: key,
	}

	client := m.core.Client
	if _, err := client.CopyObject(ctx, dst, src); err != nil {
		return m.wrapError("copy-in-place", key, err)
	}
	return nil
}

// DeleteWithContext removes an object from the backend.
func (m *MinioStore) DeleteWithContext(ctx context.Context, key string) error {
	if err := m.ready(key); err != nil {
		return err
	}

	client := m.core.Client
	if err := client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return m.wrapError("delete", key, err)
	}
	return nil
}

// Exists checks if an object exists in the backend.
func (m *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.GetMetadata(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListWithOptions returns one page of objects using the V2 listing API
// with continuation tokens.
func (m *MinioStore) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	if m.core == nil {
		return nil, common.ErrNotConfigured
	}
	if opts == nil {
		opts = &common.ListOptions{}
	}

	page, err := m.core.ListObjectsV2(m.bucket, opts.Prefix, "", opts.ContinueFrom, "", opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s: %w", m.bucket, opts.Prefix, err)
	}

	result := &common.ListResult{
		NextToken: page.NextContinuationToken,
		Truncated: page.IsTruncated,
	}
	for _, obj := range page.Contents {
		result.Objects = append(result.Objects, &common.ObjectInfo{
			Key: obj.Key,
			Metadata: &common.Metadata{
				Size:         obj.Size,
				LastModified: obj.LastModified,
				ETag:         strings.Trim(obj.ETag, `"`),
			},
		})
	}
	return result, nil
}

func (m *MinioStore) ready(key string) error {
	if m.core == nil {
		return common.ErrNotConfigured
	}
	return common.ValidateKey(key)
}

func (m *MinioStore) wrapError(op, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}
	return fmt.Errorf("%s %s/%s: %w", op, m.bucket, key, err)
}

func toMetadata(info minio.ObjectInfo) *common.Metadata {
	return &common.Metadata{
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
		ETag:         strings.Trim(info.ETag, `"`),
		Custom:       map[string]string(info.UserMetadata),
	}
}
