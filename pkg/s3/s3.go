// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package s3 provides an AWS S3 implementation of the storage interface
// using the AWS SDK v2. It also works against S3-compatible services via
// the endpoint setting, which switches the client to path-style
// addressing.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/objsweep/go-objsweep/pkg/common"
)

const defaultTimeout = 30 * time.Second

// S3 is a storage backend for AWS S3 and S3-compatible services.
type S3 struct {
	client *awss3.Client
	bucket string
}

// New creates a new S3 storage backend.
func New() *S3 {
	return &S3{}
}

// Configure sets up the backend with the necessary settings.
// Required settings:
//   - bucket: the S3 bucket name
//
// Optional settings:
//   - region: AWS region (defaults to "us-east-1")
//   - endpoint: custom endpoint for S3-compatible services; forces
//     path-style addressing
//   - accessKey / secretKey: static credentials; when absent the SDK's
//     default chain (env vars, shared config, instance roles) applies
//   - timeoutSeconds: HTTP client timeout covering connect and socket
//     (defaults to 30)
func (s *S3) Configure(settings map[string]string) error {
	s.bucket = settings["bucket"]
	if s.bucket == "" {
		return common.ErrBucketNotSet
	}

	region := settings["region"]
	if region == "" {
		region = "us-east-1"
	}

	accessKey := settings["accessKey"]
	secretKey := settings["secretKey"]
	if accessKey != "" && secretKey == "" {
		return common.ErrSecretKeyNotSet
	}
	if secretKey != "" && accessKey == "" {
		return common.ErrAccessKeyNotSet
	}

	timeout := defaultTimeout
	if raw := settings["timeoutSeconds"]; raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid timeoutSeconds: %q", raw)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if accessKey != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	endpoint := settings["endpoint"]
	s.client = awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return nil
}

// GetObject retrieves an object's body together with its metadata.
func (s *S3) GetObject(ctx context.Context, key string) (*common.Object, error) {
	if err := s.ready(key); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.wrapError("get", key, err)
	}

	size := common.SizeUnknown
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return &common.Object{
		Body: out.Body,
		Metadata: &common.Metadata{
			ContentType:  aws.ToString(out.ContentType),
			Size:         size,
			LastModified: aws.ToTime(out.LastModified),
			ETag:         trimETag(aws.ToString(out.ETag)),
			Custom:       out.Metadata,
		},
	}, nil
}

// GetMetadata retrieves only the metadata for an object via HeadObject.
func (s *S3) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	if err := s.ready(key); err != nil {
		return nil, err
	}

	out, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.wrapError("head", key, err)
	}

	return &common.Metadata{
		ContentType:  aws.ToString(out.ContentType),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
		ETag:         trimETag(aws.ToString(out.ETag)),
		Custom:       out.Metadata,
	}, nil
}

// PutWithMetadata stores an object with associated metadata. An
// undeclared length is buffered before the call: the SDK needs the
// content length up front to sign the request body.
func (s *S3) PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *common.Metadata) error {
	if err := s.ready(key); err != nil {
		return err
	}

	input := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   data,
	}

	size := common.SizeUnknown
	if metadata != nil {
		size = metadata.Size
		if metadata.ContentType != "" {
			input.ContentType = aws.String(metadata.ContentType)
		}
		if len(metadata.Custom) > 0 {
			input.Metadata = metadata.Custom
		}
	}
	if size < 0 {
		buffered, err := io.ReadAll(data)
		if err != nil {
			return fmt.Errorf("buffering body for %s: %w", key, err)
		}
		input.Body = bytes.NewReader(buffered)
		size = int64(len(buffered))
	}
	input.ContentLength = aws.Int64(size)

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return s.wrapError("put", key, err)
	}
	return nil
}

// UpdateMetadata replaces the metadata on an existing object using an
// in-place CopyObject with the REPLACE metadata directive. The payload is
// not rewritten.
func (s *S3) UpdateMetadata(ctx context.Context, key string, metadata *common.Metadata) error {
	if err := s.ready(key); err != nil {
		return err
	}

	input := &awss3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(s.bucket + "/" + encodeKey(key)),
		MetadataDirective: types.MetadataDirectiveReplace,
	}
	if metadata != nil {
		if len(metadata.Custom) > 0 {
			input.Metadata = metadata.Custom
		}
		if metadata.ContentType != "" {
			input.ContentType = aws.String(metadata.ContentType)
		}
	}

	if _, err := s.client.CopyObject(ctx, input); err != nil {
		return s.wrapError("copy-in-place", key, err)
	}
	return nil
}

// DeleteWithContext removes an object from the backend.
func (s *S3) DeleteWithContext(ctx context.Context, key string) error {
	if err := s.ready(key); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.wrapError("delete", key, err)
	}
	return nil
}

// Exists checks if an object exists in the backend.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.GetMetadata(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListWithOptions returns one page of objects using ListObjectsV2 with
// continuation tokens.
func (s *S3) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	if s.client == nil {
		return nil, common.ErrNotConfigured
	}
	if opts == nil {
		opts = &common.ListOptions{}
	}

	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(opts.Prefix),
	}
	if opts.MaxResults > 0 {
		input.MaxKeys = aws.Int32(int32(opts.MaxResults))
	}
	if opts.ContinueFrom != "" {
		input.ContinuationToken = aws.String(opts.ContinueFrom)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s: %w", s.bucket, opts.Prefix, err)
	}

	result := &common.ListResult{
		NextToken: aws.ToString(out.NextContinuationToken),
		Truncated: aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		result.Objects = append(result.Objects, &common.ObjectInfo{
			Key: aws.ToString(obj.Key),
			Metadata: &common.Metadata{
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         trimETag(aws.ToString(obj.ETag)),
			},
		})
	}
	return result, nil
}

func (s *S3) ready(key string) error {
	if s.client == nil {
		return common.ErrNotConfigured
	}
	return common.ValidateKey(key)
}

// wrapError maps the service's not-found signals onto ErrKeyNotFound and
// annotates everything else with the operation and key.
func (s *S3) wrapError(op, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", common.ErrKeyNotFound, key)
	}
	return fmt.Errorf("%s %s/%s: %w", op, s.bucket, key, err)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}

// trimETag strips the quotes S3 wraps around entity tags.
func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}

// encodeKey escapes each key segment for use in a CopySource header while
// preserving the separators.
func encodeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
