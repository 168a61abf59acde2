// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package middleware provides storage decorators that add retry and
// rate limiting behavior around any storage backend.
package middleware

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/smithy-go"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, the first included.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns a retry config with sensible defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}

// RetryStorage wraps a storage backend and retries throttling and
// transient service failures with exponential backoff and jitter.
type RetryStorage struct {
	inner  common.Storage
	config *RetryConfig
	logger adapters.Logger
}

// NewRetryStorage creates a retrying decorator around inner.
func NewRetryStorage(inner common.Storage, config *RetryConfig, logger adapters.Logger) *RetryStorage {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &RetryStorage{inner: inner, config: config, logger: logger}
}

func (r *RetryStorage) Configure(settings map[string]string) error {
	return r.inner.Configure(settings)
}

func (r *RetryStorage) GetObject(ctx context.Context, key string) (*common.Object, error) {
	var obj *common.Object
	err := r.do(ctx, "get", key, func() error {
		var err error
		obj, err = r.inner.GetObject(ctx, key)
		return err
	})
	return obj, err
}

func (r *RetryStorage) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	var meta *common.Metadata
	err := r.do(ctx, "head", key, func() error {
		var err error
		meta, err = r.inner.GetMetadata(ctx, key)
		return err
	})
	return meta, err
}

// PutWithMetadata retries only when the body can be rewound. A
// non-seekable stream may already be partially consumed after a failed
// attempt, so it gets a single try.
func (r *RetryStorage) PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *common.Metadata) error {
	seeker, rewindable := data.(io.Seeker)
	if !rewindable {
		return r.inner.PutWithMetadata(ctx, key, data, metadata)
	}
	return r.do(ctx, "put", key, func() error {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return err
		}
		return r.inner.PutWithMetadata(ctx, key, data, metadata)
	})
}

func (r *RetryStorage) UpdateMetadata(ctx context.Context, key string, metadata *common.Metadata) error {
	return r.do(ctx, "update-metadata", key, func() error {
		return r.inner.UpdateMetadata(ctx, key, metadata)
	})
}

func (r *RetryStorage) DeleteWithContext(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func() error {
		return r.inner.DeleteWithContext(ctx, key)
	})
}

func (r *RetryStorage) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.do(ctx, "exists", key, func() error {
		var err error
		exists, err = r.inner.Exists(ctx, key)
		return err
	})
	return exists, err
}

func (r *RetryStorage) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	var result *common.ListResult
	err := r.do(ctx, "list", "", func() error {
		var err error
		result, err = r.inner.ListWithOptions(ctx, opts)
		return err
	})
	return result, err
}

func (r *RetryStorage) do(ctx context.Context, op, key string, fn func() error) error {
	var lastErr error
	delay := r.config.InitialDelay
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !Retryable(lastErr) {
			return lastErr
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		sleep := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		r.logger.Warn(ctx, "retrying after transient failure",
			adapters.Field{Key: "op", Value: op},
			adapters.Field{Key: "key", Value: key},
			adapters.Field{Key: "attempt", Value: attempt},
			adapters.Field{Key: "delay", Value: sleep.String()},
			adapters.Field{Key: "error", Value: lastErr.Error()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		delay *= 2
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return lastErr
}

// retryableCodes are service error codes worth retrying. Everything
// else, missing keys included, fails immediately.
var retryableCodes = map[string]bool{
	"SlowDown":                               true,
	"Throttling":                             true,
	"ThrottlingException":                    true,
	"RequestTimeout":                         true,
	"InternalError":                          true,
	"ServiceUnavailable":                     true,
	"503":                                    true,
	"RequestLimitExceeded":                   true,
	"ProvisionedThroughputExceededException": true,
}

// Retryable reports whether err looks like a transient service failure.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrKeyNotFound) ||
		errors.Is(err, common.ErrNotConfigured) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.ErrorCode()]
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"slowdown", "slow down", "timeout", "connection reset", "service unavailable", "too many requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
