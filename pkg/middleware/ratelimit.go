// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package middleware

import (
	"context"
	"io"

	"golang.org/x/time/rate"

	"github.com/objsweep/go-objsweep/pkg/common"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the number of backend calls allowed per second.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// DefaultRateLimitConfig returns a rate limit config with sensible defaults.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

// RateLimitedStorage wraps a storage backend and throttles every call
// through a token bucket. Waiting respects the call's context.
type RateLimitedStorage struct {
	inner   common.Storage
	limiter *rate.Limiter
}

// NewRateLimitedStorage creates a throttling decorator around inner.
func NewRateLimitedStorage(inner common.Storage, config *RateLimitConfig) *RateLimitedStorage {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	return &RateLimitedStorage{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

func (r *RateLimitedStorage) Configure(settings map[string]string) error {
	return r.inner.Configure(settings)
}

func (r *RateLimitedStorage) GetObject(ctx context.Context, key string) (*common.Object, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.GetObject(ctx, key)
}

func (r *RateLimitedStorage) GetMetadata(ctx context.Context, key string) (*common.Metadata, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.GetMetadata(ctx, key)
}

func (r *RateLimitedStorage) PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *common.Metadata) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.PutWithMetadata(ctx, key, data, metadata)
}

func (r *RateLimitedStorage) UpdateMetadata(ctx context.Context, key string, metadata *common.Metadata) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.UpdateMetadata(ctx, key, metadata)
}

func (r *RateLimitedStorage) DeleteWithContext(ctx context.Context, key string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.DeleteWithContext(ctx, key)
}

func (r *RateLimitedStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return false, err
	}
	return r.inner.Exists(ctx, key)
}

func (r *RateLimitedStorage) ListWithOptions(ctx context.Context, opts *common.ListOptions) (*common.ListResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.ListWithOptions(ctx, opts)
}
