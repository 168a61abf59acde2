// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
	"github.com/objsweep/go-objsweep/pkg/factory"
	"github.com/objsweep/go-objsweep/pkg/middleware"
	"github.com/objsweep/go-objsweep/pkg/reconcile"
)

// Runner builds and executes a reconciliation run from a CLI config.
type Runner struct {
	config *Config
	mode   reconcile.Mode
	logger adapters.Logger
}

// NewRunner validates the configuration for the given mode and prepares
// a runner.
func NewRunner(cfg *Config, mode reconcile.Mode) (*Runner, error) {
	if err := ValidateConfig(cfg, mode); err != nil {
		return nil, err
	}
	logger := adapters.NewZerologLogger(os.Stderr, parseLogLevel(cfg.LogLevel))
	return &Runner{config: cfg, mode: mode, logger: logger}, nil
}

// ValidateConfig checks the configuration against the requirements of a
// run mode.
func ValidateConfig(cfg *Config, mode reconcile.Mode) error {
	if cfg.ThresholdSeconds < 0 {
		return ErrNegativeThreshold
	}
	if cfg.SourceBucket == "" {
		return ErrSourceBucketRequired
	}
	if mode != reconcile.ModeDelete && cfg.TargetBucket == "" {
		return ErrTargetBucketRequired
	}
	switch cfg.OutputFormat {
	case "", "text", "json":
	default:
		return ErrInvalidOutputFormat
	}
	return nil
}

// Run executes the reconciliation and writes the summary to stdout.
func (r *Runner) Run(ctx context.Context) (*reconcile.RunSummary, error) {
	source, err := r.buildStorage(r.config.SourceBackend, r.config.SourceSettings())
	if err != nil {
		return nil, fmt.Errorf("building source backend: %w", err)
	}

	var target common.Storage
	if r.mode != reconcile.ModeDelete {
		target, err = r.buildStorage(r.config.TargetBackend, r.config.TargetSettings())
		if err != nil {
			return nil, fmt.Errorf("building target backend: %w", err)
		}
	}

	opts := reconcile.Options{
		Mode:           r.mode,
		Source:         common.NewFolderScope(r.config.SourceBucket, r.config.SourceFolder),
		Target:         common.NewFolderScope(r.config.TargetBucket, r.config.TargetFolder),
		MaxAge:         time.Duration(r.config.ThresholdSeconds) * time.Second,
		CopyIfModified: r.config.CopyIfModified,
		DryRun:         r.config.DryRun,
		PageSize:       r.config.PageSize,
		Workers:        r.config.Workers,
		Logger:         r.logger,
	}

	reconciler, err := reconcile.New(source, target, opts)
	if err != nil {
		return nil, err
	}

	summary, err := reconciler.Run(ctx)
	if summary != nil {
		fmt.Println(FormatSummary(summary, OutputFormat(r.config.OutputFormat)))
	}
	return summary, err
}

// buildStorage creates a backend via the factory and layers on the retry
// and rate limit decorators the config asks for.
func (r *Runner) buildStorage(backendType string, settings map[string]string) (common.Storage, error) {
	storage, err := factory.NewStorage(backendType, settings)
	if err != nil {
		return nil, err
	}

	if r.config.RetryAttempts > 1 {
		retryConfig := middleware.DefaultRetryConfig()
		retryConfig.MaxAttempts = r.config.RetryAttempts
		storage = middleware.NewRetryStorage(storage, retryConfig, r.logger)
	}
	if r.config.RequestsPerSec > 0 {
		limitConfig := &middleware.RateLimitConfig{
			RequestsPerSecond: r.config.RequestsPerSec,
			Burst:             r.config.RequestBurst,
		}
		if limitConfig.Burst <= 0 {
			limitConfig.Burst = int(limitConfig.RequestsPerSecond)
			if limitConfig.Burst < 1 {
				limitConfig.Burst = 1
			}
		}
		storage = middleware.NewRateLimitedStorage(storage, limitConfig)
	}
	return storage, nil
}

func parseLogLevel(level string) adapters.LogLevel {
	switch level {
	case "debug":
		return adapters.DebugLevel
	case "warn":
		return adapters.WarnLevel
	case "error":
		return adapters.ErrorLevel
	default:
		return adapters.InfoLevel
	}
}
