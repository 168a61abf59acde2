// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objsweep/go-objsweep/pkg/reconcile"
)

func TestInitConfigDefaults(t *testing.T) {
	v, err := InitConfig("")
	require.NoError(t, err)

	cfg := GetConfig(v)
	assert.Equal(t, "s3", cfg.SourceBackend)
	assert.Equal(t, "s3", cfg.TargetBackend)
	assert.Equal(t, int64(0), cfg.ThresholdSeconds)
	assert.Equal(t, 1000, cfg.PageSize)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DryRun)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("OBJSWEEP_SOURCE_BUCKET", "env-bucket")

	v, err := InitConfig("")
	require.NoError(t, err)

	cfg := GetConfig(v)
	assert.Equal(t, "env-bucket", cfg.SourceBucket)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			SourceBucket: "src",
			TargetBucket: "dst",
			OutputFormat: "text",
		}
	}

	assert.NoError(t, ValidateConfig(base(), reconcile.ModeDelete))
	assert.NoError(t, ValidateConfig(base(), reconcile.ModeCopy))

	cfg := base()
	cfg.SourceBucket = ""
	assert.ErrorIs(t, ValidateConfig(cfg, reconcile.ModeDelete), ErrSourceBucketRequired)

	cfg = base()
	cfg.TargetBucket = ""
	assert.NoError(t, ValidateConfig(cfg, reconcile.ModeDelete), "delete mode needs no target")
	assert.ErrorIs(t, ValidateConfig(cfg, reconcile.ModeCopy), ErrTargetBucketRequired)
	assert.ErrorIs(t, ValidateConfig(cfg, reconcile.ModeSyncMetadata), ErrTargetBucketRequired)

	cfg = base()
	cfg.ThresholdSeconds = -1
	assert.ErrorIs(t, ValidateConfig(cfg, reconcile.ModeDelete), ErrNegativeThreshold)

	cfg = base()
	cfg.OutputFormat = "xml"
	assert.ErrorIs(t, ValidateConfig(cfg, reconcile.ModeDelete), ErrInvalidOutputFormat)
}

func TestBackendSettings(t *testing.T) {
	cfg := &Config{
		SourceBucket:   "src-bucket",
		SourceEndpoint: "ceph.internal:7480",
		SourceKey:      "AKIA",
		SourceSecret:   "secret",
		SourceUseSSL:   true,
		TimeoutSeconds: 45,

		TargetBucket: "dst-bucket",
	}

	source := cfg.SourceSettings()
	assert.Equal(t, "src-bucket", source["bucket"])
	assert.Equal(t, "ceph.internal:7480", source["endpoint"])
	assert.Equal(t, "AKIA", source["accessKey"])
	assert.Equal(t, "secret", source["secretKey"])
	assert.Equal(t, "true", source["useSSL"])
	assert.Equal(t, "45", source["timeoutSeconds"])

	target := cfg.TargetSettings()
	assert.Equal(t, "dst-bucket", target["bucket"])
	_, hasEndpoint := target["endpoint"]
	assert.False(t, hasEndpoint, "empty settings must be omitted")
}
