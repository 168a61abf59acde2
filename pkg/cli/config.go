// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

// Package cli wires configuration, storage construction, and run
// execution for the objsweep command.
package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration settings.
type Config struct {
	SourceBackend  string
	SourceBucket   string
	SourceFolder   string
	SourceEndpoint string
	SourceRegion   string
	SourceKey      string
	SourceSecret   string
	SourceUseSSL   bool

	TargetBackend  string
	TargetBucket   string
	TargetFolder   string
	TargetEndpoint string
	TargetRegion   string
	TargetKey      string
	TargetSecret   string
	TargetUseSSL   bool

	ThresholdSeconds int64
	CopyIfModified   bool
	DryRun           bool
	PageSize         int
	Workers          int

	RetryAttempts  int
	RequestsPerSec float64
	RequestBurst   int
	TimeoutSeconds int

	OutputFormat string
	LogLevel     string
}

// InitConfig initializes the configuration using Viper.
// Configuration priority: flags > env vars > config file > defaults.
func InitConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("source-backend", "s3")
	v.SetDefault("target-backend", "s3")
	v.SetDefault("threshold-seconds", 0)
	v.SetDefault("page-size", 1000)
	v.SetDefault("workers", 1)
	v.SetDefault("retry-attempts", 3)
	v.SetDefault("requests-per-second", 0)
	v.SetDefault("request-burst", 0)
	v.SetDefault("timeout-seconds", 30)
	v.SetDefault("output-format", "text")
	v.SetDefault("log-level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".objsweep")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("OBJSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, everything has defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return v, nil
}

// GetConfig extracts the configuration from Viper into a Config struct.
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		SourceBackend:  v.GetString("source-backend"),
		SourceBucket:   v.GetString("source-bucket"),
		SourceFolder:   v.GetString("source-folder"),
		SourceEndpoint: v.GetString("source-endpoint"),
		SourceRegion:   v.GetString("source-region"),
		SourceKey:      v.GetString("source-access-key"),
		SourceSecret:   v.GetString("source-secret-key"),
		SourceUseSSL:   v.GetBool("source-use-ssl"),

		TargetBackend:  v.GetString("target-backend"),
		TargetBucket:   v.GetString("target-bucket"),
		TargetFolder:   v.GetString("target-folder"),
		TargetEndpoint: v.GetString("target-endpoint"),
		TargetRegion:   v.GetString("target-region"),
		TargetKey:      v.GetString("target-access-key"),
		TargetSecret:   v.GetString("target-secret-key"),
		TargetUseSSL:   v.GetBool("target-use-ssl"),

		ThresholdSeconds: v.GetInt64("threshold-seconds"),
		CopyIfModified:   v.GetBool("copy-if-modified"),
		DryRun:           v.GetBool("dry-run"),
		PageSize:         v.GetInt("page-size"),
		Workers:          v.GetInt("workers"),

		RetryAttempts:  v.GetInt("retry-attempts"),
		RequestsPerSec: v.GetFloat64("requests-per-second"),
		RequestBurst:   v.GetInt("request-burst"),
		TimeoutSeconds: v.GetInt("timeout-seconds"),

		OutputFormat: v.GetString("output-format"),
		LogLevel:     v.GetString("log-level"),
	}
}

// SourceSettings converts the source half of the config to a storage
// settings map.
func (c *Config) SourceSettings() map[string]string {
	return backendSettings(c.SourceBucket, c.SourceEndpoint, c.SourceRegion,
		c.SourceKey, c.SourceSecret, c.SourceUseSSL, c.TimeoutSeconds)
}

// TargetSettings converts the target half of the config to a storage
// settings map.
func (c *Config) TargetSettings() map[string]string {
	return backendSettings(c.TargetBucket, c.TargetEndpoint, c.TargetRegion,
		c.TargetKey, c.TargetSecret, c.TargetUseSSL, c.TimeoutSeconds)
}

func backendSettings(bucket, endpoint, region, key, secret string, useSSL bool, timeoutSeconds int) map[string]string {
	settings := make(map[string]string)
	if bucket != "" {
		settings["bucket"] = bucket
	}
	if endpoint != "" {
		settings["endpoint"] = endpoint
	}
	if region != "" {
		settings["region"] = region
	}
	if key != "" {
		settings["accessKey"] = key
	}
	if secret != "" {
		settings["secretKey"] = secret
	}
	if useSSL {
		settings["useSSL"] = "true"
	}
	if timeoutSeconds > 0 {
		settings["timeoutSeconds"] = strconv.Itoa(timeoutSeconds)
	}
	return settings
}
