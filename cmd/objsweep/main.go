// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/objsweep/go-objsweep/pkg/cli"
	"github.com/objsweep/go-objsweep/pkg/reconcile"
)

var (
	cfgFile      string
	viperConfig  *viper.Viper
	globalConfig *cli.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "objsweep",
	Short: "Age-based maintenance for S3-compatible object folders",
	Long: `objsweep walks a bucket folder page by page and applies an age-based
maintenance action to each object.

Commands:
  clean          delete objects last modified before the age threshold
  copy           copy objects last modified after the threshold to a
                 target folder, skipping unchanged objects
  sync-metadata  refresh target metadata in place without moving payloads

Supported Storage Backends:
  - s3     : AWS S3 and S3-compatible services via the AWS SDK
  - minio  : MinIO and Ceph RGW via the MinIO client
  - memory : In-memory backend for testing

Configuration can be provided via:
  - Command-line flags (highest priority)
  - Environment variables (OBJSWEEP_*)
  - Configuration file (~/.objsweep.yaml or ./.objsweep.yaml)
  - Default values (lowest priority)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		viperConfig, err = cli.InitConfig(cfgFile)
		if err != nil {
			return err
		}
		if err := viperConfig.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
		globalConfig = cli.GetConfig(viperConfig)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete objects older than the age threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(reconcile.ModeDelete)
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy recent objects to the target folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(reconcile.ModeCopy)
	},
}

var syncMetadataCmd = &cobra.Command{
	Use:   "sync-metadata",
	Short: "Refresh metadata on target objects without copying payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(reconcile.ModeSyncMetadata)
	},
}

func run(mode reconcile.Mode) error {
	runner, err := cli.NewRunner(globalConfig, mode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if summary != nil && summary.Errored > 0 {
		return fmt.Errorf("%d objects failed", summary.Errored)
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.objsweep.yaml)")

	flags.String("source-backend", "s3", "source backend type (s3, minio, memory)")
	flags.String("source-bucket", "", "source bucket name")
	flags.String("source-folder", "", "source folder prefix")
	flags.String("source-endpoint", "", "source endpoint for S3-compatible services")
	flags.String("source-region", "", "source region")
	flags.String("source-access-key", "", "source access key")
	flags.String("source-secret-key", "", "source secret key")
	flags.Bool("source-use-ssl", false, "connect to the source over TLS (minio backend)")

	flags.String("target-backend", "s3", "target backend type (s3, minio, memory)")
	flags.String("target-bucket", "", "target bucket name")
	flags.String("target-folder", "", "target folder prefix")
	flags.String("target-endpoint", "", "target endpoint for S3-compatible services")
	flags.String("target-region", "", "target region")
	flags.String("target-access-key", "", "target access key")
	flags.String("target-secret-key", "", "target secret key")
	flags.Bool("target-use-ssl", false, "connect to the target over TLS (minio backend)")

	flags.Int64("threshold-seconds", 0, "age threshold in seconds")
	flags.Bool("copy-if-modified", false, "probe the target and skip unchanged objects")
	flags.Bool("dry-run", false, "report what would change without writing")
	flags.Int("page-size", 1000, "listing page size")
	flags.Int("workers", 1, "concurrent object workers per page")

	flags.Int("retry-attempts", 3, "attempts per backend call for transient failures")
	flags.Float64("requests-per-second", 0, "backend request rate limit (0 disables)")
	flags.Int("request-burst", 0, "rate limit burst (defaults to the rate)")
	flags.Int("timeout-seconds", 30, "backend request timeout")

	flags.String("output-format", "text", "summary output format (text, json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(syncMetadataCmd)
}
