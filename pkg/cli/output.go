// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/objsweep/go-objsweep/pkg/reconcile"
)

// OutputFormat defines the output format type.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// FormatSummary formats a run summary in the specified format.
func FormatSummary(summary *reconcile.RunSummary, format OutputFormat) string {
	if format == FormatJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return string(data)
	}
	return formatSummaryText(summary)
}

func formatSummaryText(summary *reconcile.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s (%s)\n", summary.RunID, summary.Mode)
	fmt.Fprintf(&b, "  Threshold:  %s\n", summary.Threshold.Format("2006-01-02 15:04:05 MST"))
	if summary.DryRun {
		b.WriteString("  Dry run:    yes\n")
	}
	fmt.Fprintf(&b, "  Pages:      %d\n", summary.Pages)
	fmt.Fprintf(&b, "  Seen:       %d\n", summary.Seen)

	switch summary.Mode {
	case reconcile.ModeDelete.String():
		fmt.Fprintf(&b, "  Deleted:    %d\n", summary.Deleted)
	case reconcile.ModeCopy.String():
		fmt.Fprintf(&b, "  Copied:     %d\n", summary.Copied)
		fmt.Fprintf(&b, "  Skipped:    %d\n", summary.Skipped)
		fmt.Fprintf(&b, "  Bytes:      %d\n", summary.Bytes)
	case reconcile.ModeSyncMetadata.String():
		fmt.Fprintf(&b, "  Synced:     %d\n", summary.Synced)
		fmt.Fprintf(&b, "  Skipped:    %d\n", summary.Skipped)
	}

	fmt.Fprintf(&b, "  Errors:     %d\n", summary.Errored)
	for _, msg := range summary.Errors {
		fmt.Fprintf(&b, "    - %s\n", msg)
	}
	if summary.TruncatedEarly {
		b.WriteString("  Warning:    listing aborted early, results are partial\n")
	}
	fmt.Fprintf(&b, "  Duration:   %s", summary.Duration.Round(time.Millisecond))

	return b.String()
}
