// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestZerologLoggerEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, InfoLevel)

	logger.Info(context.Background(), "copied object",
		Field{Key: "key", Value: "images/a.jpg"},
		Field{Key: "bytes", Value: 42})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "copied object" {
		t.Errorf("wrong message: %v", entry["message"])
	}
	if entry["key"] != "images/a.jpg" {
		t.Errorf("field not emitted: %v", entry["key"])
	}
}

func TestZerologLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, WarnLevel)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden too")
	logger.Warn(context.Background(), "visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("messages below the minimum level must be suppressed")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn message missing")
	}
}

func TestZerologLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, InfoLevel).WithFields(Field{Key: "run_id", Value: "r-1"})

	logger.Info(context.Background(), "first")
	logger.Error(context.Background(), "second")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, `"run_id":"r-1"`) {
			t.Errorf("bound field missing from entry: %s", line)
		}
	}
}
