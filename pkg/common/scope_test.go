// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package common

import (
	"errors"
	"testing"
)

func TestNewFolderScope(t *testing.T) {
	scope := NewFolderScope("bucket", "images")
	if scope.Prefix != "images/" {
		t.Fatalf("expected trailing separator, got %q", scope.Prefix)
	}

	scope = NewFolderScope("bucket", "images/")
	if scope.Prefix != "images/" {
		t.Fatalf("separator must not be doubled, got %q", scope.Prefix)
	}

	scope = NewFolderScope("bucket", "")
	if scope.Prefix != "" {
		t.Fatalf("empty folder must mean whole bucket, got %q", scope.Prefix)
	}
}

func TestFolderScopeContains(t *testing.T) {
	scope := NewFolderScope("bucket", "images")

	if !scope.Contains("images/photo.jpg") {
		t.Error("key inside the scope not recognized")
	}
	if scope.Contains("archive/photo.jpg") {
		t.Error("key outside the scope must not match")
	}
	// "images-backup/x" shares the folder name but not the separator.
	if scope.Contains("images-backup/photo.jpg") {
		t.Error("sibling folder with shared name prefix must not match")
	}
}

func TestMapKey(t *testing.T) {
	source := NewFolderScope("src-bucket", "images")
	target := NewFolderScope("dst-bucket", "archive")

	mapped, err := MapKey(source, target, "images/2024/photo.jpg")
	if err != nil {
		t.Fatalf("MapKey failed: %v", err)
	}
	if mapped != "archive/2024/photo.jpg" {
		t.Fatalf("wrong mapping: %q", mapped)
	}
}

func TestMapKeyWholeBucket(t *testing.T) {
	source := NewFolderScope("src-bucket", "")
	target := NewFolderScope("dst-bucket", "backup")

	mapped, err := MapKey(source, target, "photo.jpg")
	if err != nil {
		t.Fatalf("MapKey failed: %v", err)
	}
	if mapped != "backup/photo.jpg" {
		t.Fatalf("wrong mapping: %q", mapped)
	}
}

func TestMapKeyOutsideScope(t *testing.T) {
	source := NewFolderScope("src-bucket", "images")
	target := NewFolderScope("dst-bucket", "archive")

	_, err := MapKey(source, target, "other/photo.jpg")
	if !errors.Is(err, ErrKeyOutsideScope) {
		t.Fatalf("expected ErrKeyOutsideScope, got %v", err)
	}
}
