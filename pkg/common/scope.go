// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package common

import (
	"fmt"
	"strings"
)

// FolderScope restricts operations to a key namespace within a bucket.
// An empty prefix means the whole bucket; a non-empty prefix always ends
// with "/".
type FolderScope struct {
	Bucket string
	Prefix string
}

// NewFolderScope builds a scope from a user-supplied folder name,
// appending the trailing separator when it is missing. An empty folder
// yields a whole-bucket scope.
func NewFolderScope(bucket, folder string) FolderScope {
	prefix := folder
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return FolderScope{Bucket: bucket, Prefix: prefix}
}

// Contains reports whether a key falls inside the scope.
func (s FolderScope) Contains(key string) bool {
	return strings.HasPrefix(key, s.Prefix)
}

// String returns "bucket/prefix" for log output.
func (s FolderScope) String() string {
	return s.Bucket + "/" + s.Prefix
}

// MapKey computes the target key for a source key: the source prefix is
// stripped and the target prefix prepended, preserving the relative
// suffix. A source key outside the source scope is refused with
// ErrKeyOutsideScope rather than silently mapped, guarding against
// cross-prefix contamination when listing and mapping scopes diverge.
func MapKey(source, target FolderScope, sourceKey string) (string, error) {
	if !source.Contains(sourceKey) {
		return "", fmt.Errorf("%w: %s does not start with %q", ErrKeyOutsideScope, sourceKey, source.Prefix)
	}
	return target.Prefix + sourceKey[len(source.Prefix):], nil
}
