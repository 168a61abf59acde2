// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package common

import (
	"io"
	"time"
)

// SizeUnknown marks an object whose body length has not been declared.
const SizeUnknown int64 = -1

// Metadata represents metadata associated with an object in storage.
type Metadata struct {
	// ContentType is the MIME type of the object (e.g., "application/json")
	ContentType string `json:"content_type,omitempty"`

	// Size is the size of the object in bytes, or SizeUnknown when the
	// length has not been declared by the backend
	Size int64 `json:"size"`

	// LastModified is the system-level timestamp when the object was last
	// modified, as reported by the storage service
	LastModified time.Time `json:"last_modified"`

	// ETag is the entity tag for the object (used for change detection)
	ETag string `json:"etag,omitempty"`

	// Custom is a map of custom metadata key-value pairs
	Custom map[string]string `json:"custom,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	clone := *m
	if m.Custom != nil {
		clone.Custom = make(map[string]string, len(m.Custom))
		for k, v := range m.Custom {
			clone.Custom[k] = v
		}
	}
	return &clone
}

// ObjectInfo represents a single listing entry: a key plus the metadata
// the listing call reported for it.
type ObjectInfo struct {
	// Key is the object's storage key/path
	Key string `json:"key"`

	// Metadata contains the object's metadata
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Object is a readable object handle returned by Storage.GetObject.
// The caller owns Body and must close it.
type Object struct {
	Body     io.ReadCloser
	Metadata *Metadata
}

// ListOptions specifies options for listing objects.
type ListOptions struct {
	// Prefix filters objects to those starting with this prefix
	Prefix string

	// MaxResults specifies the maximum number of results per page.
	// 0 means use backend default.
	MaxResults int

	// ContinueFrom is a pagination token from a previous ListResult.
	// Empty string means start from the beginning. The token is opaque;
	// callers thread it through unchanged.
	ContinueFrom string
}

// ListResult contains one page of a list operation.
type ListResult struct {
	// Objects contains the entries in this page
	Objects []*ObjectInfo

	// NextToken is the pagination token for the next page of results.
	// Empty string means no more results available.
	NextToken string

	// Truncated indicates whether more results are available
	Truncated bool
}
