// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package common

import (
	"context"
	"io"
)

// Storage is the capability interface the reconciliation engine runs
// against. Backends wrap a bucket: keys are hierarchical strings using "/"
// as the separator, and a missing object is reported as ErrKeyNotFound so
// callers can tell a clean miss apart from a transport failure.
type Storage interface {
	// Configure sets up the backend with the necessary credentials and settings.
	Configure(settings map[string]string) error

	// GetObject retrieves an object's body together with its metadata.
	// Metadata.Size is SizeUnknown when the backend did not declare a length.
	GetObject(ctx context.Context, key string) (*Object, error)

	// GetMetadata retrieves only the metadata for an object.
	GetMetadata(ctx context.Context, key string) (*Metadata, error)

	// PutWithMetadata stores an object with associated metadata.
	// metadata.Size declares the body length; SizeUnknown lets the backend
	// decide how to transmit an undeclared-length body.
	PutWithMetadata(ctx context.Context, key string, data io.Reader, metadata *Metadata) error

	// UpdateMetadata replaces the metadata on an existing object in place
	// without rewriting the payload (metadata-replace copy).
	UpdateMetadata(ctx context.Context, key string, metadata *Metadata) error

	// DeleteWithContext removes an object from the backend.
	DeleteWithContext(ctx context.Context, key string) error

	// Exists checks if an object exists in the backend.
	Exists(ctx context.Context, key string) (bool, error)

	// ListWithOptions returns a paginated list of objects with metadata.
	ListWithOptions(ctx context.Context, opts *ListOptions) (*ListResult, error)
}
