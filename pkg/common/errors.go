// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package common

import "errors"

var (
	// Configuration errors

	// ErrNotConfigured is returned when a storage backend is not properly configured.
	ErrNotConfigured = errors.New("not configured")

	// ErrBucketNotSet is returned when the required bucket is not set.
	ErrBucketNotSet = errors.New("bucket not set")

	// ErrEndpointNotSet is returned when the required endpoint is not set.
	ErrEndpointNotSet = errors.New("endpoint not set")

	// ErrAccessKeyNotSet is returned when the required access key is not set.
	ErrAccessKeyNotSet = errors.New("accessKey not set")

	// ErrSecretKeyNotSet is returned when the required secret key is not set.
	ErrSecretKeyNotSet = errors.New("secretKey not set")

	// Storage operation errors

	// ErrKeyNotFound is returned when a key is not found in storage.
	// Backends map their native not-found signal to this sentinel so the
	// reconciliation engine can distinguish a clean miss from a failure.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey is returned when an object key is empty or malformed.
	ErrInvalidKey = errors.New("invalid key")

	// Reconciliation errors

	// ErrKeyOutsideScope is returned when a source key does not start with
	// the active source prefix and therefore cannot be mapped to a target
	// key. Processing the key anyway would write to an unintended path.
	ErrKeyOutsideScope = errors.New("key outside source scope")

	// ErrObjectTooLarge is returned when an undeclared-length object grows
	// past the buffering cap during a transfer fallback.
	ErrObjectTooLarge = errors.New("object exceeds buffering cap")
)
