// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package cli

import "errors"

var (
	// ErrSourceBucketRequired is returned when no source bucket is configured.
	ErrSourceBucketRequired = errors.New("source bucket is required")

	// ErrTargetBucketRequired is returned when a copy or metadata sync run
	// has no target bucket configured.
	ErrTargetBucketRequired = errors.New("target bucket is required for this mode")

	// ErrNegativeThreshold is returned for a negative age threshold.
	ErrNegativeThreshold = errors.New("threshold-seconds must not be negative")

	// ErrInvalidOutputFormat is returned for an unrecognized output format.
	ErrInvalidOutputFormat = errors.New("output format must be text or json")
)
