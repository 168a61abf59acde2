// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/objsweep/go-objsweep/pkg/adapters"
	"github.com/objsweep/go-objsweep/pkg/common"
)

const (
	// bufferThreshold is the declared size below which an object is fully
	// buffered before the put. Some S3-compatible backends (Ceph in
	// particular) reject streamed bodies whose checksum cannot be computed
	// up front, surfacing as 403/signature errors; buffering sidesteps
	// that for the common case while large objects stream to bound memory.
	bufferThreshold = 100 * 1024 * 1024

	// defaultUnknownSizeBuffer caps the buffering fallback for bodies with
	// no declared length. Beyond the cap the transfer is refused instead of
	// holding an arbitrarily large payload in memory.
	defaultUnknownSizeBuffer = 1 << 30

	// lastModifiedKey is the synthetic metadata marker carrying the source
	// object's system timestamp onto the target.
	lastModifiedKey = "last-modified"
)

// transferExecutor commits object bytes from the source bucket to the
// target bucket, carrying content type and custom metadata forward.
type transferExecutor struct {
	source common.Storage
	target common.Storage
	logger adapters.Logger

	// maxUnknownSizeBuffer bounds the buffering fallback for bodies with
	// no declared length. 0 means defaultUnknownSizeBuffer.
	maxUnknownSizeBuffer int64
}

func (te *transferExecutor) unknownSizeCap() int64 {
	if te.maxUnknownSizeBuffer > 0 {
		return te.maxUnknownSizeBuffer
	}
	return defaultUnknownSizeBuffer
}

// copyObject transfers one object and returns the number of bytes written.
func (te *transferExecutor) copyObject(ctx context.Context, sourceKey, targetKey string) (int64, error) {
	obj, err := te.source.GetObject(ctx, sourceKey)
	if err != nil {
		return 0, fmt.Errorf("reading source %s: %w", sourceKey, err)
	}
	defer func() { _ = obj.Body.Close() }()

	meta := obj.Metadata.Clone()
	if meta == nil {
		meta = &common.Metadata{Size: common.SizeUnknown}
	}
	if !meta.LastModified.IsZero() {
		if meta.Custom == nil {
			meta.Custom = make(map[string]string)
		}
		meta.Custom[lastModifiedKey] = meta.LastModified.UTC().Format(time.RFC3339Nano)
	}

	size := meta.Size
	switch {
	case size >= 0 && size < bufferThreshold:
		return te.putBuffered(ctx, targetKey, obj.Body, meta)

	case size >= bufferThreshold:
		te.logger.Info(ctx, "Streaming large object",
			adapters.Field{Key: "key", Value: sourceKey},
			adapters.Field{Key: "size", Value: size})
		if err := te.target.PutWithMetadata(ctx, targetKey, obj.Body, meta); err != nil {
			return 0, fmt.Errorf("writing target %s: %w", targetKey, err)
		}
		return size, nil

	default:
		// No declared length. The backends need one to transmit a body, so
		// buffer as a last resort, refusing past the cap rather than
		// holding an unbounded payload.
		te.logger.Warn(ctx, "Source declared no size, falling back to bounded buffering",
			adapters.Field{Key: "key", Value: sourceKey})
		return te.putBufferedCapped(ctx, targetKey, obj.Body, meta)
	}
}

func (te *transferExecutor) putBuffered(ctx context.Context, targetKey string, body io.Reader, meta *common.Metadata) (int64, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("buffering source for %s: %w", targetKey, err)
	}
	meta.Size = int64(len(data))
	if err := te.target.PutWithMetadata(ctx, targetKey, bytes.NewReader(data), meta); err != nil {
		return 0, fmt.Errorf("writing target %s: %w", targetKey, err)
	}
	return meta.Size, nil
}

func (te *transferExecutor) putBufferedCapped(ctx context.Context, targetKey string, body io.Reader, meta *common.Metadata) (int64, error) {
	limit := te.unknownSizeCap()
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return 0, fmt.Errorf("buffering source for %s: %w", targetKey, err)
	}
	if int64(len(data)) > limit {
		return 0, fmt.Errorf("%w: %s has no declared size and exceeds %d bytes",
			common.ErrObjectTooLarge, targetKey, limit)
	}
	meta.Size = int64(len(data))
	if err := te.target.PutWithMetadata(ctx, targetKey, bytes.NewReader(data), meta); err != nil {
		return 0, fmt.Errorf("writing target %s: %w", targetKey, err)
	}
	return meta.Size, nil
}
