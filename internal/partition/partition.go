// Package partition computes chunk-aligned byte ranges for splitting a
// large upload across concurrent resumable sessions.
//
// The receiving protocol validates per-session chunk boundaries, so all
// parts except at most one are exact multiples of the chunk size. An
// interrupted part can then resume cleanly at a chunk boundary without
// renegotiating its size.
package partition

import (
	"github.com/skyden/go-skynet/errors"
)

// Part is a half-open byte range [Start, End) assigned to one session.
type Part struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the part.
func (p Part) Length() int64 {
	return p.End - p.Start
}

// Plan divides totalSize bytes into partCount contiguous ranges whose
// boundaries are multiples of chunkSize, except for one part absorbing the
// non-aligned remainder.
//
// Whole chunks are assigned round-robin across parts. The remainder, if
// any, goes to part min(fullChunks, partCount-1): the next part in
// round-robin order if some parts are still empty, otherwise the last
// part. The resulting ranges are contiguous, increasing, and sum to
// totalSize.
func Plan(totalSize int64, partCount int, chunkSize int64) ([]Part, error) {
	if partCount < 1 {
		return nil, errors.NewError("partition", errors.ErrInvalidInput).
			WithMessage("part count must be at least 1")
	}
	if chunkSize < 1 {
		return nil, errors.NewError("partition", errors.ErrInvalidInput).
			WithMessage("chunk size must be at least 1")
	}
	if totalSize <= chunkSize && partCount > 1 {
		// A total that does not exceed one chunk cannot be meaningfully split.
		return nil, errors.NewError("partition", errors.ErrInvalidInput).
			WithMessage("total size must exceed the chunk size to be split")
	}

	sizes := make([]int64, partCount)
	fullChunks := totalSize / chunkSize
	for i := int64(0); i < fullChunks; i++ {
		sizes[i%int64(partCount)] += chunkSize
	}

	if leftover := totalSize % chunkSize; leftover > 0 {
		idx := fullChunks
		if idx > int64(partCount-1) {
			idx = int64(partCount - 1)
		}
		sizes[idx] += leftover
	}

	parts := make([]Part, partCount)
	var offset int64
	for i, size := range sizes {
		parts[i] = Part{Start: offset, End: offset + size}
		offset += size
	}
	return parts, nil
}
