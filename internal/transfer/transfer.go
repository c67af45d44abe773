package transfer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyden/go-skynet/errors"
	"github.com/skyden/go-skynet/internal/partition"
	"github.com/skyden/go-skynet/internal/validation"
	"github.com/skyden/go-skynet/skytypes"
)

// SessionConfig describes one resumable session's assignment.
type SessionConfig struct {
	// Index is the session's position in part order.
	Index int

	// Offset and Length identify the half-open byte range [Offset,
	// Offset+Length) this session streams from the source.
	Offset int64
	Length int64

	// ChunkSize is the effective chunk size the session delivers data in.
	ChunkSize int64

	// Partial marks the session as one part of a concatenated upload.
	Partial bool

	// Filename is reported to the portal as upload metadata.
	Filename string

	// Progress, when set, is invoked with byte deltas as data is streamed.
	Progress func(delta int64)
}

// Engine is the external resumable-transfer protocol collaborator. The
// coordinator configures and drives it; it never implements the wire
// protocol itself.
type Engine interface {
	// CreateSession negotiates a new resumable session for the given
	// byte range of src.
	CreateSession(ctx context.Context, src io.ReaderAt, cfg SessionConfig) (Session, error)

	// Concatenate combines completed partial sessions, in order, into one
	// logical upload and returns its resulting location.
	Concatenate(ctx context.Context, sessions []Session) (string, error)

	// Probe retrieves the server-assigned skylink for a completed
	// upload's location. An empty result means the metadata is absent.
	Probe(ctx context.Context, location string) (string, error)

	// EstimateChunkDuration estimates how long one chunk of the given
	// size takes to deliver. The coordinator uses it as the stagger basis;
	// the estimate itself belongs to the engine.
	EstimateChunkDuration(chunkSize int64) time.Duration
}

// Session is one resumable upload session. Upload may be called again
// after a failure; the session resumes from its synced remote offset.
type Session interface {
	Upload(ctx context.Context) error
	Location() string
}

// Coordinator drives one logical upload as one or more concurrent
// resumable sessions and resolves a single skylink.
type Coordinator struct {
	engine   Engine
	settings skytypes.UploadSettings
}

// NewCoordinator returns a coordinator using the given engine and merged
// upload settings.
func NewCoordinator(engine Engine, settings skytypes.UploadSettings) *Coordinator {
	return &Coordinator{engine: engine, settings: settings}
}

// Upload streams totalSize bytes from src as a large-file upload and
// returns the resulting bare skylink. No skylink is ever surfaced before
// every session reports success.
func (c *Coordinator) Upload(ctx context.Context, src io.ReaderAt, totalSize int64, filename string) (string, error) {
	if err := validation.ValidateUploadSettings(&c.settings); err != nil {
		return "", err
	}
	if totalSize < 0 {
		return "", errors.NewError("uploadLarge", errors.ErrInvalidInput).
			WithMessage("size must not be negative")
	}

	chunkSize := c.settings.BaseChunkSize * int64(c.settings.ChunkSizeMultiplier)
	parallelism := effectiveParallelism(totalSize, c.settings.BaseChunkSize, c.settings.NumParallelUploads)
	if totalSize <= chunkSize {
		// The multiplier can grow the effective chunk past the total even
		// when the base-chunk clamp permits concurrency.
		parallelism = 1
	}

	var parts []partition.Part
	if parallelism == 1 {
		parts = []partition.Part{{Start: 0, End: totalSize}}
	} else {
		var err error
		parts, err = partition.Plan(totalSize, parallelism, chunkSize)
		if err != nil {
			return "", err
		}
	}

	sessions, err := c.runSessions(ctx, src, parts, chunkSize, filename)
	if err != nil {
		return "", err
	}

	location := sessions[0].Location()
	if len(sessions) > 1 {
		location, err = c.engine.Concatenate(ctx, sessions)
		if err != nil {
			return "", errors.NewError("uploadLarge", fmt.Errorf("%w: %w", errors.ErrTransport, err)).
				WithFilename(filename)
		}
	}

	skylink, err := c.engine.Probe(ctx, location)
	if err != nil {
		return "", errors.NewError("uploadLarge", fmt.Errorf("%w: %w", errors.ErrTransport, err)).
			WithFilename(filename)
	}
	if skylink == "" {
		return "", errors.NewError("uploadLarge", errors.ErrUploadIncomplete).
			WithFilename(filename).
			WithMessage("portal did not report a skylink for the completed upload")
	}

	if tracker := c.settings.ProgressTracker; tracker != nil {
		tracker.Complete()
	}
	return skylink, nil
}

// runSessions creates and runs one session per part, in part order, with
// the configured stagger between launches. It returns only when every
// session has completed or the operation has been aborted.
func (c *Coordinator) runSessions(
	ctx context.Context,
	src io.ReaderAt,
	parts []partition.Part,
	chunkSize int64,
	filename string,
) ([]Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg          sync.WaitGroup
		failOnce    sync.Once
		sessionErr  error
		transferred atomic.Int64
	)
	fail := func(err error) {
		failOnce.Do(func() {
			sessionErr = err
			cancel()
		})
	}

	var progress func(int64)
	if tracker := c.settings.ProgressTracker; tracker != nil {
		total := parts[len(parts)-1].End
		progress = func(delta int64) {
			tracker.Update(transferred.Add(delta), total)
		}
	}

	sessions := make([]Session, len(parts))
	for i, part := range parts {
		if i > 0 && c.settings.StaggerPercent > 0 {
			estimate := c.engine.EstimateChunkDuration(chunkSize)
			delay := estimate * time.Duration(c.settings.StaggerPercent) / 100
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}

		sess, err := c.engine.CreateSession(ctx, src, SessionConfig{
			Index:     i,
			Offset:    part.Start,
			Length:    part.Length(),
			ChunkSize: chunkSize,
			Partial:   len(parts) > 1,
			Filename:  filename,
			Progress:  progress,
		})
		if err != nil {
			fail(errors.NewError("createSession", fmt.Errorf("%w: %w", errors.ErrTransport, err)))
			break
		}
		sessions[i] = sess

		wg.Add(1)
		go func(sess Session) {
			defer wg.Done()
			if err := c.runWithRetries(ctx, sess); err != nil {
				fail(err)
			}
		}(sess)
	}
	wg.Wait()

	if sessionErr == nil && ctx.Err() != nil {
		sessionErr = ctx.Err()
	}
	if sessionErr != nil {
		err := errors.NewError("uploadLarge", fmt.Errorf("%w: %w", errors.ErrUploadFailed, sessionErr)).
			WithFilename(filename)
		if tracker := c.settings.ProgressTracker; tracker != nil {
			tracker.Error(err)
		}
		return nil, err
	}
	return sessions, nil
}

// runWithRetries drives one session to completion, consuming the retry
// schedule in order on transient failures.
func (c *Coordinator) runWithRetries(ctx context.Context, sess Session) error {
	delays := c.settings.RetryDelays
	for attempt := 0; ; attempt++ {
		err := sess.Upload(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= len(delays) {
			return errors.NewError("session", fmt.Errorf("%w: %w", errors.ErrTransport, err)).
				WithMessage(fmt.Sprintf("giving up after %d attempts", attempt+1))
		}
		select {
		case <-time.After(delays[attempt]):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// effectiveParallelism clamps the requested parallelism so that no session
// would be assigned an empty part: never more sessions than whole base
// chunks, and never fewer than one.
func effectiveParallelism(totalSize, baseChunkSize int64, requested int) int {
	chunks := (totalSize + baseChunkSize - 1) / baseChunkSize
	parallelism := int64(requested)
	if parallelism > chunks {
		parallelism = chunks
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return int(parallelism)
}
