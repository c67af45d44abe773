// Package skynet provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package skynet

import (
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/skyden/go-skynet/skytypes"
)

// WithPortalURL sets the portal the client uploads to.
// Default is the public siasky.net portal.
func WithPortalURL(portalURL string) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.PortalURL = portalURL
	}
}

// WithUploadEndpoint sets the multipart-form upload endpoint path.
func WithUploadEndpoint(endpoint string) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.UploadEndpoint = endpoint
	}
}

// WithTusEndpoint sets the resumable-upload endpoint path.
func WithTusEndpoint(endpoint string) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.TusEndpoint = endpoint
	}
}

// WithFileFieldName sets the multipart form field name carrying the file bytes.
func WithFileFieldName(name string) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.FileFieldName = name
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithFilesystem sets a custom filesystem implementation for file uploads.
// This allows using in-memory filesystems for testing.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem afero.Fs) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLargeFileSize sets the client-level byte threshold at or above which
// uploads switch to the resumable large-file path.
func WithLargeFileSize(size int64) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.LargeFileSize = size
	}
}

// WithBaseChunkSize sets the client-level base chunk size. Part boundaries
// are aligned to multiples of it. Only change this when targeting a portal
// with a non-standard chunk size.
func WithBaseChunkSize(size int64) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.BaseChunkSize = size
	}
}

// WithChunkSizeMultiplier sets the client-level chunk size multiplier.
func WithChunkSizeMultiplier(multiplier int) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.ChunkSizeMultiplier = multiplier
	}
}

// WithNumParallelUploads sets the client-level number of concurrent
// resumable sessions for large files.
func WithNumParallelUploads(n int) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.NumParallelUploads = n
	}
}

// WithStaggerPercent sets the client-level inter-session launch delay as a
// percentage (0-100) of the estimated first-chunk duration.
// Use skytypes.StaggerNone to disable staggering.
func WithStaggerPercent(percent int) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.StaggerPercent = percent
	}
}

// WithRetryDelays sets the client-level per-session retry schedule.
// Delays are consumed in order; an empty schedule disables retries.
func WithRetryDelays(delays []time.Duration) skytypes.Option {
	return func(c *skytypes.ClientConfig) {
		c.Upload.RetryDelays = delays
	}
}

// Per-call upload options. These layer over the client-level settings for
// a single upload.

// WithUploadLargeFileSize overrides the large-file threshold for this upload.
func WithUploadLargeFileSize(size int64) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.LargeFileSize = size
	}
}

// WithUploadChunkSizeMultiplier overrides the chunk size multiplier for this upload.
func WithUploadChunkSizeMultiplier(multiplier int) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.ChunkSizeMultiplier = multiplier
	}
}

// WithUploadParallelism overrides the number of concurrent sessions for this upload.
func WithUploadParallelism(n int) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.NumParallelUploads = n
	}
}

// WithUploadStaggerPercent overrides the stagger percentage for this upload.
func WithUploadStaggerPercent(percent int) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.StaggerPercent = percent
	}
}

// WithUploadRetryDelays overrides the retry schedule for this upload.
func WithUploadRetryDelays(delays []time.Duration) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.RetryDelays = delays
	}
}

// WithDryRun requests a skylink without persisting the data on the portal.
func WithDryRun(dryRun bool) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.DryRun = dryRun
	}
}

// WithCustomFilename overrides the filename reported to the portal.
func WithCustomFilename(filename string) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.CustomFilename = filename
	}
}

// WithProgress sets a progress tracker for this upload.
func WithProgress(tracker skytypes.ProgressTracker) skytypes.UploadOption {
	return func(s *skytypes.UploadSettings) {
		s.ProgressTracker = tracker
	}
}
