// Package skytypes provides shared type definitions for the Skynet client module.
package skytypes

import (
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/afero"
)

// Portal defaults. Endpoints and field names follow the public portal API.
const (
	// DefaultPortalURL is the portal used when none is configured.
	DefaultPortalURL = "https://siasky.net"

	// DefaultUploadEndpoint is the multipart-form upload endpoint for small files.
	DefaultUploadEndpoint = "/skynet/skyfile"

	// DefaultTusEndpoint is the resumable-upload endpoint for large files.
	DefaultTusEndpoint = "/skynet/tus"

	// DefaultFileFieldName is the multipart form field carrying the file bytes.
	DefaultFileFieldName = "file"

	// DefaultBaseChunkSize is the portal's base chunk size. Resumable
	// sessions must deliver data in multiples of this size, so partition
	// boundaries are aligned to it.
	DefaultBaseChunkSize = int64(40 * units.MiB)

	// DefaultLargeFileSize is the threshold at or above which uploads
	// switch to the resumable large-file path.
	DefaultLargeFileSize = int64(40 * units.MiB)

	// DefaultNumParallelUploads is the number of concurrent resumable
	// sessions used for large files.
	DefaultNumParallelUploads = 2

	// DefaultStaggerPercent delays each subsequent session's start by this
	// percentage of the previous session's estimated first-chunk duration.
	DefaultStaggerPercent = 50

	// StaggerNone disables inter-session stagger.
	StaggerNone = -1
)

// DefaultRetryDelays returns the default per-session retry schedule.
// Delays are consumed in order; once exhausted the session fails permanently.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{
		0,
		5 * time.Second,
		15 * time.Second,
		time.Minute,
		5 * time.Minute,
		10 * time.Minute,
	}
}

// DefaultUploadSettings returns the built-in upload defaults, the first
// layer of the defaults -> client -> call merge.
func DefaultUploadSettings() UploadSettings {
	return UploadSettings{
		LargeFileSize:       DefaultLargeFileSize,
		BaseChunkSize:       DefaultBaseChunkSize,
		ChunkSizeMultiplier: 1,
		NumParallelUploads:  DefaultNumParallelUploads,
		StaggerPercent:      DefaultStaggerPercent,
		RetryDelays:         DefaultRetryDelays(),
	}
}

// UploadSettings holds the recognized upload options. A settings value is
// built once per call by a layered merge (built-in defaults, then
// client-level configuration, then call-level options) and is read-only
// afterwards.
type UploadSettings struct {
	// LargeFileSize is the byte threshold routing uploads to the
	// resumable large-file path. Sizes below it use a single
	// multipart-form request.
	LargeFileSize int64

	// BaseChunkSize is the portal's chunk size; part boundaries are
	// aligned to multiples of it.
	BaseChunkSize int64

	// ChunkSizeMultiplier scales BaseChunkSize to the effective chunk
	// size used by resumable sessions. Must be >= 1.
	ChunkSizeMultiplier int

	// NumParallelUploads is the requested number of concurrent sessions.
	// The effective parallelism never exceeds the number of whole base
	// chunks in the upload.
	NumParallelUploads int

	// StaggerPercent is the inter-session launch delay, expressed as a
	// percentage (0-100) of the estimated first-chunk duration.
	// StaggerNone disables staggering.
	StaggerPercent int

	// RetryDelays is the ordered per-session retry schedule. May be empty,
	// in which case a failing session aborts immediately.
	RetryDelays []time.Duration

	// DryRun requests a skylink without persisting the data on the portal.
	DryRun bool

	// CustomFilename overrides the filename reported to the portal.
	CustomFilename string

	// ProgressTracker receives transfer progress updates when set.
	ProgressTracker ProgressTracker
}

// UploadResult contains the result of a successful upload.
type UploadResult struct {
	// Skylink is the bare 46-character encoded content identifier.
	Skylink string

	// URI is the skylink in sia:// form.
	URI string

	// Size is the number of bytes uploaded.
	Size int64

	// Duration is how long the upload took.
	Duration time.Duration
}

// ProgressTracker defines the interface for tracking transfer progress.
// Implementations can provide real-time progress updates during uploads.
type ProgressTracker interface {
	// Update is called periodically with transfer progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the transfer completes successfully
	Complete()

	// Error is called when the transfer fails
	Error(err error)
}

// ClientConfig holds configuration for the Skynet client.
type ClientConfig struct {
	PortalURL      string
	UploadEndpoint string
	TusEndpoint    string
	FileFieldName  string

	// HTTPClient is used for all portal traffic. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Filesystem abstraction for file-based uploads.
	Filesystem afero.Fs

	// Upload holds the client-level upload defaults, overridable per call.
	Upload UploadSettings
}

// Option is a functional option for configuring the Skynet client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring a single upload call.
	UploadOption func(*UploadSettings)
)
