// Package skynet provides tests for client initialization and configuration.
package skynet

import (
	"net/http"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyden/go-skynet/errors"
	"github.com/skyden/go-skynet/skytypes"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client, err := New()
		require.NoError(t, err)
		assert.Equal(t, skytypes.DefaultPortalURL, client.PortalURL())
		assert.Equal(t, skytypes.DefaultUploadEndpoint, client.config.UploadEndpoint)
		assert.Equal(t, skytypes.DefaultTusEndpoint, client.config.TusEndpoint)
		assert.Equal(t, skytypes.DefaultFileFieldName, client.config.FileFieldName)
		assert.NotNil(t, client.httpClient)
		assert.NotNil(t, client.fs)
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		client, err := New(WithPortalURL("https://skynetfree.net/"))
		require.NoError(t, err)
		assert.Equal(t, "https://skynetfree.net", client.PortalURL())
	})

	t.Run("custom collaborators", func(t *testing.T) {
		httpClient := &http.Client{Timeout: time.Minute}
		fs := afero.NewMemMapFs()

		client, err := New(
			WithHTTPClient(httpClient),
			WithFilesystem(fs),
		)
		require.NoError(t, err)
		assert.Same(t, httpClient, client.httpClient)
		assert.Same(t, fs, client.fs)
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		for _, portal := range []string{"ftp://siasky.net", "siasky.net", ""} {
			client, err := New(WithPortalURL(portal))
			require.Error(t, err, "portal %q", portal)
			assert.Nil(t, client)
			assert.True(t, errors.IsInvalidInput(err))
		}
	})

	t.Run("custom endpoints", func(t *testing.T) {
		client, err := New(
			WithUploadEndpoint("/custom/upload"),
			WithTusEndpoint("/custom/tus"),
			WithFileFieldName("payload"),
		)
		require.NoError(t, err)
		assert.Equal(t, "/custom/upload", client.config.UploadEndpoint)
		assert.Equal(t, "/custom/tus", client.config.TusEndpoint)
		assert.Equal(t, "payload", client.config.FileFieldName)
	})
}

func TestUploadSettingsLayering(t *testing.T) {
	client, err := New(
		WithNumParallelUploads(4),
		WithStaggerPercent(25),
		WithRetryDelays([]time.Duration{time.Second}),
	)
	require.NoError(t, err)

	t.Run("client options layer over defaults", func(t *testing.T) {
		settings := client.uploadSettings(nil)
		assert.Equal(t, 4, settings.NumParallelUploads)
		assert.Equal(t, 25, settings.StaggerPercent)
		assert.Equal(t, []time.Duration{time.Second}, settings.RetryDelays)
		// Untouched fields keep the built-in defaults.
		assert.Equal(t, skytypes.DefaultLargeFileSize, settings.LargeFileSize)
		assert.Equal(t, skytypes.DefaultBaseChunkSize, settings.BaseChunkSize)
		assert.Equal(t, 1, settings.ChunkSizeMultiplier)
	})

	t.Run("call options layer over client options", func(t *testing.T) {
		settings := client.uploadSettings([]skytypes.UploadOption{
			WithUploadParallelism(1),
			WithUploadStaggerPercent(skytypes.StaggerNone),
			WithDryRun(true),
		})
		assert.Equal(t, 1, settings.NumParallelUploads)
		assert.Equal(t, skytypes.StaggerNone, settings.StaggerPercent)
		assert.True(t, settings.DryRun)
		// Client-level values survive where no call option overrides them.
		assert.Equal(t, []time.Duration{time.Second}, settings.RetryDelays)
	})

	t.Run("call options do not leak into the client", func(t *testing.T) {
		settings := client.uploadSettings([]skytypes.UploadOption{
			WithUploadRetryDelays(nil),
			WithUploadParallelism(9),
		})
		assert.Empty(t, settings.RetryDelays)
		assert.Equal(t, 9, settings.NumParallelUploads)

		again := client.uploadSettings(nil)
		assert.Equal(t, []time.Duration{time.Second}, again.RetryDelays)
		assert.Equal(t, 4, again.NumParallelUploads)
	})

	t.Run("grouped upload settings", func(t *testing.T) {
		settings := client.uploadSettings([]skytypes.UploadOption{
			WithUploadLargeFileSize(1 << 20),
			WithUploadChunkSizeMultiplier(4),
		})
		assert.Equal(t, int64(1<<20), settings.LargeFileSize)
		assert.Equal(t, 4, settings.ChunkSizeMultiplier)
	})
}
