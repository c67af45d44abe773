// Package skynet provides client initialization and configuration.
//
// The Client provides a high-level interface for uploading to a Skynet
// portal, with configurable options for chunking, concurrency, and
// progress tracking.
package skynet

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/skyden/go-skynet/errors"
	"github.com/skyden/go-skynet/skytypes"
)

// Client represents a Skynet portal client with validated configuration.
// It is safe for concurrent use; all upload behavior is fixed at
// construction and overridable per call.
type Client struct {
	config skytypes.ClientConfig

	// portalURL is the parsed, normalized portal base URL
	portalURL *url.URL

	// httpClient is used for all portal traffic
	httpClient *http.Client

	// fs is the filesystem abstraction for file-based uploads
	fs afero.Fs
}

// New creates a new Skynet client with the provided options.
// Client-level options layer over the built-in defaults and are in turn
// overridable per upload call.
//
// Example:
//
//	client, err := skynet.New(
//	    skynet.WithPortalURL("https://skynetfree.net"),
//	    skynet.WithNumParallelUploads(4),
//	)
func New(opts ...skytypes.Option) (*Client, error) {
	cfg := skytypes.ClientConfig{
		PortalURL:      skytypes.DefaultPortalURL,
		UploadEndpoint: skytypes.DefaultUploadEndpoint,
		TusEndpoint:    skytypes.DefaultTusEndpoint,
		FileFieldName:  skytypes.DefaultFileFieldName,
		Upload:         skytypes.DefaultUploadSettings(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	portalURL, err := url.Parse(strings.TrimSuffix(cfg.PortalURL, "/"))
	if err != nil {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage("invalid portal URL: " + err.Error())
	}
	if portalURL.Scheme != "http" && portalURL.Scheme != "https" {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage("portal URL must use http or https")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	filesystem := cfg.Filesystem
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}

	return &Client{
		config:     cfg,
		portalURL:  portalURL,
		httpClient: httpClient,
		fs:         filesystem,
	}, nil
}

// PortalURL returns the normalized portal base URL the client talks to.
func (c *Client) PortalURL() string {
	return c.portalURL.String()
}

// uploadSettings builds the per-call settings by the layered merge:
// built-in defaults, then client-level configuration (already folded into
// c.config at New), then call-level options. The result is read-only for
// the rest of the call.
func (c *Client) uploadSettings(opts []skytypes.UploadOption) skytypes.UploadSettings {
	settings := c.config.Upload
	settings.RetryDelays = append([]time.Duration(nil), settings.RetryDelays...)
	for _, opt := range opts {
		opt(&settings)
	}
	return settings
}
