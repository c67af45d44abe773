package skynet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/skyden/go-skynet/errors"
	"github.com/skyden/go-skynet/internal/pool"
	"github.com/skyden/go-skynet/internal/transfer"
	"github.com/skyden/go-skynet/internal/validation"
	"github.com/skyden/go-skynet/skylink"
	"github.com/skyden/go-skynet/skytypes"
)

// UploadStrategy selects between the single-request and resumable-session
// upload paths.
type UploadStrategy int

const (
	// StrategySmallFile uploads in a single multipart-form request.
	StrategySmallFile UploadStrategy = iota

	// StrategyLargeFile uploads via one or more concurrent resumable sessions.
	StrategyLargeFile
)

// String returns a human-readable strategy name.
func (s UploadStrategy) String() string {
	if s == StrategySmallFile {
		return "small-file"
	}
	return "large-file"
}

// SelectUploadStrategy routes an upload by size: sizes below the
// large-file threshold use the single-request path, everything else the
// resumable path. Pure, no failure modes.
func SelectUploadStrategy(sizeInBytes, largeFileSize int64) UploadStrategy {
	if sizeInBytes < largeFileSize {
		return StrategySmallFile
	}
	return StrategyLargeFile
}

// Upload uploads sizeInBytes bytes from reader and returns the resulting
// skylink. Small payloads go up in a single multipart-form request; large
// payloads are split into chunk-aligned, independently resumable sessions
// run concurrently. For the large path with parallelism above one the
// reader must also implement io.ReaderAt, since each session streams its
// own byte range.
//
// Options layer over the client-level settings for this call only.
//
// Returns:
//   - *skytypes.UploadResult: the bare skylink and its sia:// URI
//   - error: a typed error if the upload fails
//
// Errors:
//   - ErrInvalidInput: invalid option values or an unusable source; raised
//     before any network activity
//   - ErrTransport: network/HTTP failure after exhausting retries
//   - ErrUploadFailed: a session aborted irrecoverably
//   - ErrUploadIncomplete: sessions finished but no skylink was reported
//   - ErrMalformedSkylink: the portal returned an undecodable skylink
//
// Example:
//
//	f, err := os.Open("data.bin")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	info, _ := f.Stat()
//
//	result, err := client.Upload(ctx, f, info.Size(), "data.bin",
//	    skynet.WithUploadParallelism(4),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Skylink)
func (c *Client) Upload(
	ctx context.Context,
	reader io.Reader,
	sizeInBytes int64,
	filename string,
	opts ...skytypes.UploadOption,
) (*skytypes.UploadResult, error) {
	settings := c.uploadSettings(opts)

	if err := validation.ValidateUploadSettings(&settings); err != nil {
		return nil, errors.NewError("upload", err).WithFilename(filename)
	}
	if reader == nil {
		return nil, errors.NewError("upload", errors.ErrInvalidInput).
			WithFilename(filename).
			WithMessage("reader cannot be nil")
	}
	if sizeInBytes < 0 {
		return nil, errors.NewError("upload", errors.ErrInvalidInput).
			WithFilename(filename).
			WithMessage("size cannot be negative")
	}
	if settings.CustomFilename != "" {
		filename = settings.CustomFilename
	}
	if err := validation.ValidateFilename(filename); err != nil {
		return nil, errors.NewError("upload", err)
	}

	startTime := time.Now()

	var (
		bare string
		err  error
	)
	switch SelectUploadStrategy(sizeInBytes, settings.LargeFileSize) {
	case StrategySmallFile:
		bare, err = c.uploadSmall(ctx, reader, sizeInBytes, filename, &settings)
	default:
		bare, err = c.uploadLarge(ctx, reader, sizeInBytes, filename, &settings)
	}
	if err != nil {
		return nil, err
	}

	// Normalize through the codec; an undecodable portal response is a
	// malformed skylink, not a success.
	bare = skylink.Format(bare)
	if _, err := skylink.Decode(bare); err != nil {
		return nil, err
	}

	return &skytypes.UploadResult{
		Skylink:  bare,
		URI:      skylink.ToURI(bare),
		Size:     sizeInBytes,
		Duration: time.Since(startTime),
	}, nil
}

// UploadData uploads an in-memory byte slice.
// This is a convenience method for payloads that already fit in memory.
func (c *Client) UploadData(
	ctx context.Context,
	data []byte,
	filename string,
	opts ...skytypes.UploadOption,
) (*skytypes.UploadResult, error) {
	if data == nil {
		return nil, errors.NewError("uploadData", errors.ErrInvalidInput).
			WithFilename(filename).
			WithMessage("data cannot be nil")
	}
	return c.Upload(ctx, bytes.NewReader(data), int64(len(data)), filename, opts...)
}

// UploadFile uploads a file from the local filesystem.
// The filename reported to the portal defaults to the file's base name.
func (c *Client) UploadFile(
	ctx context.Context,
	path string,
	opts ...skytypes.UploadOption,
) (*skytypes.UploadResult, error) {
	if path == "" {
		return nil, errors.NewError("uploadFile", errors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}

	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, errors.NewError("uploadFile", err).WithFilename(path)
	}
	if info.IsDir() {
		return nil, errors.NewError("uploadFile", errors.ErrInvalidInput).
			WithFilename(path).
			WithMessage("path points to a directory, not a file")
	}

	file, err := c.fs.Open(path)
	if err != nil {
		return nil, errors.NewError("uploadFile", err).WithFilename(path)
	}
	defer file.Close()

	return c.Upload(ctx, file, info.Size(), filepath.Base(path), opts...)
}

// portalErrorBody is the error shape portals return on failed requests.
type portalErrorBody struct {
	Message string `json:"message"`
}

// uploadResponse is the body returned by the multipart upload endpoint.
type uploadResponse struct {
	Skylink string `json:"skylink"`
}

// uploadSmall performs the single-request multipart-form upload.
func (c *Client) uploadSmall(
	ctx context.Context,
	reader io.Reader,
	sizeInBytes int64,
	filename string,
	settings *skytypes.UploadSettings,
) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.NewError("uploadSmall", err).WithFilename(filename)
	}

	body := pool.GetBuffer()
	defer pool.PutBuffer(body)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, c.config.FileFieldName, filename))
	header.Set("Content-Type", mimetype.Detect(data).String())
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", errors.NewError("uploadSmall", err).WithFilename(filename)
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.NewError("uploadSmall", err).WithFilename(filename)
	}
	if err := writer.Close(); err != nil {
		return "", errors.NewError("uploadSmall", err).WithFilename(filename)
	}

	target := *c.portalURL
	target.Path = c.config.UploadEndpoint
	query := target.Query()
	query.Set("filename", filename)
	if settings.DryRun {
		query.Set("dryrun", "true")
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), body)
	if err != nil {
		return "", errors.NewError("uploadSmall", err).WithFilename(filename)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewError("uploadSmall", fmt.Errorf("%w: %w", errors.ErrTransport, err)).
			WithFilename(filename)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewError("uploadSmall", errors.ErrTransport).
			WithFilename(filename).
			WithMessage(portalErrorMessage(resp))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewError("uploadSmall", fmt.Errorf("%w: %w", errors.ErrTransport, err)).
			WithFilename(filename).
			WithMessage("decode portal response")
	}
	if parsed.Skylink == "" {
		return "", errors.NewError("uploadSmall", errors.ErrUploadIncomplete).
			WithFilename(filename).
			WithMessage("portal response did not contain a skylink")
	}

	if tracker := settings.ProgressTracker; tracker != nil {
		tracker.Update(sizeInBytes, sizeInBytes)
		tracker.Complete()
	}
	return parsed.Skylink, nil
}

// uploadLarge performs the resumable-session upload via the transfer
// coordinator. Parallel sessions need independent range-scoped readers, so
// the source must implement io.ReaderAt.
func (c *Client) uploadLarge(
	ctx context.Context,
	reader io.Reader,
	sizeInBytes int64,
	filename string,
	settings *skytypes.UploadSettings,
) (string, error) {
	src, ok := reader.(io.ReaderAt)
	if !ok {
		return "", errors.NewError("uploadLarge", errors.ErrInvalidInput).
			WithFilename(filename).
			WithMessage("large uploads require a source supporting positional reads (io.ReaderAt)")
	}

	endpoint := *c.portalURL
	endpoint.Path = c.config.TusEndpoint
	engine, err := transfer.NewTusEngine(c.httpClient, endpoint.String(), settings.DryRun)
	if err != nil {
		return "", errors.NewError("uploadLarge", errors.ErrInvalidInput).
			WithFilename(filename).
			WithMessage(err.Error())
	}

	return transfer.NewCoordinator(engine, *settings).Upload(ctx, src, sizeInBytes, filename)
}

// portalErrorMessage prefers a server-supplied error body over a generic
// transport message.
func portalErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var parsed portalErrorBody
		if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
			return parsed.Message
		}
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}
