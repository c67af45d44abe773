package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bdragon300/tusgo"
	"github.com/docker/go-units"
)

// SkylinkHeader is the response header carrying the skylink on a
// completed upload's location.
const SkylinkHeader = "Skynet-Skylink"

// nominalThroughput is the assumed transfer rate used for chunk duration
// estimates until real measurements are available.
const nominalThroughput = int64(16 * units.MiB)

// TusEngine implements Engine on top of the tus resumable-upload protocol.
type TusEngine struct {
	httpClient *http.Client
	endpoint   *url.URL

	// observed transfer stats, used to refine chunk duration estimates
	observedBytes atomic.Int64
	observedNanos atomic.Int64
}

// NewTusEngine returns an engine speaking to the given tus endpoint.
// With dryRun set, the portal computes the skylink without persisting data.
func NewTusEngine(httpClient *http.Client, endpoint string, dryRun bool) (*TusEngine, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse tus endpoint: %w", err)
	}
	if dryRun {
		q := u.Query()
		q.Set("dryrun", "true")
		u.RawQuery = q.Encode()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TusEngine{httpClient: httpClient, endpoint: u}, nil
}

// CreateSession negotiates a new tus upload for the assigned byte range.
func (e *TusEngine) CreateSession(ctx context.Context, src io.ReaderAt, cfg SessionConfig) (Session, error) {
	client := tusgo.NewClient(e.httpClient, e.endpoint).WithContext(ctx)
	upload := tusgo.Upload{}
	meta := map[string]string{"filename": cfg.Filename}
	if _, err := client.CreateUpload(&upload, cfg.Length, cfg.Partial, meta); err != nil {
		return nil, fmt.Errorf("create tus upload: %w", err)
	}
	return &tusSession{engine: e, upload: &upload, src: src, cfg: cfg}, nil
}

// Concatenate combines completed partial uploads, in part order, into the
// final upload and returns its location.
func (e *TusEngine) Concatenate(ctx context.Context, sessions []Session) (string, error) {
	uploads := make([]tusgo.Upload, len(sessions))
	for i, sess := range sessions {
		ts, ok := sess.(*tusSession)
		if !ok {
			return "", fmt.Errorf("concatenate: session %d is not a tus session", i)
		}
		uploads[i] = *ts.upload
	}

	client := tusgo.NewClient(e.httpClient, e.endpoint).WithContext(ctx)
	final := tusgo.Upload{}
	if _, err := client.ConcatenateUploads(&final, uploads, nil); err != nil {
		return "", fmt.Errorf("concatenate tus uploads: %w", err)
	}
	return final.Location, nil
}

// Probe issues a header-only request against the completed upload's
// location and returns the skylink from the response metadata.
func (e *TusEngine) Probe(ctx context.Context, location string) (string, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse upload location: %w", err)
	}
	target := e.endpoint.ResolveReference(loc)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create probe request: %w", err)
	}
	// Portals require the tus version header on upload resources.
	req.Header.Set("Tus-Resumable", "1.0.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("probe upload: unexpected status %d", resp.StatusCode)
	}
	return resp.Header.Get(SkylinkHeader), nil
}

// EstimateChunkDuration estimates the time one chunk takes to deliver,
// preferring the observed transfer rate over the nominal one.
func (e *TusEngine) EstimateChunkDuration(chunkSize int64) time.Duration {
	throughput := nominalThroughput
	if bytes, nanos := e.observedBytes.Load(), e.observedNanos.Load(); bytes > 0 && nanos > 0 {
		if observed := bytes * int64(time.Second) / nanos; observed > 0 {
			throughput = observed
		}
	}
	return time.Duration(chunkSize * int64(time.Second) / throughput)
}

func (e *TusEngine) observe(n int64, d time.Duration) {
	if n <= 0 || d <= 0 {
		return
	}
	e.observedBytes.Add(n)
	e.observedNanos.Add(int64(d))
}

// tusSession streams one byte range over a tus upload. Each Upload call
// syncs the remote offset first, so a retried call resumes where the
// previous attempt stopped.
type tusSession struct {
	engine *TusEngine
	upload *tusgo.Upload
	src    io.ReaderAt
	cfg    SessionConfig

	// progress dedupes callbacks across retried attempts. Retries are
	// sequential per session, so no locking.
	progress progressMark
}

func (s *tusSession) Upload(ctx context.Context) error {
	client := tusgo.NewClient(s.engine.httpClient, s.engine.endpoint).WithContext(ctx)
	stream := tusgo.NewUploadStream(client, s.upload)
	stream.ChunkSize = s.cfg.ChunkSize

	if _, err := stream.Sync(); err != nil {
		return fmt.Errorf("sync upload offset: %w", err)
	}

	reader := io.NewSectionReader(s.src, s.cfg.Offset, s.cfg.Length)
	if _, err := reader.Seek(s.upload.RemoteOffset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to resume offset: %w", err)
	}

	var r io.Reader = reader
	if s.cfg.Progress != nil {
		// A failed attempt may have read bytes the server never
		// acknowledged; those are re-read after the re-sync above. Track
		// the stream position and report only bytes past the session's
		// high-water mark.
		s.progress.fn = s.cfg.Progress
		pos := s.upload.RemoteOffset
		r = &countingReader{r: r, fn: func(delta int64) {
			pos += delta
			s.progress.observe(pos)
		}}
	}

	start := time.Now()
	n, err := io.Copy(stream, r)
	s.engine.observe(n, time.Since(start))
	return err
}

func (s *tusSession) Location() string {
	return s.upload.Location
}

// progressMark reports stream positions as deltas, suppressing anything
// at or below the highest position already reported.
type progressMark struct {
	reported int64
	fn       func(delta int64)
}

func (p *progressMark) observe(pos int64) {
	if pos > p.reported {
		p.fn(pos - p.reported)
		p.reported = pos
	}
}

// countingReader reports byte deltas to a callback as data flows through.
type countingReader struct {
	r  io.Reader
	fn func(delta int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.fn(int64(n))
	}
	return n, err
}
