package transfer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTusEngine(t *testing.T) {
	engine, err := NewTusEngine(nil, "https://portal.example/skynet/tus", false)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/skynet/tus", engine.endpoint.String())

	engine, err = NewTusEngine(nil, "https://portal.example/skynet/tus", true)
	require.NoError(t, err)
	assert.Equal(t, "true", engine.endpoint.Query().Get("dryrun"))
}

func TestTusEngineProbe(t *testing.T) {
	var gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("Tus-Resumable")
		switch r.URL.Path {
		case "/skynet/tus/upload-1":
			w.Header().Set(SkylinkHeader, "AABBskylink")
			w.WriteHeader(http.StatusOK)
		case "/skynet/tus/no-metadata":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	engine, err := NewTusEngine(server.Client(), server.URL+"/skynet/tus", false)
	require.NoError(t, err)

	// Locations resolve relative to the endpoint.
	skylink, err := engine.Probe(context.Background(), "/skynet/tus/upload-1")
	require.NoError(t, err)
	assert.Equal(t, "AABBskylink", skylink)
	assert.Equal(t, "1.0.0", gotVersion)

	skylink, err = engine.Probe(context.Background(), server.URL+"/skynet/tus/no-metadata")
	require.NoError(t, err)
	assert.Empty(t, skylink, "missing header probes as an empty skylink")

	_, err = engine.Probe(context.Background(), "/skynet/tus/gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestTusEngineEstimateChunkDuration(t *testing.T) {
	engine, err := NewTusEngine(nil, "https://portal.example/skynet/tus", false)
	require.NoError(t, err)

	// With no observations the nominal rate applies.
	nominal := engine.EstimateChunkDuration(16 * units.MiB)
	assert.Equal(t, time.Second, nominal)

	// Observed throughput replaces the nominal rate.
	engine.observe(1000, time.Second)
	assert.Equal(t, 2*time.Second, engine.EstimateChunkDuration(2000))

	// Degenerate samples are ignored.
	before := engine.observedBytes.Load()
	engine.observe(0, time.Second)
	engine.observe(-5, time.Second)
	engine.observe(100, 0)
	assert.Equal(t, before, engine.observedBytes.Load())
}

func TestProgressMark(t *testing.T) {
	var total int64
	var calls []int64
	mark := &progressMark{fn: func(delta int64) {
		total += delta
		calls = append(calls, delta)
	}}

	// First attempt streams 100 bytes, then fails.
	mark.observe(40)
	mark.observe(100)

	// The server only acknowledged 80 bytes; the retry re-syncs there and
	// re-reads ground already reported. Positions at or below the mark
	// stay silent.
	mark.observe(90)
	mark.observe(100)
	mark.observe(150)

	assert.Equal(t, int64(150), total, "re-read bytes must not be counted twice")
	assert.Equal(t, []int64{40, 60, 50}, calls)
}

func TestCountingReader(t *testing.T) {
	var total int64
	r := &countingReader{
		r:  strings.NewReader("hello world"),
		fn: func(delta int64) { total += delta },
	}

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, int64(len(data)), total)
}
