// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fakePDB  = []byte("\x1f\x8b\x08\x00fake pdb1 assembly")
	fakeMMTF = []byte("\x1f\x8b\x08\x00fake mmtf payload")
)

// structureServer serves fake files at the paths the default providers
// would request, relative to the server root. It counts requests and
// records the last Accept-Encoding header.
type structureServer struct {
	*httptest.Server
	hits     atomic.Int32
	mu       sync.Mutex
	encoding string
}

func newStructureServer(t *testing.T) *structureServer {
	t.Helper()
	s := &structureServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		s.encoding = r.Header.Get("Accept-Encoding")
		s.mu.Unlock()

		switch r.URL.Path {
		case "/download/1hh3.pdb1.gz":
			w.Header().Set("Content-Type", "application/gzip")
			w.Write(fakePDB)
		case "/download/1hh3.pdb1":
			w.Write([]byte("ATOM      1  N   ALA A   1"))
		case "/v1.0/full/173D.mmtf.gz":
			w.Header().Set("Content-Type", "application/gzip")
			w.Write(fakeMMTF)
		case "/broken/1hh3.pdb1.gz":
			w.Header().Set("Content-Length", "100")
			w.Write([]byte("short"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// gatedServer serves fakePDB for any path but holds every request until
// open is called. With partial set, it sends the headers and a short prefix
// of a longer body before waiting, then ends the body early.
type gatedServer struct {
	*httptest.Server
	hits    atomic.Int32
	arrived chan struct{}
	release chan struct{}
	once    sync.Once
	partial bool
}

func newGatedServer(t *testing.T, partial bool) *gatedServer {
	t.Helper()
	s := &gatedServer{
		arrived: make(chan struct{}, 64),
		release: make(chan struct{}),
		partial: partial,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.partial {
			w.Header().Set("Content-Length", "100")
			w.Write([]byte("short"))
			w.(http.Flusher).Flush()
		}
		s.arrived <- struct{}{}
		select {
		case <-s.release:
		case <-r.Context().Done():
			return
		}
		if !s.partial {
			w.Write(fakePDB)
		}
	}))
	// Cleanups run last-in first-out: release the handlers before Close
	// waits on them.
	t.Cleanup(s.Close)
	t.Cleanup(s.open)
	return s
}

func (s *gatedServer) open() { s.once.Do(func() { close(s.release) }) }

func (s *gatedServer) waitArrival(t *testing.T) {
	t.Helper()
	select {
	case <-s.arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
}

type fetchResult struct {
	f   *os.File
	err error
}

func fetchAsync(ctx context.Context, d *Downloader, id string) <-chan fetchResult {
	ch := make(chan fetchResult, 1)
	go func() {
		f, err := d.Fetch(ctx, id)
		ch <- fetchResult{f, err}
	}()
	return ch
}

func (s *structureServer) acceptEncoding() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoding
}

func testPDB(t *testing.T, base string) *PDB {
	t.Helper()
	p, err := NewPDBBuilder().WithURI(base + "/download/").Build()
	require.NoError(t, err)
	return p
}

func testMMTF(t *testing.T, base string) *MMTF {
	t.Helper()
	m, err := NewMMTFBuilder().WithURI(base).Build()
	require.NoError(t, err)
	return m
}

func readAll(t *testing.T, f *os.File) []byte {
	t.Helper()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func TestFetch_PDB(t *testing.T) {
	ts := newStructureServer(t)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))

	f, err := d.Fetch(context.Background(), "1hh3")
	require.NoError(t, err)
	defer f.Close()

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
	assert.Equal(t, fakePDB, readAll(t, f))
}

func TestFetch_MMTF(t *testing.T) {
	ts := newStructureServer(t)
	d := NewDownloader(testMMTF(t, ts.URL), WithHTTPClient(ts.Client()))

	f, err := d.Fetch(context.Background(), "173D")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, fakeMMTF, readAll(t, f))
}

func TestFetch_DisablesCompressionNegotiation(t *testing.T) {
	ts := newStructureServer(t)

	// The test server's client has compression enabled; the request header
	// must still opt out.
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))
	f, err := d.Fetch(context.Background(), "1hh3")
	require.NoError(t, err)
	f.Close()

	assert.Equal(t, "identity", ts.acceptEncoding())
}

func TestFetch_NotFoundIsRequestError(t *testing.T) {
	ts := newStructureServer(t)
	d := NewDownloader(testMMTF(t, ts.URL), WithHTTPClient(ts.Client()))

	f, err := d.Fetch(context.Background(), "nothing")
	require.Error(t, err)
	assert.Nil(t, f)

	assert.True(t, IsKind(err, KindRequest))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ts.URL+"/v1.0/full/nothing.mmtf.gz", rerr.URL)
	assert.Equal(t, int32(1), ts.hits.Load(), "no retry on failure")
}

func TestFetch_TransportError(t *testing.T) {
	ts := newStructureServer(t)
	base := ts.URL
	ts.Close()

	d := NewDownloader(testPDB(t, base))
	_, err := d.Fetch(context.Background(), "1hh3")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}

func TestFetch_CancelledContext(t *testing.T) {
	ts := newStructureServer(t)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Fetch(ctx, "1hh3")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_TruncatedBodyIsIoError(t *testing.T) {
	ts := newStructureServer(t)
	p, err := NewPDBBuilder().WithURI(ts.URL + "/broken/").Build()
	require.NoError(t, err)

	_, err = NewDownloader(p, WithHTTPClient(ts.Client())).Fetch(context.Background(), "1hh3")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindIO))
}

func TestFetch_IndependentHandles(t *testing.T) {
	ts := newStructureServer(t)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))

	first, err := d.Fetch(context.Background(), "1hh3")
	require.NoError(t, err)
	defer first.Close()
	second, err := d.Fetch(context.Background(), "1hh3")
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, int32(2), ts.hits.Load(), "sequential fetches are not cached")

	// Writing through one handle must not show up in the other.
	_, err = first.WriteAt([]byte("XXXX"), 0)
	require.NoError(t, err)
	assert.Equal(t, fakePDB, readAll(t, second))
}

func TestFetch_ConcurrentCallersGetOwnFiles(t *testing.T) {
	ts := newGatedServer(t, false)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))

	const n = 8
	results := make([]<-chan fetchResult, n)
	for i := 0; i < n; i++ {
		results[i] = fetchAsync(context.Background(), d, "1hh3")
	}
	ts.waitArrival(t)
	// Give the remaining callers time to join the in-flight request.
	time.Sleep(100 * time.Millisecond)
	ts.open()

	files := make([]*os.File, n)
	for i := 0; i < n; i++ {
		res := <-results[i]
		require.NoError(t, res.err)
		files[i] = res.f
		assert.Equal(t, fakePDB, readAll(t, files[i]))
		for j := 0; j < i; j++ {
			assert.NotSame(t, files[i], files[j])
		}
	}
	for _, f := range files {
		f.Close()
	}
	assert.Equal(t, int32(1), ts.hits.Load(), "concurrent fetches share one request")
}

func TestFetch_CancelledCallerDoesNotFailOthers(t *testing.T) {
	ts := newGatedServer(t, false)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := fetchAsync(ctx, d, "1hh3")
	ts.waitArrival(t)

	second := fetchAsync(context.Background(), d, "1hh3")
	time.Sleep(100 * time.Millisecond)

	cancel()
	res := <-first
	require.Error(t, res.err)
	assert.True(t, IsKind(res.err, KindTransport))
	assert.ErrorIs(t, res.err, context.Canceled)

	ts.open()
	res = <-second
	require.NoError(t, res.err)
	defer res.f.Close()
	assert.Equal(t, fakePDB, readAll(t, res.f))
	assert.Equal(t, int32(1), ts.hits.Load())
}

func TestGet_CancelledDuringBodyIsTransportError(t *testing.T) {
	ts := newGatedServer(t, true)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))
	url := d.Provider().PrepareURL("1hh3")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := d.get(ctx, url)
		done <- err
	}()
	ts.waitArrival(t)
	cancel()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("get did not return after cancel")
	}
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.False(t, IsKind(err, KindIO))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGet_ShortBodyIsIoError(t *testing.T) {
	ts := newGatedServer(t, true)
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()))
	url := d.Provider().PrepareURL("1hh3")

	done := make(chan error, 1)
	go func() {
		_, err := d.get(context.Background(), url)
		done <- err
	}()
	ts.waitArrival(t)
	ts.open()

	err := <-done
	require.Error(t, err)
	assert.True(t, IsKind(err, KindIO))
}

func TestFetch_TransientFileIsAnonymous(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("open files cannot be unlinked on windows")
	}
	ts := newStructureServer(t)
	tmp := t.TempDir()
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()), WithTempDir(tmp))

	f, err := d.Fetch(context.Background(), "1hh3")
	require.NoError(t, err)
	defer f.Close()

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, fakePDB, readAll(t, f))
}

func TestFetch_MissingTempDirIsIoError(t *testing.T) {
	ts := newStructureServer(t)
	missing := t.TempDir() + "/missing"
	d := NewDownloader(testPDB(t, ts.URL), WithHTTPClient(ts.Client()), WithTempDir(missing))

	_, err := d.Fetch(context.Background(), "1hh3")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindIO))
}

func TestNewDownloader_Defaults(t *testing.T) {
	p := NewMMTF()
	d := NewDownloader(p, WithHTTPClient(nil))
	assert.Same(t, p, d.Provider())
	require.NotNil(t, d.client)
}
