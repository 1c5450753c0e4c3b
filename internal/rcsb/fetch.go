// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/structure-fetch/internal/httputil"
	"github.com/pdiddy/structure-fetch/pkg/types"
)

// Downloader runs the fetch and save pipeline for one provider.
// It is safe for concurrent use.
type Downloader struct {
	provider Provider
	client   *http.Client
	tempDir  string

	// flight collapses concurrent GETs of the same URL into one round trip.
	flight singleflight.Group
}

// Option customizes a Downloader.
type Option func(*Downloader)

// WithHTTPClient replaces the default client. Fetch still sends
// Accept-Encoding: identity, so a client with compression enabled does not
// negotiate gzip.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithTempDir sets the directory transient files are created in.
// The default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(d *Downloader) { d.tempDir = dir }
}

// NewDownloader binds p to an HTTP client built by httputil.NewClient unless
// WithHTTPClient is given.
func NewDownloader(p Provider, opts ...Option) *Downloader {
	d := &Downloader{provider: p}
	for _, opt := range opts {
		opt(d)
	}
	if d.client == nil {
		d.client = httputil.NewClient(types.HTTPConfig{})
	}
	return d
}

// Provider returns the provider the downloader was built with.
func (d *Downloader) Provider() Provider { return d.provider }

// Fetch downloads the structure file for id into a fresh transient file and
// returns it positioned at offset 0. The caller owns the file and must close
// it. Every call returns a new file; nothing is cached.
func (d *Downloader) Fetch(ctx context.Context, id string) (*os.File, error) {
	url := d.provider.PrepareURL(id)

	body, err := d.body(ctx, url)
	if err != nil {
		return nil, err
	}
	return d.transient(body)
}

// body returns the response body for url. Concurrent callers asking for the
// same URL share one request; each still gets its own transient file.
//
// The shared request is detached from the cancellation of whichever caller
// started it, so one caller leaving never fails the others. Each caller stops
// waiting when its own ctx ends; the request itself is bounded by the client
// timeout.
func (d *Downloader) body(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, transportError(url, err)
	}
	shared := context.WithoutCancel(ctx)
	ch := d.flight.DoChan(url, func() (any, error) {
		return d.get(shared, url)
	})
	select {
	case <-ctx.Done():
		return nil, transportError(url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, transportError(url, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, transportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, requestError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, transportError(url, fmt.Errorf("reading response body: %w", cerr))
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, transportError(url, fmt.Errorf("reading response body: %w", err))
		}
		return nil, &Error{Kind: KindIO, URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}
	return body, nil
}

// transient writes body to an anonymous temporary file and rewinds it.
func (d *Downloader) transient(body []byte) (*os.File, error) {
	f, err := os.CreateTemp(d.tempDir, "rcsb-*")
	if err != nil {
		return nil, ioError(d.tempDir, fmt.Errorf("creating temp file: %w", err))
	}
	// Unlinked while open; where the platform refuses, the file stays in
	// the temp directory.
	os.Remove(f.Name())

	if _, err := f.Write(body); err != nil {
		f.Close()
		return nil, ioError(f.Name(), fmt.Errorf("writing temp file: %w", err))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, ioError(f.Name(), fmt.Errorf("rewinding temp file: %w", err))
	}
	return f, nil
}

// DownloadPDB fetches id with the default PDB provider and client.
func DownloadPDB(ctx context.Context, id string) (*os.File, error) {
	return NewDownloader(NewPDB()).Fetch(ctx, id)
}

// DownloadMMTF fetches id with the default MMTF provider and client.
func DownloadMMTF(ctx context.Context, id string) (*os.File, error) {
	return NewDownloader(NewMMTF()).Fetch(ctx, id)
}
