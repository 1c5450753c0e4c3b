// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import (
	"errors"
	"fmt"
)

// Kind classifies a download failure. Callers branch on Kind, not on
// message text.
type Kind string

const (
	// KindRequest means the server answered with a non-success status.
	KindRequest Kind = "Request"

	// KindIO covers local failures: bad destination, create, read, write,
	// rename.
	KindIO Kind = "Io"

	// KindTransport covers failures below HTTP: DNS, connect, TLS, and
	// context cancellation.
	KindTransport Kind = "Transport"
)

var (
	// ErrInvalidConfig is returned by builders and ParseCompression.
	ErrInvalidConfig = errors.New("rcsb: invalid configuration")

	// ErrNotDirectory is wrapped by the Io error FetchAndSaveOn returns for a
	// destination that is not an existing directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Error is the structured error returned by Fetch and FetchAndSaveOn.
// Use errors.As or IsKind to inspect it.
type Error struct {
	Kind Kind

	// StatusCode is the HTTP status for KindRequest, zero otherwise.
	StatusCode int

	// URL is the remote resource, when known.
	URL string

	// Path is the local file or directory involved, when known.
	Path string

	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindRequest:
		return fmt.Sprintf("rcsb: HTTP %d from %s", e.StatusCode, e.URL)
	case KindTransport:
		return fmt.Sprintf("rcsb: transport error for %s: %v", e.URL, e.Err)
	default:
		if e.Path != "" {
			return fmt.Sprintf("rcsb: %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("rcsb: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func requestError(url string, status int) error {
	return &Error{Kind: KindRequest, StatusCode: status, URL: url}
}

func transportError(url string, err error) error {
	return &Error{Kind: KindTransport, URL: url, Err: err}
}

func ioError(path string, err error) error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// StatusCode returns the HTTP status carried by a Request error, or 0.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindRequest {
		return 0
	}
	return e.StatusCode
}
