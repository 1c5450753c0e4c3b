// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the HTTP client used to talk to the structure
// repositories.
package httputil

import (
	"net/http"

	"github.com/pdiddy/structure-fetch/pkg/types"
)

// DefaultUserAgent is sent when HTTPConfig.UserAgent is empty.
const DefaultUserAgent = "structure-fetch/0.1"

// NewClient returns a client with response compression negotiation disabled.
// Structure files are already gzip archives; a transparently decompressing
// transport would hand back different bytes than the server stored.
func NewClient(cfg types.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &userAgentTransport{
			base:      transport,
			userAgent: ua,
		},
	}
}

// userAgentTransport sets User-Agent on requests that do not carry one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
