// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for structure-fetch.
package types

import "time"

// FetchRecord describes one structure file saved to disk.
type FetchRecord struct {
	// Identifier is the structure identifier as given by the caller (e.g. "1hh3").
	Identifier string `json:"identifier" yaml:"identifier"`

	// Format is the provider name: "pdb" or "mmtf".
	Format string `json:"format" yaml:"format"`

	// URL is the remote resource the bytes came from.
	URL string `json:"url" yaml:"url"`

	// Path is the local destination file.
	Path string `json:"path" yaml:"path"`

	// Size is the number of bytes written.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the hex digest of the saved bytes.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// FetchedAt is when the file was saved, in UTC.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
