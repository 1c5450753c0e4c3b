// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rcsb downloads molecular structure files from the RCSB repository
// and saves them under a name derived from the structure identifier.
//
// Two providers are supported: PDB serves biological-assembly coordinate
// files (.pdb1, optionally gzipped) and MMTF serves binary structure files
// (.mmtf.gz). A Downloader binds a provider to an HTTP client and runs the
// fetch and save pipeline.
package rcsb

import (
	"fmt"
	"strings"
)

// Provider turns a structure identifier into a remote URL and a local
// filename. Implementations are immutable.
type Provider interface {
	// Name returns the provider name ("pdb" or "mmtf").
	Name() string

	// FormatURL returns the base URL that identifiers are appended to.
	FormatURL() string

	// FormatExt returns the identifier with its file extension. It is both
	// the last URL segment and the saved filename.
	FormatExt(id string) string

	// PrepareURL returns FormatURL() + FormatExt(id).
	PrepareURL(id string) string
}

// Provider names accepted by ProviderByName.
const (
	NamePDB  = "pdb"
	NameMMTF = "mmtf"
)

// ProviderByName returns a provider with default configuration.
func ProviderByName(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NamePDB:
		return NewPDB(), nil
	case NameMMTF:
		return NewMMTF(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want %s or %s)", ErrInvalidConfig, name, NamePDB, NameMMTF)
	}
}

func prepareURL(p Provider, id string) string {
	return p.FormatURL() + p.FormatExt(id)
}
