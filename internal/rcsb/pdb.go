// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import (
	"fmt"
	"strings"
)

// DefaultPDBURI is the RCSB coordinate file download endpoint.
const DefaultPDBURI = "https://files.rcsb.org/download/"

// Compression selects whether coordinate files are fetched gzipped.
type Compression int

const (
	Compressed Compression = iota
	Uncompressed
)

func (c Compression) String() string {
	switch c {
	case Compressed:
		return "compressed"
	case Uncompressed:
		return "uncompressed"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

func (c Compression) valid() bool {
	return c == Compressed || c == Uncompressed
}

// ParseCompression maps a configuration string to a Compression.
// Unknown values are an error rather than a silent fallback.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compressed", "gz", "gzip":
		return Compressed, nil
	case "uncompressed", "none", "plain":
		return Uncompressed, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", ErrInvalidConfig, s)
	}
}

// PDBConfig is the configuration of a PDB provider.
type PDBConfig struct {
	// BaseURI is used verbatim as the URL prefix and must carry any
	// trailing slash.
	BaseURI     string
	Compression Compression
}

// PDB fetches biological assembly coordinate files.
type PDB struct {
	cfg PDBConfig
}

var _ Provider = (*PDB)(nil)

// NewPDB returns a provider with the default endpoint and compression.
func NewPDB() *PDB {
	return &PDB{cfg: PDBConfig{BaseURI: DefaultPDBURI, Compression: Compressed}}
}

// Config returns a copy of the provider configuration.
func (p *PDB) Config() PDBConfig { return p.cfg }

func (p *PDB) Name() string { return NamePDB }

func (p *PDB) FormatURL() string { return p.cfg.BaseURI }

func (p *PDB) FormatExt(id string) string {
	if p.cfg.Compression == Compressed {
		return id + ".pdb1.gz"
	}
	return id + ".pdb1"
}

func (p *PDB) PrepareURL(id string) string { return prepareURL(p, id) }

// PDBBuilder accumulates overrides on top of the defaults. The provider it
// builds does not share state with the builder.
type PDBBuilder struct {
	cfg PDBConfig
}

// NewPDBBuilder starts from the default configuration.
func NewPDBBuilder() *PDBBuilder {
	return &PDBBuilder{cfg: NewPDB().cfg}
}

func (b *PDBBuilder) WithURI(uri string) *PDBBuilder {
	b.cfg.BaseURI = uri
	return b
}

func (b *PDBBuilder) WithCompression(c Compression) *PDBBuilder {
	b.cfg.Compression = c
	return b
}

// Build validates the accumulated configuration and returns a frozen provider.
func (b *PDBBuilder) Build() (*PDB, error) {
	if b.cfg.BaseURI == "" {
		return nil, fmt.Errorf("%w: pdb base URI is empty", ErrInvalidConfig)
	}
	if !b.cfg.Compression.valid() {
		return nil, fmt.Errorf("%w: pdb compression %s", ErrInvalidConfig, b.cfg.Compression)
	}
	return &PDB{cfg: b.cfg}, nil
}
