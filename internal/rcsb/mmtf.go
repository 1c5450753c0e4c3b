// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import "fmt"

// Defaults for the MMTF service.
const (
	DefaultMMTFURI            = "https://mmtf.rcsb.org"
	DefaultMMTFVersion        = "1.0"
	DefaultMMTFRepresentation = "full"
)

// MMTFConfig is the configuration of an MMTF provider.
type MMTFConfig struct {
	BaseURI string

	// Version is the API version without the "v" prefix (e.g. "1.0").
	Version string

	// Representation is the detail level, e.g. "full" or "reduced".
	Representation string
}

// MMTF fetches gzipped binary structure files.
type MMTF struct {
	cfg MMTFConfig
}

var _ Provider = (*MMTF)(nil)

// NewMMTF returns a provider for the default endpoint, version and
// representation.
func NewMMTF() *MMTF {
	return &MMTF{cfg: MMTFConfig{
		BaseURI:        DefaultMMTFURI,
		Version:        DefaultMMTFVersion,
		Representation: DefaultMMTFRepresentation,
	}}
}

// Config returns a copy of the provider configuration.
func (m *MMTF) Config() MMTFConfig { return m.cfg }

func (m *MMTF) Name() string { return NameMMTF }

// FormatURL returns "{uri}/v{version}/{representation}/".
func (m *MMTF) FormatURL() string {
	return fmt.Sprintf("%s/v%s/%s/", m.cfg.BaseURI, m.cfg.Version, m.cfg.Representation)
}

// FormatExt always appends ".mmtf.gz"; the service has no uncompressed form.
func (m *MMTF) FormatExt(id string) string { return id + ".mmtf.gz" }

func (m *MMTF) PrepareURL(id string) string { return prepareURL(m, id) }

// MMTFBuilder accumulates overrides on top of the defaults.
type MMTFBuilder struct {
	cfg MMTFConfig
}

func NewMMTFBuilder() *MMTFBuilder {
	return &MMTFBuilder{cfg: NewMMTF().cfg}
}

func (b *MMTFBuilder) WithURI(uri string) *MMTFBuilder {
	b.cfg.BaseURI = uri
	return b
}

func (b *MMTFBuilder) WithVersion(version string) *MMTFBuilder {
	b.cfg.Version = version
	return b
}

func (b *MMTFBuilder) WithRepresentation(representation string) *MMTFBuilder {
	b.cfg.Representation = representation
	return b
}

// Build validates the accumulated configuration and returns a frozen provider.
func (b *MMTFBuilder) Build() (*MMTF, error) {
	switch {
	case b.cfg.BaseURI == "":
		return nil, fmt.Errorf("%w: mmtf base URI is empty", ErrInvalidConfig)
	case b.cfg.Version == "":
		return nil, fmt.Errorf("%w: mmtf version is empty", ErrInvalidConfig)
	case b.cfg.Representation == "":
		return nil, fmt.Errorf("%w: mmtf representation is empty", ErrInvalidConfig)
	}
	return &MMTF{cfg: b.cfg}, nil
}
