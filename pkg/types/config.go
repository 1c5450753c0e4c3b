package types

import "time"

// HTTPConfig holds HTTP settings for the fetch pipeline.
type HTTPConfig struct {
	// Timeout is the whole-request timeout applied to the client. Zero means
	// no client timeout; callers bound requests through the context instead.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "structure-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PDBSettings holds overrides for the coordinate-format provider.
// Empty fields keep the provider defaults.
type PDBSettings struct {
	// URI is the download base, including its trailing slash.
	URI string `json:"uri" yaml:"uri"`

	// Compression is "compressed" or "uncompressed".
	Compression string `json:"compression" yaml:"compression"`
}

// MMTFSettings holds overrides for the binary-format provider.
// Empty fields keep the provider defaults.
type MMTFSettings struct {
	URI            string `json:"uri" yaml:"uri"`
	Version        string `json:"version" yaml:"version"`
	Representation string `json:"representation" yaml:"representation"`
}

// LogConfig selects the CLI logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "development" or "production".
	Format string `json:"format" yaml:"format"`
}

// FetchConfig groups everything the get command needs.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Format selects the provider: "pdb" or "mmtf".
	Format string `json:"format" yaml:"format"`

	// Dir is the existing directory files are saved into.
	Dir string `json:"dir" yaml:"dir"`

	PDB  PDBSettings  `json:"pdb" yaml:"pdb"`
	MMTF MMTFSettings `json:"mmtf" yaml:"mmtf"`

	// LedgerPath is the SQLite file recording saved structures. Empty disables
	// the ledger.
	LedgerPath string `json:"ledger,omitempty" yaml:"ledger,omitempty"`

	Log LogConfig `json:"log" yaml:"log"`
}
