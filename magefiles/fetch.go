//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Smoke builds the CLI and downloads one structure in each format into a
// scratch directory. It needs network access to RCSB.
func Smoke() error {
	mg.Deps(Build)

	dir, err := os.MkdirTemp("", "structure-fetch-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	bin := "./" + binDir + "/" + binName
	if err := sh.RunV(bin, "get", "1hh3", "--format", "pdb", "--dir", dir); err != nil {
		return fmt.Errorf("pdb download: %w", err)
	}
	if err := sh.RunV(bin, "get", "173D", "--format", "mmtf", "--dir", dir); err != nil {
		return fmt.Errorf("mmtf download: %w", err)
	}
	return nil
}
