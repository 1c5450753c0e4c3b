// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rcsb

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FetchAndSaveOn fetches id and saves it as dir/FormatExt(id), replacing any
// existing file. dir must be an existing directory; it is never created.
//
// The bytes are written to a temporary sibling and renamed into place, so a
// failed save leaves no partial destination. The returned file is open for
// reading and writing and positioned at its end. The caller owns it.
func (d *Downloader) FetchAndSaveOn(ctx context.Context, id, dir string) (*os.File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, ioError(dir, fmt.Errorf("invalid path: %w", err))
	}
	if !info.IsDir() {
		return nil, ioError(dir, fmt.Errorf("invalid path: %w", ErrNotDirectory))
	}

	name := d.provider.FormatExt(id)
	dest := filepath.Join(dir, name)

	src, err := d.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, ioError(src.Name(), fmt.Errorf("rewinding temp file: %w", err))
	}

	if err := writeAtomic(dest, src); err != nil {
		return nil, err
	}

	out, err := os.OpenFile(dest, os.O_RDWR, 0)
	if err != nil {
		return nil, ioError(dest, fmt.Errorf("opening saved file: %w", err))
	}
	if _, err := out.Seek(0, io.SeekEnd); err != nil {
		out.Close()
		return nil, ioError(dest, fmt.Errorf("seeking saved file: %w", err))
	}
	return out, nil
}

// writeAtomic copies r into a temporary file next to dest and renames it over
// dest.
func writeAtomic(dest string, r io.Reader) error {
	dir, base := filepath.Split(dest)
	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return ioError(dest, fmt.Errorf("creating temp file: %w", err))
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return ioError(dest, err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		return fail(fmt.Errorf("writing file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing file: %w", err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("setting permissions: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return ioError(dest, fmt.Errorf("closing temp file: %w", err))
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return ioError(dest, fmt.Errorf("renaming temp file: %w", err))
	}
	return nil
}
