// Package rom reads cartridge images from disk, unpacking the common archive
// formats ROM sets are distributed in.
package rom

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
)

// ErrNoROM is returned when an archive holds no file to load.
var ErrNoROM = errors.New("archive contains no rom")

var romExtensions = []string{".gb", ".gbc", ".bin"}

// Load reads the file at path. Files ending in .gz, .zip or .7z are
// decompressed; archives yield their first .gb entry, or their first file.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		data, err = gunzip(data)
	case ".zip":
		data, err = unzip(data)
	case ".7z":
		data, err = un7z(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return data, nil
}

// Fingerprint returns the 64-bit xxhash of a ROM image.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// archiveEntry is the common view over zip and 7z entries.
type archiveEntry struct {
	name string
	open func() (io.ReadCloser, error)
}

func unzip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var entries []archiveEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, archiveEntry{name: f.Name, open: f.Open})
	}
	return readFirstROM(entries)
}

func un7z(data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var entries []archiveEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, archiveEntry{name: f.Name, open: f.Open})
	}
	return readFirstROM(entries)
}

func readFirstROM(entries []archiveEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoROM
	}

	chosen := entries[0]
	for _, e := range entries {
		if isROMName(e.name) {
			chosen = e
			break
		}
	}

	rc, err := chosen.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func isROMName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range romExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
