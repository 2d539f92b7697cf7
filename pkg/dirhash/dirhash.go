// Package dirhash computes BLAKE2b-256 content hashes of files and directory
// trees. Directory hashes are deterministic: entries are visited in lexical
// order, so the same tree always yields the same hash.
//
// Tree builds a per-entry hash breakdown of a directory; HashFiles fans file
// hashing out over a worker pool.
package dirhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// HashFile returns the hex-encoded BLAKE2b-256 hash of the file's contents.
// The file is streamed, not read into memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("dirhash: open %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("dirhash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("dirhash: read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashString returns the hex-encoded BLAKE2b-256 hash of the input.
func HashString(input string) string {
	sum := blake2b.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashDir returns a single hex-encoded BLAKE2b-256 hash covering the contents
// of every regular file under root, visited in lexical order. With
// includeNames each file's path is mixed into the hash after its contents, so
// trees with identical contents under different names hash differently.
func HashDir(root string, includeNames bool) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("dirhash: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		if includeNames {
			h.Write([]byte(path))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("dirhash: walk %s: %w", root, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
