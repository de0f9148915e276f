package vecindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Binary artifact layout: a fixed header (magic, version, dimension, count)
// followed by count*dim float32 values in little-endian order. The mapping
// artifact is its own file with a parallel header and count int64 movie IDs.
// Vectors round-trip bit-for-bit so inner-product results are reproducible
// across save/load.
const (
	indexMagic    = "MVIX"
	mappingMagic  = "MVMP"
	formatVersion = 1
)

// Save writes the index to path, creating parent directories as needed.
func (ix *Index) Save(path string) error {
	if len(ix.vectors) == 0 {
		return ErrNotBuilt
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(indexMagic); err != nil {
		return err
	}
	header := []uint64{formatVersion, uint64(ix.dim), uint64(len(ix.vectors))}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	for _, row := range ix.vectors {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads an index previously written by Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(indexMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != indexMagic {
		return nil, fmt.Errorf("not a vector index file: %s", path)
	}

	var version, dim, count uint64
	for _, h := range []*uint64{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, h); err != nil {
			return nil, fmt.Errorf("failed to read index header: %w", err)
		}
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", version)
	}

	ix := New(int(dim))
	ix.vectors = make([][]float32, count)
	for i := range ix.vectors {
		row := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("failed to read vector %d: %w", i, err)
		}
		ix.vectors[i] = row
	}
	return ix, nil
}

// SaveMapping writes the row-index → movie-ID mapping to path.
func SaveMapping(path string, movieIDs []int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mapping file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(mappingMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(movieIDs))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, movieIDs); err != nil {
		return err
	}
	return w.Flush()
}

// LoadMapping reads a mapping previously written by SaveMapping.
func LoadMapping(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(mappingMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != mappingMagic {
		return nil, fmt.Errorf("not a mapping file: %s", path)
	}

	var version, count uint64
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read mapping header: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported mapping format version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read mapping header: %w", err)
	}

	ids := make([]int64, count)
	if err := binary.Read(r, binary.LittleEndian, ids); err != nil {
		return nil, fmt.Errorf("failed to read mapping ids: %w", err)
	}
	return ids, nil
}

// LoadWithMapping loads the paired index and mapping artifacts and verifies
// their alignment. Rebuilding one artifact without the other is an invalid
// state the loader refuses rather than truncating or padding.
func LoadWithMapping(indexPath, mappingPath string) (*Index, []int64, error) {
	ix, err := Load(indexPath)
	if err != nil {
		return nil, nil, err
	}
	ids, err := LoadMapping(mappingPath)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) != ix.Count() {
		return nil, nil, fmt.Errorf("%w: index has %d vectors, mapping has %d ids",
			ErrAlignment, ix.Count(), len(ids))
	}
	return ix, ids, nil
}
