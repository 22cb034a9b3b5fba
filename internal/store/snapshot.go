package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

// ReadSnapshot decodes an enriched snapshot: a JSON array of products.
func ReadSnapshot(r io.Reader) ([]catalog.EnrichedProduct, error) {
	var products []catalog.EnrichedProduct
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if products == nil {
		products = []catalog.EnrichedProduct{}
	}
	return products, nil
}

// WriteSnapshot encodes products as an indented JSON array.
func WriteSnapshot(w io.Writer, products []catalog.EnrichedProduct) error {
	if products == nil {
		products = []catalog.EnrichedProduct{}
	}
	if err := writeJSON(w, products); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Load reads the snapshot at path into a catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	products, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(products), nil
}

// Save writes products to path. The file is replaced only after the new
// content is fully written.
func Save(path string, products []catalog.EnrichedProduct) error {
	return replaceFile(path, func(w io.Writer) error {
		return WriteSnapshot(w, products)
	})
}

// SaveRaw writes fetched listings to path in the raw snapshot shape.
func SaveRaw(path string, raws []catalog.RawProduct) error {
	if raws == nil {
		raws = []catalog.RawProduct{}
	}
	return replaceFile(path, func(w io.Writer) error {
		if err := writeJSON(w, raws); err != nil {
			return fmt.Errorf("encoding raw snapshot: %w", err)
		}
		return nil
	})
}

func replaceFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
