package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/ringmap/internal/taxonomy"
)

// IsCatalogPath reports whether path names a SQLite catalog.
func IsCatalogPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load reads a dataset from any supported source: JSON or YAML documents,
// JSONL record files and SQLite catalogs.
func Load(path string) (*taxonomy.Dataset, error) {
	switch {
	case IsCatalogPath(path):
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		db, err := OpenDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		ds, err := db.LoadDataset()
		if err != nil {
			return nil, fmt.Errorf("loading catalog %s: %w", path, err)
		}
		return ds, nil

	case strings.EqualFold(filepath.Ext(path), ".jsonl"):
		ds, err := ReadJSONLDataset(path)
		if err != nil {
			return nil, fmt.Errorf("loading records %s: %w", path, err)
		}
		return ds, nil

	default:
		return taxonomy.LoadFile(path)
	}
}

// Import loads a dataset from path and writes it into the catalog at dbPath.
func Import(path, dbPath string) (int, error) {
	ds, err := Load(path)
	if err != nil {
		return 0, err
	}
	db, err := OpenDB(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.RebuildFromRecords(taxonomy.Flatten(ds))
}

// Export writes the catalog at dbPath as a JSONL record file.
func Export(dbPath, out string) (int, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	records, err := db.Records()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, ErrEmptyCatalog
	}
	if err := WriteRecords(out, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
