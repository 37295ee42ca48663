package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matsen/ringmap/internal/taxonomy"
	_ "modernc.org/sqlite"
)

// ErrEmptyCatalog is returned when a catalog or record file holds no records.
var ErrEmptyCatalog = errors.New("catalog is empty")

// DB wraps a SQLite catalog connection.
type DB struct {
	db *sql.DB
}

// selectNodeFields contains the standard field list for SELECT queries.
const selectNodeFields = `hierarchy, path, id, name, type,
	members_json, models_json, scenes_json`

// OpenDB opens or creates a SQLite catalog at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the catalog schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per taxonomy node; path orders siblings within a hierarchy
		CREATE TABLE IF NOT EXISTS nodes (
			hierarchy TEXT NOT NULL,
			path TEXT NOT NULL,
			seq INTEGER NOT NULL,
			id TEXT,
			name TEXT,
			type TEXT,
			members_json TEXT,
			models_json TEXT,
			scenes_json TEXT,
			PRIMARY KEY (hierarchy, path)
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_id ON nodes(id) WHERE id IS NOT NULL AND id != '';
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromRecords clears the catalog and fills it with records.
func (d *DB) RebuildFromRecords(records []taxonomy.Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return 0, fmt.Errorf("clearing nodes table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (
			hierarchy, path, seq, id, name, type,
			members_json, models_json, scenes_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing nodes insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		members, err := marshalList(rec.Members)
		if err != nil {
			return 0, fmt.Errorf("marshaling members for %s: %w", rec.Path, err)
		}
		models, err := marshalList(rec.Models)
		if err != nil {
			return 0, fmt.Errorf("marshaling models for %s: %w", rec.Path, err)
		}
		scenes, err := marshalList(rec.Scenes)
		if err != nil {
			return 0, fmt.Errorf("marshaling scenes for %s: %w", rec.Path, err)
		}

		_, err = stmt.Exec(
			string(rec.Hierarchy), rec.Path, i,
			nullableStringValue(rec.ID), nullableStringValue(rec.Name), nullableStringValue(string(rec.Type)),
			members, models, scenes,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting node %s:%s: %w", rec.Hierarchy, rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing catalog: %w", err)
	}
	return len(records), nil
}

// Records returns every record in insertion order.
func (d *DB) Records() ([]taxonomy.Record, error) {
	rows, err := d.db.Query(`SELECT ` + selectNodeFields + ` FROM nodes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// FindByID returns the records carrying id, in insertion order.
func (d *DB) FindByID(id string) ([]taxonomy.Record, error) {
	rows, err := d.db.Query(`SELECT `+selectNodeFields+` FROM nodes WHERE id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("querying nodes by id: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the number of records per hierarchy.
func (d *DB) Count() (map[taxonomy.ModuleType]int, error) {
	rows, err := d.db.Query(`SELECT hierarchy, COUNT(*) FROM nodes GROUP BY hierarchy`)
	if err != nil {
		return nil, fmt.Errorf("counting nodes: %w", err)
	}
	defer rows.Close()

	counts := make(map[taxonomy.ModuleType]int)
	for rows.Next() {
		var h string
		var n int
		if err := rows.Scan(&h, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[taxonomy.ModuleType(h)] = n
	}
	return counts, rows.Err()
}

// LoadDataset assembles the catalog into a dataset.
func (d *DB) LoadDataset() (*taxonomy.Dataset, error) {
	records, err := d.Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	return taxonomy.Assemble(records)
}

func scanRecords(rows *sql.Rows) ([]taxonomy.Record, error) {
	var records []taxonomy.Record
	for rows.Next() {
		var (
			hierarchy, path                     string
			id, name, typ                       sql.NullString
			membersJSON, modelsJSON, scenesJSON sql.NullString
		)
		if err := rows.Scan(&hierarchy, &path, &id, &name, &typ, &membersJSON, &modelsJSON, &scenesJSON); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}

		rec := taxonomy.Record{
			Hierarchy: taxonomy.ModuleType(hierarchy),
			Path:      path,
			ID:        id.String,
			Name:      name.String,
			Type:      taxonomy.ModuleType(typ.String),
		}
		var err error
		if rec.Members, err = unmarshalList(membersJSON); err != nil {
			return nil, fmt.Errorf("parsing members of %s:%s: %w", hierarchy, path, err)
		}
		if rec.Models, err = unmarshalList(modelsJSON); err != nil {
			return nil, fmt.Errorf("parsing models of %s:%s: %w", hierarchy, path, err)
		}
		if rec.Scenes, err = unmarshalList(scenesJSON); err != nil {
			return nil, fmt.Errorf("parsing scenes of %s:%s: %w", hierarchy, path, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return records, nil
}

// marshalList encodes a list as JSON, or NULL when empty.
func marshalList(items []string) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalList(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s.String), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// nullableStringValue returns nil for empty strings.
func nullableStringValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}
