package phono

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// SegmentsTableSQL creates the table read by ReadSQLite. The features
// column holds a JSON object, as in the JSON format.
const SegmentsTableSQL = `CREATE TABLE IF NOT EXISTS segments (
    symbol   TEXT NOT NULL,
    name     TEXT,
    features TEXT NOT NULL
)`

// sqliteMagic starts every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// IsSQLite reports whether header starts like a SQLite database file.
func IsSQLite(header []byte) bool { return bytes.HasPrefix(header, sqliteMagic) }

// OpenSQLite opens a SQLite database with the pure-Go driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return db, nil
}

// ReadSQLite reads the segments table in rowid order.
func ReadSQLite(ctx context.Context, db *sql.DB) ([]Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT symbol, COALESCE(name, ''), features FROM segments ORDER BY rowid`)
	if err != nil {
		return nil, &DatabaseError{Source: "segments", Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
	}
	defer rows.Close()

	var out []Record
	for pos := 1; rows.Next(); pos++ {
		var rec Record
		var feats string
		if err := rows.Scan(&rec.Symbol, &rec.Name, &feats); err != nil {
			return nil, &DatabaseError{Source: "segments", Record: pos, Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
		}
		v, err := decodeFeatureObject([]byte(feats))
		if err != nil {
			return nil, &DatabaseError{Source: "segments", Record: pos, Symbol: rec.Symbol, Field: "features",
				Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
		}
		rec.Features = v
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	return out, nil
}

// AddSQLite merges the segments table of the database at path.
func (b *Builder) AddSQLite(ctx context.Context, path string) error {
	db, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	records, err := ReadSQLite(ctx, db)
	if err != nil {
		return withSource(err, path)
	}
	return b.AddRecords(path, records)
}

// AddFile merges the file at an operating system path, routing SQLite
// databases to AddSQLite and every other file through format sniffing.
func (b *Builder) AddFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	header := make([]byte, len(sqliteMagic))
	n, _ := io.ReadFull(f, header)
	if IsSQLite(header[:n]) {
		return b.AddSQLite(ctx, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", path, err)
	}
	return b.AddReader(path, f)
}
