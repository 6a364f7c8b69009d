package lexeme

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/temporal-IPA/protoform/pkg/phono"
)

// LexemesTableSQL creates the table read by ReadSQLite. forms holds the
// forms of one language, separated as in the text formats.
const LexemesTableSQL = `CREATE TABLE IF NOT EXISTS lexemes (
    lang_name TEXT NOT NULL,
    lang_code TEXT,
    forms     TEXT NOT NULL
)`

// ReadSQLite reads the lexemes table in rowid order.
func ReadSQLite(ctx context.Context, db *sql.DB) ([]Row, error) {
	rows, err := db.QueryContext(ctx, `SELECT lang_name, COALESCE(lang_code, ''), forms FROM lexemes ORDER BY rowid`)
	if err != nil {
		return nil, &DatabaseError{Source: "lexemes", Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
	}
	defer rows.Close()

	var out []Row
	for pos := 1; rows.Next(); pos++ {
		r := Row{Pos: pos}
		var forms string
		if err := rows.Scan(&r.Name, &r.Code, &forms); err != nil {
			return nil, &DatabaseError{Source: "lexemes", Row: pos, Err: fmt.Errorf("%w: %v", ErrMalformedDatabase, err)}
		}
		r.Forms = SplitForms(forms)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read lexemes: %w", err)
	}
	return out, nil
}

// LoadSQLite builds a database from the lexemes table at path.
func LoadSQLite(ctx context.Context, path string) (*Database, error) {
	db, err := phono.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := ReadSQLite(ctx, db)
	if err != nil {
		return nil, err
	}
	return Build(path, rows)
}
