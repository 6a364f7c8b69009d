package lexeme

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/temporal-IPA/protoform/pkg/conversion"
	"github.com/temporal-IPA/protoform/pkg/phono"
)

// Kind identifies the format of a cognate source.
type Kind string

const (
	// KindJSON identifies a JSON array of language rows:
	//   [{"lang_name": "Latin", "lang_code": "lat", "forms": "pater, mater"}, ...]
	// forms may also be a JSON array of strings.
	KindJSON Kind = "json_lexemes"

	// KindPipedTxt identifies the tab-separated text format:
	//   <lang_code>\t<Lang Name>\t<form1> | <form2> | ...
	KindPipedTxt Kind = "piped_txt"

	// KindSlashedTxt identifies the slashed text format:
	//   <lang_code>\t/form1/;/form2/
	KindSlashedTxt Kind = "slashed_txt"

	// KindSQLite identifies a SQLite database with a lexemes table.
	KindSQLite Kind = "sqlite_lexemes"
)

const sniffLen = 4 * 1024

// OnRowFunc is called by a Loader for each decoded row.
type OnRowFunc func(r Row) error

// Loader parses a cognate source and emits its rows in order.
type Loader interface {
	Kind() Kind
	Sniff(sniff []byte, isEOF bool) bool
	Load(r io.Reader, emit OnRowFunc) error
}

var (
	builtinLoaders = []Loader{
		&JSONLoader{},
		&lineLoader{kind: KindSlashedTxt, sniffFunc: sniffSlashedTxt, parseLine: parseSlashedTxtLine},
		&lineLoader{kind: KindPipedTxt, sniffFunc: sniffPipedTxt, parseLine: parsePipedTxtLine},
	}
	defaultLoader Loader = builtinLoaders[0]
)

// RegisterLoader adds a Loader consulted after the built-in ones.
func RegisterLoader(p Loader) {
	if p != nil {
		builtinLoaders = append(builtinLoaders, p)
	}
}

func selectLoader(sniff []byte, isEOF bool) Loader {
	for _, p := range builtinLoaders {
		if p.Sniff(sniff, isEOF) {
			return p
		}
	}
	return defaultLoader
}

// ReadRows sniffs r, decodes it from encoding (UTF-8 when empty) and
// returns its rows.
func ReadRows(name string, r io.Reader, encoding string) ([]Row, error) {
	r, err := conversion.NewReader(r, encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	buf := make([]byte, sniffLen)
	n, readErr := io.ReadFull(r, buf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return nil, fmt.Errorf("sniff %s: %w", name, readErr)
	}
	buf = buf[:n]
	isEOF := readErr == io.EOF || readErr == io.ErrUnexpectedEOF || n == 0

	pl := selectLoader(buf, isEOF)
	var rows []Row
	err = pl.Load(io.MultiReader(bytes.NewReader(buf), r), func(row Row) error {
		row.Pos = len(rows) + 1
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		var dbErr *DatabaseError
		if errors.As(err, &dbErr) {
			if dbErr.Source == "" {
				dbErr.Source = name
			}
			return nil, err
		}
		return nil, &DatabaseError{Source: name, Err: fmt.Errorf("%w (%s): %v", ErrMalformedDatabase, pl.Kind(), err)}
	}
	return rows, nil
}

// Load decodes a single cognate source.
func Load(name string, r io.Reader, encoding string) (*Database, error) {
	rows, err := ReadRows(name, r, encoding)
	if err != nil {
		return nil, err
	}
	return Build(name, rows)
}

// LoadBlob decodes an in-memory cognate source.
func LoadBlob(name string, blob []byte) (*Database, error) {
	return Load(name, bytes.NewReader(blob), "")
}

// LoadPaths reads the rows of every path in order and builds one
// database from all of them.
func LoadPaths(fsys fs.FS, encoding string, paths ...string) (*Database, error) {
	var all []Row
	for _, p := range paths {
		path := strings.TrimSpace(p)
		if path == "" {
			continue
		}
		f, err := fsys.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		rows, err := ReadRows(path, f, encoding)
		f.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return Build(strings.Join(paths, ", "), all)
}

// LoadFile decodes the file at an operating system path. SQLite
// databases are read from their lexemes table.
func LoadFile(ctx context.Context, path, encoding string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	header := make([]byte, 16)
	n, _ := io.ReadFull(f, header)
	if phono.IsSQLite(header[:n]) {
		return LoadSQLite(ctx, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}
	return Load(path, f, encoding)
}

// lineLoader reads text formats with one language row per line.
type lineLoader struct {
	kind      Kind
	sniffFunc func(sniff []byte, isEOF bool) bool
	parseLine func(line string) (Row, error)
}

func (p *lineLoader) Kind() Kind { return p.kind }

func (p *lineLoader) Sniff(sniff []byte, isEOF bool) bool { return p.sniffFunc(sniff, isEOF) }

func (p *lineLoader) Load(r io.Reader, emit OnRowFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		row, err := p.parseLine(line)
		if err != nil {
			return fmt.Errorf("(%s) line %d: %w", p.kind, lineNo, err)
		}
		if row.Name == "" && len(row.Forms) == 0 {
			continue
		}
		if err := emit(row); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// stripComment drops blank and '#' comment lines and trims trailing
// whitespace. Leading tabs are kept: they delimit empty columns. Inline
// '#' is kept as it may be part of a form.
func stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	return strings.TrimLeft(strings.TrimRight(line, " \t\r\n"), " ")
}

func firstLines(sniff []byte, n int) []string {
	var out []string
	for _, raw := range strings.Split(string(sniff), "\n") {
		if l := stripComment(raw); l != "" {
			out = append(out, l)
			if len(out) == n {
				break
			}
		}
	}
	return out
}
