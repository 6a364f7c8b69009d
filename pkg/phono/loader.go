package phono

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/temporal-IPA/protoform/pkg/conversion"
)

func init() {
	// Built-in loaders, ordered from most specific to most generic.
	builtinLoaders = []Loader{
		&GobLoader{},
		&JSONLoader{},
		NewLineLoader(KindTSV, sniffTSV, parseTSVLine),
		&YAMLLoader{},
	}

	// Fallback to JSON when sniffing is inconclusive.
	defaultLoader = builtinLoaders[1]
}

// OnRecordFunc is called by a Loader for each decoded record.
type OnRecordFunc func(rec Record) error

// Loader parses a segment database source (file or bytes) and emits its
// records through the provided callback, in source order.
type Loader interface {
	// Kind returns a short identifier for the loader.
	Kind() Kind

	// Sniff inspects a prefix of the input (sniff) and decides whether
	// this loader is appropriate for the source.
	//
	// - sniff: initial bytes of the source (up to a few KB).
	// - isEOF: true if sniff contains the full source.
	Sniff(sniff []byte, isEOF bool) bool

	// Load parses the entire source from r and calls emit for each record.
	Load(r io.Reader, emit OnRecordFunc) error
}

var (
	builtinLoaders []Loader
	defaultLoader  Loader
)

// RegisterLoader allows external code to add additional Loaders.
// Loaders are consulted in registration order during sniffing.
func RegisterLoader(p Loader) {
	if p == nil {
		return
	}
	builtinLoaders = append(builtinLoaders, p)
}

// selectLoader chooses the first loader whose Sniff method returns true.
// If none match, it falls back to defaultLoader.
func selectLoader(sniff []byte, isEOF bool) Loader {
	for _, p := range builtinLoaders {
		if p.Sniff(sniff, isEOF) {
			return p
		}
	}
	return defaultLoader
}

// Builder accumulates records from several sources and applies the
// MergeMode between them. The zero value is not usable; call NewBuilder.
type Builder struct {
	mode MergeMode
	// Encoding names the charset of text sources ("" means UTF-8).
	Encoding string
	records  []Record
	index    map[string]int
}

// NewBuilder returns an empty builder merging with mode.
func NewBuilder(mode MergeMode) *Builder {
	return &Builder{mode: mode, index: make(map[string]int)}
}

// Inventory builds the inventory from everything added so far.
func (b *Builder) Inventory() (*Inventory, error) {
	return NewInventory(b.records)
}

// Records returns the merged records.
func (b *Builder) Records() []Record { return b.records }

// AddPaths loads and merges the files at paths, in order.
func (b *Builder) AddPaths(fsys fs.FS, paths ...string) error {
	for _, p := range paths {
		path := strings.TrimSpace(p)
		if path == "" {
			continue
		}
		if err := b.addFile(fsys, path); err != nil {
			return err
		}
	}
	return nil
}

// AddBlob loads and merges an in-memory source labelled name.
func (b *Builder) AddBlob(name string, blob []byte) error {
	if len(blob) == 0 {
		return nil
	}
	return b.AddReader(name, bytes.NewReader(blob))
}

// AddReader sniffs r, loads it with the matching loader and merges it.
func (b *Builder) AddReader(name string, r io.Reader) error {
	r, err := conversion.NewReader(r, b.Encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	buf := make([]byte, sniffLen)
	n, readErr := io.ReadFull(r, buf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return fmt.Errorf("sniff %s: %w", name, readErr)
	}
	buf = buf[:n]
	isEOF := readErr == io.EOF || readErr == io.ErrUnexpectedEOF || n == 0

	pl := selectLoader(buf, isEOF)
	if pl == nil {
		return fmt.Errorf("no loader matched for %s", name)
	}
	return b.run(pl, name, io.MultiReader(bytes.NewReader(buf), r))
}

// AddRecords merges records decoded elsewhere (e.g. from SQLite).
func (b *Builder) AddRecords(source string, records []Record) error {
	src := b.newSource(source)
	for _, rec := range records {
		if err := src.add(rec); err != nil {
			return err
		}
	}
	src.commit()
	return nil
}

func (b *Builder) addFile(fsys fs.FS, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return b.AddReader(path, f)
}

// run executes a loader and merges its records.
func (b *Builder) run(pl Loader, name string, r io.Reader) error {
	src := b.newSource(name)
	if err := pl.Load(r, src.add); err != nil {
		var dbErr *DatabaseError
		if errors.As(err, &dbErr) {
			return withSource(err, name)
		}
		return &DatabaseError{Source: name, Err: fmt.Errorf("%w (%s): %v", ErrMalformedDatabase, pl.Kind(), err)}
	}
	src.commit()
	return nil
}

// source collects the records of one dataset before merging them, so that
// MergeModePrepend can move a whole source ahead of the existing records.
type source struct {
	b       *Builder
	name    string
	seen    map[string]struct{}
	records []Record
}

func (b *Builder) newSource(name string) *source {
	return &source{b: b, name: name, seen: make(map[string]struct{})}
}

func (s *source) add(rec Record) error {
	rec.Symbol = NormalizeSymbol(rec.Symbol)
	pos := len(s.records) + 1
	if rec.Symbol == "" {
		return &DatabaseError{Source: s.name, Record: pos, Field: "symbol", Err: ErrMissingField}
	}
	if len(rec.Features) == 0 {
		return &DatabaseError{Source: s.name, Record: pos, Symbol: rec.Symbol, Field: "features", Err: ErrMissingField}
	}
	if _, dup := s.seen[rec.Symbol]; dup {
		return &DatabaseError{Source: s.name, Record: pos, Symbol: rec.Symbol, Field: "symbol", Err: ErrDuplicateSymbol}
	}
	s.seen[rec.Symbol] = struct{}{}
	s.records = append(s.records, rec)
	return nil
}

func (s *source) commit() {
	b := s.b
	switch b.mode {
	case MergeModePrepend:
		merged := make([]Record, 0, len(s.records)+len(b.records))
		merged = append(merged, s.records...)
		for _, old := range b.records {
			if _, redefined := s.seen[old.Symbol]; !redefined {
				merged = append(merged, old)
			}
		}
		b.records = merged
		b.reindex()
	default:
		for _, rec := range s.records {
			if i, exists := b.index[rec.Symbol]; exists {
				if b.mode == MergeModeReplace {
					b.records[i] = rec
				}
				continue
			}
			b.index[rec.Symbol] = len(b.records)
			b.records = append(b.records, rec)
		}
	}
}

func (b *Builder) reindex() {
	b.index = make(map[string]int, len(b.records))
	for i, rec := range b.records {
		b.index[rec.Symbol] = i
	}
}

// LoadPaths loads and merges segment databases from a sequence of paths.
//
// The order of paths is respected: it decides which definition wins under
// mode and the registration order of the resulting inventory.
func LoadPaths(fsys fs.FS, mode MergeMode, paths ...string) (*Inventory, error) {
	b := NewBuilder(mode)
	if err := b.AddPaths(fsys, paths...); err != nil {
		return nil, err
	}
	return b.Inventory()
}

// LoadBlobs loads and merges segment databases from in-memory sources.
func LoadBlobs(mode MergeMode, blobs ...[]byte) (*Inventory, error) {
	b := NewBuilder(mode)
	for i, blob := range blobs {
		if err := b.AddBlob(fmt.Sprintf("blob#%d", i), blob); err != nil {
			return nil, err
		}
	}
	return b.Inventory()
}

// LoadReader loads a single segment database from r.
func LoadReader(r io.Reader) (*Inventory, error) {
	b := NewBuilder(MergeModeNoOverride)
	if err := b.AddReader("reader", r); err != nil {
		return nil, err
	}
	return b.Inventory()
}

// ParseMergeMode parses the configuration name of a MergeMode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no_override", "nooverride":
		return MergeModeNoOverride, nil
	case "replace":
		return MergeModeReplace, nil
	case "prepend":
		return MergeModePrepend, nil
	}
	return MergeModeNoOverride, fmt.Errorf("unknown merge mode %q", s)
}
