package phono

// MergeMode controls how several segment database sources are combined
// when the same symbol is defined in more than one of them.
type MergeMode int

const (
	// MergeModeNoOverride keeps the first definition of a symbol. Later
	// sources may only add symbols that are not registered yet.
	MergeModeNoOverride MergeMode = iota

	// MergeModeReplace lets a later definition replace the earlier one
	// in place: the symbol keeps its registration position.
	MergeModeReplace

	// MergeModePrepend registers the symbols of a later source before the
	// existing ones. Redefined symbols move to the front with their new
	// features, which gives them priority in the inverse index.
	MergeModePrepend
)

// String returns the configuration name of the mode.
func (m MergeMode) String() string {
	switch m {
	case MergeModeReplace:
		return "replace"
	case MergeModePrepend:
		return "prepend"
	default:
		return "no_override"
	}
}

// Kind identifies the format of a segment database source.
// It is mostly informational but shows up in error messages.
type Kind string

const (
	// KindJSON identifies a JSON array of records:
	//   [{"symbol": "p", "name": "...", "features": {"cons": true, ...}}, ...]
	KindJSON Kind = "json_segments"

	// KindYAML identifies a YAML sequence of the same records.
	KindYAML Kind = "yaml_segments"

	// KindTSV identifies the tab-separated line format:
	//   <symbol>\t<name>\t+cons -voice 0nasal
	KindTSV Kind = "tsv_segments"

	// KindGOB identifies a gob-encoded []Record.
	KindGOB Kind = "gob_segments"

	// KindSQLite identifies a SQLite database with a segments table.
	KindSQLite Kind = "sqlite_segments"
)

// sniffLen defines the size of the block used to sniff the type.
const sniffLen = 4 * 1024 // a few kilobytes, like http.DetectContentType
