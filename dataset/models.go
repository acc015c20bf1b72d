// Package dataset builds a labeled training set for a music-genre
// classifier by joining a genre label table with a tree of MIDI files,
// extracting a fixed feature vector per file and one-hot encoding the
// genre labels.
package dataset

// LabelRecord is one parsed line of the genre label file.
type LabelRecord struct {
	Identifier string
	Genre      string
}

// FileRecord pairs a file path with the identifier derived from its
// location in the tree.
type FileRecord struct {
	Identifier string
	Path       string
}

// MatchedRow is the result of joining a FileRecord with a LabelRecord on
// identifier; the identifier itself is projected away.
type MatchedRow struct {
	Path  string
	Genre string
}

// ProcessedRow is a fully processed matched row. A non-nil Err marks a
// row whose feature extraction failed; such rows are dropped at assembly
// and never abort the run.
type ProcessedRow struct {
	Path     string
	Genre    string
	OneHot   []int
	Features []float64
	Err      error
}

// Record is the serialized form of a surviving ProcessedRow.
type Record struct {
	Path        string    `json:"path"`
	Genre       string    `json:"genre"`
	OneHotGenre []int     `json:"one_hot_genre"`
	Features    []float64 `json:"features"`
}
