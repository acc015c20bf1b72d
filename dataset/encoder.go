package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownGenre is returned when a genre is not in the mapping. With a
// mapping built from the same row set this is unreachable, so callers
// treat it as fatal rather than recovering.
var ErrUnknownGenre = errors.New("genre not in mapping")

// GenreMapping is a frozen bijection from genre string to class index.
// It is built once, before parallel processing starts, and only read
// afterwards, so workers share it without locking.
type GenreMapping struct {
	index map[string]int
	order []string
}

// BuildGenreMapping assigns each distinct genre in the matched rows an
// index in first-seen order.
func BuildGenreMapping(rows []MatchedRow) GenreMapping {
	m := GenreMapping{index: make(map[string]int)}
	for _, row := range rows {
		if _, ok := m.index[row.Genre]; ok {
			continue
		}
		m.index[row.Genre] = len(m.order)
		m.order = append(m.order, row.Genre)
	}
	return m
}

// NumClasses reports the number of distinct genres in the mapping.
func (m GenreMapping) NumClasses() int { return len(m.order) }

// Genres returns the genres in index order.
func (m GenreMapping) Genres() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Index looks up the class index for a genre.
func (m GenreMapping) Index(genre string) (int, bool) {
	i, ok := m.index[genre]
	return i, ok
}

// OneHot encodes a genre as a binary vector with a single 1 at the
// genre's class index.
func (m GenreMapping) OneHot(genre string) ([]int, error) {
	i, ok := m.index[genre]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
	}
	vec := make([]int, len(m.order))
	vec[i] = 1
	return vec, nil
}
