package dataset

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessRowsFaultIsolation(t *testing.T) {
	t.Parallel()

	rows := []MatchedRow{
		{Path: "good1.mid", Genre: "Rock"},
		{Path: "broken.mid", Genre: "Jazz"},
		{Path: "good2.mid", Genre: "Rock"},
	}
	mapping := BuildGenreMapping(rows)

	processed := ProcessRows(rows, mapping, ProcessOptions{
		Workers: 2,
		Extract: func(path string) ([]float64, error) {
			if path == "broken.mid" {
				return nil, errors.New("corrupt file")
			}
			return []float64{0.1, 0.2, 0.3, 0.4, 0.5}, nil
		},
	})

	require.Len(t, processed, len(rows))
	for i, row := range processed {
		// Output index i corresponds to input row i.
		require.Equal(t, rows[i].Path, row.Path)
		require.Equal(t, rows[i].Genre, row.Genre)
	}

	require.Error(t, processed[1].Err)
	require.Nil(t, processed[1].Features)

	for _, i := range []int{0, 2} {
		require.NoError(t, processed[i].Err)
		require.Len(t, processed[i].Features, 5)
		require.Len(t, processed[i].OneHot, mapping.NumClasses())
	}
}

func TestProcessRowsManyRowsFewWorkers(t *testing.T) {
	t.Parallel()

	var rows []MatchedRow
	for i := 0; i < 100; i++ {
		rows = append(rows, MatchedRow{Path: fmt.Sprintf("f%03d.mid", i), Genre: "Rock"})
	}
	mapping := BuildGenreMapping(rows)

	var calls atomic.Int64
	processed := ProcessRows(rows, mapping, ProcessOptions{
		Workers: 4,
		Extract: func(path string) ([]float64, error) {
			calls.Add(1)
			return []float64{1, 2, 3, 4, 5}, nil
		},
	})

	require.Len(t, processed, 100)
	require.EqualValues(t, 100, calls.Load())
	for i, row := range processed {
		require.Equal(t, rows[i].Path, row.Path)
		require.NoError(t, row.Err)
	}
}

func TestProcessRowsProgressCallback(t *testing.T) {
	t.Parallel()

	rows := []MatchedRow{
		{Path: "a.mid", Genre: "Rock"},
		{Path: "b.mid", Genre: "Rock"},
	}
	mapping := BuildGenreMapping(rows)

	var ticks atomic.Int64
	ProcessRows(rows, mapping, ProcessOptions{
		Workers:  2,
		Progress: func() { ticks.Add(1) },
		Extract: func(string) ([]float64, error) {
			return []float64{1, 2, 3, 4, 5}, nil
		},
	})

	require.EqualValues(t, len(rows), ticks.Load())
}

func TestProcessRowsUnknownGenreRecorded(t *testing.T) {
	t.Parallel()

	// A mapping built from different rows: the defensive path.
	mapping := BuildGenreMapping([]MatchedRow{{Genre: "Rock"}})
	rows := []MatchedRow{{Path: "a.mid", Genre: "Dubstep"}}

	processed := ProcessRows(rows, mapping, ProcessOptions{
		Workers: 1,
		Extract: func(string) ([]float64, error) {
			return []float64{1, 2, 3, 4, 5}, nil
		},
	})

	require.True(t, errors.Is(processed[0].Err, ErrUnknownGenre))
}

func TestProcessRowsEmptyInput(t *testing.T) {
	t.Parallel()

	processed := ProcessRows(nil, BuildGenreMapping(nil), ProcessOptions{})
	require.Empty(t, processed)
}
