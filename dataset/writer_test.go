package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleProcessedRows() []ProcessedRow {
	return []ProcessedRow{
		{
			Path:     "root/TRK001/a.mid",
			Genre:    "Rock",
			OneHot:   []int{1, 0},
			Features: []float64{-0.1, -0.2, 0.55, 0.125, 0.125},
		},
		{
			Path:  "root/TRK002/b.mid",
			Genre: "Jazz",
			Err:   errors.New("corrupt file"),
		},
		{
			Path:     "root/TRK003/c.mid",
			Genre:    "Jazz",
			OneHot:   []int{0, 1},
			Features: []float64{0.05, -0.2, 0.55, 0, 0.125},
		},
	}
}

func TestWriteDatasetFiltersFailedRows(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "out.json")
	written, err := WriteDataset(outPath, sampleProcessedRows())
	require.NoError(t, err)
	require.Equal(t, 2, written)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	require.Equal(t, "root/TRK001/a.mid", records[0].Path)
	require.Equal(t, "root/TRK003/c.mid", records[1].Path)

	// Vectors serialize as literal numeric arrays, not objects.
	require.Contains(t, string(data), `"one_hot_genre":[1,0]`)
	require.Contains(t, string(data), `"features":[-0.1,-0.2,0.55,0.125,0.125]`)
}

func TestWriteDatasetOverwrites(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(outPath, []byte("stale contents"), 0644))

	_, err := WriteDataset(outPath, sampleProcessedRows())
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), "stale"))
}

func TestWriteDatasetCreatesParentDir(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "nested", "dir", "out.json")
	_, err := WriteDataset(outPath, sampleProcessedRows())
	require.NoError(t, err)
	_, err = os.Stat(outPath)
	require.NoError(t, err)
}

func TestWriteDatasetUnwritableDestination(t *testing.T) {
	t.Parallel()

	// The output path collides with an existing directory.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "out.json")
	require.NoError(t, os.MkdirAll(blocked, 0755))

	_, err := WriteDataset(blocked, sampleProcessedRows())
	require.Error(t, err)
}

func TestWriteDatasetParquet(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "out.parquet")
	written, err := WriteDataset(outPath, sampleProcessedRows())
	require.NoError(t, err)
	require.Equal(t, 2, written)

	fi, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Positive(t, fi.Size())
}
