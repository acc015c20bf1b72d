package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteDataset drops every processed row whose extraction failed and
// serializes the survivors to path, overwriting any existing file. The
// format follows the extension: ".parquet" selects columnar output,
// anything else a JSON array of records with the vectors as literal
// numeric arrays. Returns the number of records written.
func WriteDataset(path string, rows []ProcessedRow) (int, error) {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		records = append(records, Record{
			Path:        row.Path,
			Genre:       row.Genre,
			OneHotGenre: row.OneHot,
			Features:    row.Features,
		})
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		if err := writeParquet(path, records); err != nil {
			return 0, err
		}
		return len(records), nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write dataset: %w", err)
	}
	return len(records), nil
}
