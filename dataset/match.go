package dataset

// Match inner-joins label records with file records on identifier and
// projects the identifier away. Duplicate identifiers on either side
// produce the full cross product: every file is paired with every label
// sharing its identifier. Output order is deterministic for fixed
// inputs: file-index order, then label insertion order per identifier.
func Match(labels []LabelRecord, files []FileRecord) []MatchedRow {
	genresByID := make(map[string][]string, len(labels))
	for _, label := range labels {
		genresByID[label.Identifier] = append(genresByID[label.Identifier], label.Genre)
	}

	var rows []MatchedRow
	for _, file := range files {
		for _, genre := range genresByID[file.Identifier] {
			rows = append(rows, MatchedRow{Path: file.Path, Genre: genre})
		}
	}
	return rows
}
