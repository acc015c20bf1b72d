package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const labelCommentMarker = "#"

// ParseError reports a malformed line in the label file. The whole run
// aborts on it; a dataset cannot be built from a broken label source.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed label line %q (want at least 2 tab-separated fields)", e.Path, e.Line, e.Text)
}

// LoadLabels parses the genre label file into identifier/genre pairs.
// Lines starting with # are comments. Fields beyond the first two are
// ignored. Duplicate identifiers are kept; the matcher fans them out.
func LoadLabels(path string) ([]LabelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer f.Close()

	var records []LabelRecord
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, labelCommentMarker) {
			continue
		}
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) < 2 {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line}
		}
		records = append(records, LabelRecord{
			Identifier: fields[0],
			Genre:      fields[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read label file: %w", err)
	}

	return records, nil
}
