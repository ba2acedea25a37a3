package textcat

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cedisense/cedisense/internal/model"
)

// ReadCorpus parses a labeled training corpus from CSV. The expected layout
// is two columns, description then category, with an optional header row.
func ReadCorpus(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var samples []Sample
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus: %w", err)
		}
		line++

		description := strings.TrimSpace(record[0])
		category := model.Category(strings.ToLower(strings.TrimSpace(record[1])))

		// Header row.
		if line == 1 && strings.EqualFold(record[0], "description") {
			continue
		}

		if description == "" {
			continue
		}
		if !model.ValidCategory(category) {
			return nil, fmt.Errorf("corpus line %d: invalid category %q", line, record[1])
		}

		samples = append(samples, Sample{Description: description, Category: category})
	}

	return samples, nil
}

// ReadCorpusFile reads a training corpus from disk.
func ReadCorpusFile(path string) ([]Sample, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the train command
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCorpus(f)
}
