// Package textcat implements the trainable bag-of-words expense classifier.
//
// The model is a multinomial naive Bayes over lowercase word tokens, fit
// offline from a labeled description corpus and persisted as a versioned gob
// artifact. It fills the ml_primary slot of the categorization chain; the
// chain treats a missing or unloadable artifact as the stage being
// unavailable, never as a fatal error.
package textcat

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/cedisense/cedisense/internal/model"
)

// ArtifactVersion is the serialized model format version. Bump when the
// bayesModel layout changes; older artifacts then fail to load and the chain
// falls through to the next stage.
const ArtifactVersion = 1

// bayesModel holds the fitted naive Bayes parameters. Exported fields only,
// for gob.
type bayesModel struct {
	WordCounts  map[model.Category]map[string]int
	ClassDocs   map[model.Category]int
	ClassTokens map[model.Category]int
	Version     int
	TotalDocs   int
	VocabSize   int
}

// tokenStopwords are dropped during tokenization; they carry no category
// signal and inflate the vocabulary.
var tokenStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "for": true,
	"from": true, "in": true, "of": true, "on": true, "the": true,
	"to": true, "with": true,
}

// tokenize lowercases a description and splits it into word tokens.
func tokenize(description string) []string {
	fields := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, f := range fields {
		if len(f) < 2 || tokenStopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// save writes the model as a gob artifact, creating parent directories as
// needed. The write goes through a temp file so a crash cannot leave a
// truncated artifact behind.
func (m *bayesModel) save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".textcat-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := gob.NewEncoder(tmp).Encode(m); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to place artifact: %w", err)
	}
	return nil
}

// loadModel reads a gob artifact and checks its format version.
func loadModel(path string) (*bayesModel, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	var m bayesModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if m.Version != ArtifactVersion {
		return nil, fmt.Errorf("artifact version %d does not match expected %d", m.Version, ArtifactVersion)
	}
	if m.TotalDocs == 0 {
		return nil, fmt.Errorf("artifact contains no training data")
	}
	return &m, nil
}
