// Package rules implements deterministic keyword-based expense categorization.
//
// The rule table is data, not code: an ordered YAML document mapping each
// category to its trigger keywords. Ordering matters on both axes (the
// classifier returns the first match in declared order) so the table is
// decoded into slices rather than maps.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/cedisense/cedisense/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Entry pairs one category with its ordered trigger keywords.
type Entry struct {
	Category model.Category `yaml:"category"`
	Keywords []string       `yaml:"keywords"`
}

// Table is an ordered keyword rule table.
type Table struct {
	entries []Entry
}

type tableDoc struct {
	Categories []Entry `yaml:"categories"`
}

// DefaultTable returns the canonical embedded rule table.
func DefaultTable() *Table {
	table, err := ParseTable(defaultRules)
	if err != nil {
		// The embedded table is validated by tests; a parse failure here is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded rule table invalid: %v", err))
	}
	return table
}

// LoadTable reads a rule table from a YAML file, e.g. a locale-specific
// vocabulary configured via rules.path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML rule table.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule table: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("rule table has no categories")
	}

	seen := make(map[model.Category]bool, len(doc.Categories))
	for i := range doc.Categories {
		entry := &doc.Categories[i]
		if !model.ValidCategory(entry.Category) {
			return nil, fmt.Errorf("rule table category %q is not a valid category", entry.Category)
		}
		if entry.Category == model.CategoryOther {
			return nil, fmt.Errorf("rule table must not contain %q; it is the implicit fallback", model.CategoryOther)
		}
		if seen[entry.Category] {
			return nil, fmt.Errorf("rule table lists category %q twice", entry.Category)
		}
		seen[entry.Category] = true

		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("rule table category %q has no keywords", entry.Category)
		}
		for j, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("rule table category %q has an empty keyword", entry.Category)
			}
			entry.Keywords[j] = kw
		}
	}

	return &Table{entries: doc.Categories}, nil
}

// Entries returns the table rows in declared order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Categories returns the categories this table can produce, in table order,
// with the fallback bucket appended.
func (t *Table) Categories() []model.Category {
	cats := make([]model.Category, 0, len(t.entries)+1)
	for _, e := range t.entries {
		cats = append(cats, e.Category)
	}
	return append(cats, model.CategoryOther)
}
