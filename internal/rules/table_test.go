package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cedisense/cedisense/internal/model"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	entries := table.Entries()
	if len(entries) != 8 {
		t.Fatalf("default table has %d categories, want 8", len(entries))
	}
	if entries[0].Category != model.CategoryFood {
		t.Errorf("first category = %q, want %q", entries[0].Category, model.CategoryFood)
	}
	if entries[0].Keywords[0] != "restaurant" {
		t.Errorf("first keyword = %q, want %q", entries[0].Keywords[0], "restaurant")
	}
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid single category",
			yaml: "categories:\n  - category: food\n    keywords: [pizza]\n",
		},
		{
			name: "keywords normalized to lowercase",
			yaml: "categories:\n  - category: food\n    keywords: [\" PIZZA \"]\n",
		},
		{
			name:    "empty document",
			yaml:    "categories: []\n",
			wantErr: true,
		},
		{
			name:    "unknown category",
			yaml:    "categories:\n  - category: gambling\n    keywords: [casino]\n",
			wantErr: true,
		},
		{
			name:    "other is not allowed in the table",
			yaml:    "categories:\n  - category: other\n    keywords: [misc]\n",
			wantErr: true,
		},
		{
			name:    "duplicate category",
			yaml:    "categories:\n  - category: food\n    keywords: [pizza]\n  - category: food\n    keywords: [burger]\n",
			wantErr: true,
		},
		{
			name:    "category without keywords",
			yaml:    "categories:\n  - category: food\n    keywords: []\n",
			wantErr: true,
		},
		{
			name:    "blank keyword",
			yaml:    "categories:\n  - category: food\n    keywords: [\"  \"]\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "{{nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTable([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseTable() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			for _, entry := range table.Entries() {
				for _, kw := range entry.Keywords {
					if kw != "pizza" {
						t.Errorf("keyword not normalized: %q", kw)
					}
				}
			}
		})
	}
}

func TestLoadTable_LocaleSwap(t *testing.T) {
	// A region-specific vocabulary swaps in without touching classifier logic.
	localeTable := `categories:
  - category: food
    keywords: [waakye, kenkey, banku, jollof]
  - category: transport
    keywords: [trotro, bolt]
`
	path := filepath.Join(t.TempDir(), "rules.gh.yaml")
	if err := os.WriteFile(path, []byte(localeTable), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	classifier := NewClassifier(table)
	result, err := classifier.Predict(context.Background(), "Waakye at the chop bar")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if result.Category != model.CategoryFood {
		t.Errorf("category = %q, want %q", result.Category, model.CategoryFood)
	}
	if result.MatchedKeyword != "waakye" {
		t.Errorf("matched keyword = %q, want %q", result.MatchedKeyword, "waakye")
	}
}

func TestLoadTable_MissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadTable() expected error for missing file")
	}
}
