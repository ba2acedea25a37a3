package llm

import (
	"testing"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantCategory string
		wantConf     float64
		wantErr      bool
	}{
		{
			name:         "plain json",
			content:      `{"category": "food", "confidence": 0.9}`,
			wantCategory: "food",
			wantConf:     0.9,
		},
		{
			name:         "json fenced",
			content:      "```json\n{\"category\": \"transport\", \"confidence\": 0.75}\n```",
			wantCategory: "transport",
			wantConf:     0.75,
		},
		{
			name:         "bare fence",
			content:      "```\n{\"category\": \"bills\", \"confidence\": 0.6}\n```",
			wantCategory: "bills",
			wantConf:     0.6,
		},
		{
			name:         "mixed case category normalized",
			content:      `{"category": " Food ", "confidence": 0.8}`,
			wantCategory: "food",
			wantConf:     0.8,
		},
		{
			name:    "missing category",
			content: `{"confidence": 0.8}`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			content: `{"category": "food", "confidence": 1.4}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: "probably food, maybe 80% sure",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseClassification(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseClassification() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClassification() error = %v", err)
			}
			if resp.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", resp.Category, tt.wantCategory)
			}
			if resp.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", resp.Confidence, tt.wantConf)
			}
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}

	for _, tt := range tests {
		if got := cleanMarkdownWrapper(tt.in); got != tt.want {
			t.Errorf("cleanMarkdownWrapper(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
