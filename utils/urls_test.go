package utils

import (
	"testing"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain link", "check https://example.com/a out", []string{"https://example.com/a"}},
		{"http scheme", "http://example.com", []string{"http://example.com"}},
		{"multiple", "https://a.com and http://b.com", []string{"https://a.com", "http://b.com"}},
		{"no link", "just words", nil},
		{"uppercase scheme skipped", "HTTPS://example.com", nil},
		{"mid-word", "see(https://a.com/x?y=1)", []string{"https://a.com/x?y=1)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractURLs(%q) = %v, want %v", tt.content, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractURLs(%q)[%d] = %q, want %q", tt.content, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Mission {{title}}: {{count}} entries ({{unknown}})", map[string]string{
		"title": "Week 12",
		"count": "3",
	})
	want := "Mission Week 12: 3 entries ({{unknown}})"
	if got != want {
		t.Errorf("RenderTemplate() = %q, want %q", got, want)
	}
}
