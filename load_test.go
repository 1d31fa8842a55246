package ntparse_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/ntparse"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"data.nt": "<http://example.org/a> <http://example.org/p> \"x\" .\n<http://example.org/a> <http://example.org/p> \"y\" .\n",
		"data.nq": "<http://example.org/a> <http://example.org/p> \"z\" <http://example.org/g> .\n",
		"bad.nt":  "<http://example.org/a> <http://example.org/p> \"x\" .\nnot a triple\n",
		"raw.nq":  "<http://example.org/a> <http://example.org/p> \"Räk\" .\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		wantCount int
		wantLine  int
		wantErr   bool
	}{
		{"data.nt", 2, 0, false},
		{"data.nq", 1, 0, false},
		{"bad.nt", 1, 2, true},
		{"raw.nq", 1, 0, false}, // N-Quads are never checked strictly
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var collector ntriples.Collector
			count, err := ntparse.Load(context.Background(), filepath.Join(dir, tt.name), ntriples.Options{Strict: true}, &collector)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() returned error %v, wantErr %v", err, tt.wantErr)
			}
			if count != tt.wantCount || collector.Len() != tt.wantCount {
				t.Errorf("Load() returned count %d and collected %d, want %d", count, collector.Len(), tt.wantCount)
			}
			if tt.wantLine != 0 {
				pe, ok := ntriples.AsParseError(err)
				if !ok || pe.Line != tt.wantLine {
					t.Errorf("Load() returned error %v, want a ParseError on line %d", err, tt.wantLine)
				}
			}
		})
	}
}
