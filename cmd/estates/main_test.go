package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estates/internal/config"
	"estates/internal/format"
	"estates/internal/query"
)

const fixturePath = "../../data/projects.json"

func testApp(t *testing.T) *app {
	t.Helper()
	cat, err := loadCatalog(context.Background(), fixturePath, nil)
	require.NoError(t, err)
	formatter, err := format.NewFormatter("en-US")
	require.NoError(t, err)
	return &app{catalog: cat, engine: query.NewEngine(), formatter: formatter}
}

func TestLoadCatalogFixture(t *testing.T) {
	cat, err := loadCatalog(context.Background(), fixturePath, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, cat.Len())

	p, err := cat.FindByID("4")
	require.NoError(t, err)
	assert.Equal(t, "Ongoing", p.Status)
}

func TestImportThenLoadSnapshot(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	n, err := importSnapshot(context.Background(), fixturePath, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	fromDB, err := loadCatalog(context.Background(), dbPath, logger)
	require.NoError(t, err)
	fromJSON, err := loadCatalog(context.Background(), fixturePath, nil)
	require.NoError(t, err)
	assert.Equal(t, fromJSON.Projects(), fromDB.Projects())
}

func TestLogOutput(t *testing.T) {
	assert.Same(t, os.Stdout, logOutput(serveCmd))
	assert.Same(t, os.Stdout, logOutput(importCmd))
	assert.Same(t, os.Stderr, logOutput(browseCmd))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := loadCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.db"), nil)
	assert.Error(t, err)

	_, err = loadCatalog(context.Background(), "catalog.csv", nil)
	assert.ErrorContains(t, err, "unsupported catalog extension")
}

func TestNewEngine(t *testing.T) {
	_, err := newEngine(config.SearchConfig{Strategy: "soundex", SuggestionLimit: 5})
	assert.Error(t, err)

	e, err := newEngine(config.SearchConfig{Strategy: "exact", SuggestionLimit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, e.SuggestionLimit())
}

func TestRunSearch(t *testing.T) {
	rt := testApp(t)

	tests := []struct {
		name string
		opts searchOptions
		want []string
	}{
		{
			name: "term",
			opts: searchOptions{Term: "loft"},
			want: []string{"Urban Loft Apartments (Brooklyn, NY)  $1,800,000", "of 6 projects"},
		},
		{
			name: "grouped chip",
			opts: searchOptions{Chip: "luxury", Grouped: true},
			want: []string{"Luxury • Completed\n  Luxury Waterfront Condos  $2,500,000", "Luxury • Ongoing", "3 of 6 projects"},
		},
		{
			name: "explicit status beats chip",
			opts: searchOptions{Chip: "luxury", Status: "ongoing"},
			want: []string{"Skyline Penthouse Residences", "Coastal Villa Estates", "2 of 6 projects"},
		},
		{
			name: "no match",
			opts: searchOptions{Term: "zzzzzz"},
			want: []string{"No projects match."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, runSearch(&buf, rt, tt.opts))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRunSearchRejectsUnknownChip(t *testing.T) {
	err := runSearch(io.Discard, testApp(t), searchOptions{Chip: "cheap"})
	assert.ErrorIs(t, err, query.ErrUnknownChip)
}
