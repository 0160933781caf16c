package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estates/internal/models"
)

const fixtureJSON = `[
  {"id": 1, "title": "Luxury Waterfront Condos", "location": "Miami, FL", "category": "Luxury", "status": "Completed", "price": 2500000, "image": "a.jpg", "featured": true, "views": ["b.jpg"], "ownerId": "owner-1"},
  {"id": "2", "title": "Urban Loft Apartments", "location": "Brooklyn, NY", "category": "Affordable", "status": "In Progress", "price": 1800000, "image": "c.jpg"}
]`

const fixtureYAML = `
- id: 1
  title: Luxury Waterfront Condos
  category: Luxury
  status: Completed
  price: 2500000
  featured: true
- id: p-2
  title: Urban Loft Apartments
  category: Affordable
  status: Ongoing
  price: 1800000
`

func TestDecodeJSON(t *testing.T) {
	c, err := Decode(strings.NewReader(fixtureJSON), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	projects := c.Projects()
	assert.Equal(t, models.ProjectID("1"), projects[0].ID)
	assert.Equal(t, []string{"b.jpg"}, projects[0].Views)
	assert.Equal(t, "owner-1", projects[0].OwnerID)
	assert.Equal(t, models.ProjectID("2"), projects[1].ID)
	assert.Equal(t, models.StatusOngoing, projects[1].Status, "legacy status label is normalized")
	assert.Nil(t, projects[1].Views)
	assert.False(t, projects[1].Featured)
}

func TestDecodeYAML(t *testing.T) {
	c, err := Decode(strings.NewReader(fixtureYAML), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	p, err := c.FindByID("p-2")
	require.NoError(t, err)
	assert.Equal(t, "Urban Loft Apartments", p.Title)
	assert.Equal(t, 1800000.0, p.Price)
}

func TestDecodeRejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"json object", `{"id": 1}`, FormatJSON},
		{"json empty", ``, FormatJSON},
		{"json string", `"projects"`, FormatJSON},
		{"json bad record", `[{"id": {"nested": true}}]`, FormatJSON},
		{"yaml mapping", "id: 1\ntitle: x\n", FormatYAML},
		{"missing id", `[{"title": "No id"}]`, FormatJSON},
		{"duplicate id", `[{"id": 1}, {"id": "1"}]`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.ErrorIs(t, err, ErrMalformedCatalog)
		})
	}
}

func TestLoadPicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "projects.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(fixtureJSON), 0o644))
	c, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	yamlPath := filepath.Join(dir, "projects.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(fixtureYAML), 0o644))
	c, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Load(filepath.Join(dir, "projects.csv"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFindByID(t *testing.T) {
	c, err := Decode(strings.NewReader(fixtureJSON), FormatJSON)
	require.NoError(t, err)

	p, err := c.FindByID(" 1 ")
	require.NoError(t, err)
	assert.Equal(t, "Luxury Waterfront Condos", p.Title)

	_, err = c.FindByID("999")
	assert.ErrorIs(t, err, ErrNotFound)

	var nilCatalog *Catalog
	_, err = nilCatalog.FindByID("1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectsReturnsCopy(t *testing.T) {
	c, err := Decode(strings.NewReader(fixtureJSON), FormatJSON)
	require.NoError(t, err)

	projects := c.Projects()
	projects[0].Title = "mutated"
	assert.Equal(t, "Luxury Waterfront Condos", c.Projects()[0].Title)
}

func TestFeaturedAndFacets(t *testing.T) {
	c, err := Decode(strings.NewReader(fixtureJSON), FormatJSON)
	require.NoError(t, err)

	featured := c.Featured()
	require.Len(t, featured, 1)
	assert.Equal(t, models.ProjectID("1"), featured[0].ID)

	facets := c.Facets()
	assert.Equal(t, []Facet{{Label: "Luxury", Count: 1}, {Label: "Affordable", Count: 1}}, facets.Categories)
	assert.Equal(t, []Facet{{Label: "Completed", Count: 1}, {Label: "Ongoing", Count: 1}}, facets.Statuses)
}

func TestEmptyCatalog(t *testing.T) {
	c, err := Decode(strings.NewReader(`[]`), FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Projects())
	assert.Empty(t, c.Featured())
	assert.Empty(t, c.Facets().Categories)
}
