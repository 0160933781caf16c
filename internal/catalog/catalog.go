package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"estates/internal/models"
)

var (
	// ErrNotFound is returned when an id lookup misses.
	ErrNotFound = errors.New("project not found")
	// ErrMalformedCatalog is returned when a fixture cannot be used as a catalog.
	ErrMalformedCatalog = errors.New("malformed catalog")
)

// Format names a fixture encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the fixture format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// Catalog is the immutable, ordered set of projects loaded at startup.
// It is safe to share between goroutines.
type Catalog struct {
	projects []models.Project
	byID     map[models.ProjectID]int
}

// New validates the records and builds a catalog preserving their order.
func New(projects []models.Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]models.Project, 0, len(projects)),
		byID:     make(map[models.ProjectID]int, len(projects)),
	}
	for i, p := range projects {
		p = p.Normalize()
		if p.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformedCatalog, i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedCatalog, p.ID)
		}
		c.byID[p.ID] = len(c.projects)
		c.projects = append(c.projects, p)
	}
	return c, nil
}

// Decode reads a fixture whose top level must be a sequence of projects.
func Decode(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var projects []models.Project
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: top level must be an array", ErrMalformedCatalog)
		}
		if err := json.Unmarshal(trimmed, &projects); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
		}
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
		}
		if len(root.Content) == 0 || root.Content[0].Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: top level must be a sequence", ErrMalformedCatalog)
		}
		if err := root.Content[0].Decode(&projects); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return New(projects)
}

// Load opens a JSON or YAML fixture from disk.
func Load(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Len reports the number of projects.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.projects)
}

// Projects returns the projects in fixture order. The slice is a copy; the
// records themselves must be treated as read-only.
func (c *Catalog) Projects() []models.Project {
	if c == nil {
		return nil
	}
	out := make([]models.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// FindByID looks up a project by id.
func (c *Catalog) FindByID(id models.ProjectID) (models.Project, error) {
	if c != nil {
		if idx, ok := c.byID[models.ProjectID(strings.TrimSpace(string(id)))]; ok {
			return c.projects[idx], nil
		}
	}
	return models.Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Featured returns the highlighted subset in fixture order.
func (c *Catalog) Featured() []models.Project {
	var out []models.Project
	if c == nil {
		return out
	}
	for _, p := range c.projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Facet is a label with the number of projects carrying it.
type Facet struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets summarizes the categories and statuses present in the catalog.
type Facets struct {
	Categories []Facet `json:"categories"`
	Statuses   []Facet `json:"statuses"`
}

// Facets lists categories and statuses in first-seen order.
func (c *Catalog) Facets() Facets {
	facets := Facets{Categories: []Facet{}, Statuses: []Facet{}}
	if c == nil {
		return facets
	}
	catIdx := map[string]int{}
	statusIdx := map[string]int{}
	for _, p := range c.projects {
		if i, ok := catIdx[p.Category]; ok {
			facets.Categories[i].Count++
		} else {
			catIdx[p.Category] = len(facets.Categories)
			facets.Categories = append(facets.Categories, Facet{Label: p.Category, Count: 1})
		}
		if i, ok := statusIdx[p.Status]; ok {
			facets.Statuses[i].Count++
		} else {
			statusIdx[p.Status] = len(facets.Statuses)
			facets.Statuses = append(facets.Statuses, Facet{Label: p.Status, Count: 1})
		}
	}
	return facets
}
