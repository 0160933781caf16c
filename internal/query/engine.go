// Package query implements the catalog query pipeline shared by the HTTP API
// and the terminal shell: search, filter, group and suggestion lookups over
// an immutable catalog.
package query

import (
	"sort"
	"strings"

	"estates/internal/catalog"
	"estates/internal/models"
)

// DefaultSuggestionLimit caps the search dropdown.
const DefaultSuggestionLimit = 4

// Field extracts one searchable text field from a project.
type Field struct {
	Name  string
	Value func(models.Project) string
}

var (
	FieldTitle       = Field{Name: "title", Value: func(p models.Project) string { return p.Title }}
	FieldLocation    = Field{Name: "location", Value: func(p models.Project) string { return p.Location }}
	FieldDescription = Field{Name: "description", Value: func(p models.Project) string { return p.Description }}
)

// DefaultFields is the canonical search policy.
var DefaultFields = []Field{FieldTitle, FieldLocation, FieldDescription}

// Query is one evaluation request against the catalog. Empty Category or
// Status match everything; a zero Limit means no limit.
type Query struct {
	Term     string `json:"term"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Result is the display-ready output of Run.
type Result struct {
	Projects []models.Project `json:"projects"`
	Groups   Groups           `json:"groups"`
	Matched  int              `json:"matched"`
	Total    int              `json:"total"`
}

// Engine evaluates queries with a pluggable match strategy.
type Engine struct {
	matcher         Matcher
	fields          []Field
	suggestionLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher swaps the match strategy.
func WithMatcher(m Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithFields sets the searched fields.
func WithFields(fields ...Field) Option {
	return func(e *Engine) {
		if len(fields) > 0 {
			e.fields = fields
		}
	}
}

// WithSuggestionLimit sets how many suggestions Suggest returns.
func WithSuggestionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.suggestionLimit = n
		}
	}
}

// NewEngine returns an engine using fuzzy matching over DefaultFields.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		matcher:         FuzzyMatcher{Threshold: DefaultThreshold},
		fields:          DefaultFields,
		suggestionLimit: DefaultSuggestionLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SuggestionLimit reports the configured suggestion cap.
func (e *Engine) SuggestionLimit() int {
	return e.suggestionLimit
}

// Search returns the projects matching term, most relevant first. Ties keep
// input order. An empty term returns the input unchanged.
func (e *Engine) Search(projects []models.Project, term string) []models.Project {
	term = strings.TrimSpace(term)
	if term == "" {
		out := make([]models.Project, len(projects))
		copy(out, projects)
		return out
	}

	type scored struct {
		project models.Project
		score   float64
	}

	hits := make([]scored, 0, len(projects))
	for _, p := range projects {
		best, matched := 0.0, false
		for _, f := range e.fields {
			score, ok := e.matcher.Match(term, f.Value(p))
			if !ok {
				continue
			}
			if !matched || score < best {
				best, matched = score, true
			}
		}
		if matched {
			hits = append(hits, scored{project: p, score: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score < hits[j].score
	})

	out := make([]models.Project, len(hits))
	for i, h := range hits {
		out[i] = h.project
	}
	return out
}

// Filter keeps projects whose category and status match the given labels.
// Empty labels match everything. Comparison ignores case.
func Filter(projects []models.Project, category, status string) []models.Project {
	category = strings.TrimSpace(category)
	status = models.NormalizeStatus(status)

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if status != "" && !strings.EqualFold(p.Status, status) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Run evaluates q against the catalog.
func (e *Engine) Run(c *catalog.Catalog, q Query) Result {
	matched := Filter(e.Search(c.Projects(), q.Term), q.Category, q.Status)
	count := len(matched)
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return Result{
		Projects: matched,
		Groups:   Group(matched),
		Matched:  count,
		Total:    c.Len(),
	}
}

// Suggest returns the top matches for the search dropdown. Nothing is
// suggested for an empty term.
func (e *Engine) Suggest(c *catalog.Catalog, q Query) []models.Project {
	if strings.TrimSpace(q.Term) == "" {
		return []models.Project{}
	}
	if q.Limit <= 0 || q.Limit > e.suggestionLimit {
		q.Limit = e.suggestionLimit
	}
	return e.Run(c, q).Projects
}

// FindByID resolves the project a selection navigates to.
func FindByID(c *catalog.Catalog, id models.ProjectID) (models.Project, error) {
	return c.FindByID(id)
}
