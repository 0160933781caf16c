package query

import "estates/internal/models"

// StatusGroup holds the projects sharing one status inside a category.
type StatusGroup struct {
	Status   string           `json:"status"`
	Projects []models.Project `json:"projects"`
}

// CategoryGroup holds the status buckets of one category.
type CategoryGroup struct {
	Category string        `json:"category"`
	Statuses []StatusGroup `json:"statuses"`
}

// Groups is an ordered category -> status -> projects mapping. Categories and
// statuses appear in first-seen order and no bucket is ever empty.
type Groups []CategoryGroup

// Group partitions projects by category, then status.
func Group(projects []models.Project) Groups {
	groups := Groups{}
	catIdx := map[string]int{}
	statusIdx := map[string]map[string]int{}

	for _, p := range projects {
		ci, ok := catIdx[p.Category]
		if !ok {
			ci = len(groups)
			catIdx[p.Category] = ci
			statusIdx[p.Category] = map[string]int{}
			groups = append(groups, CategoryGroup{Category: p.Category})
		}

		cat := &groups[ci]
		si, ok := statusIdx[p.Category][p.Status]
		if !ok {
			si = len(cat.Statuses)
			statusIdx[p.Category][p.Status] = si
			cat.Statuses = append(cat.Statuses, StatusGroup{Status: p.Status})
		}
		cat.Statuses[si].Projects = append(cat.Statuses[si].Projects, p)
	}
	return groups
}

// Lookup returns the bucket for a category and status.
func (g Groups) Lookup(category, status string) ([]models.Project, bool) {
	for _, cat := range g {
		if cat.Category != category {
			continue
		}
		for _, st := range cat.Statuses {
			if st.Status == status {
				return st.Projects, true
			}
		}
	}
	return nil, false
}

// Categories lists the category keys in order.
func (g Groups) Categories() []string {
	out := make([]string, len(g))
	for i, cat := range g {
		out[i] = cat.Category
	}
	return out
}

// Len counts the projects across all buckets.
func (g Groups) Len() int {
	n := 0
	for _, cat := range g {
		for _, st := range cat.Statuses {
			n += len(st.Projects)
		}
	}
	return n
}
