package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"estates/internal/catalog"
	"estates/internal/models"
	"estates/internal/query"
)

type projectQuery struct {
	Term     string `form:"q"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Chip     string `form:"chip"`
	Limit    string `form:"limit"`
}

// toQuery applies the chip first so explicit category/status params win.
func (r projectQuery) toQuery() (query.Query, error) {
	chip, err := query.ParseChip(r.Chip)
	if err != nil {
		return query.Query{}, err
	}
	q := chip.Apply(query.Query{Term: strings.TrimSpace(r.Term)})
	if v := strings.TrimSpace(r.Category); v != "" {
		q.Category = v
	}
	if v := strings.TrimSpace(r.Status); v != "" {
		q.Status = v
	}
	if r.Limit != "" {
		limit, err := strconv.Atoi(r.Limit)
		if err != nil || limit < 0 {
			return query.Query{}, fmt.Errorf("limit must be a non-negative integer")
		}
		q.Limit = limit
	}
	return q, nil
}

func (s *Server) bindQuery(c *gin.Context) (query.Query, bool) {
	var req projectQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return query.Query{}, false
	}
	q, err := req.toQuery()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return query.Query{}, false
	}
	return q, true
}

// handleListProjects searches and filters the catalog.
func (s *Server) handleListProjects(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}
	res := s.query.Run(s.catalog, q)
	s.metrics.ObserveQuery("list", res.Matched)
	respondSuccess(c, http.StatusOK, gin.H{
		"projects": res.Projects,
		"matched":  res.Matched,
		"total":    res.Total,
	})
}

// handleGroupedProjects returns the category/status sections of the home feed.
func (s *Server) handleGroupedProjects(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}
	res := s.query.Run(s.catalog, q)
	s.metrics.ObserveQuery("grouped", res.Matched)
	respondSuccess(c, http.StatusOK, gin.H{
		"groups":  res.Groups,
		"matched": res.Matched,
		"total":   res.Total,
	})
}

// handleFeaturedProjects returns the carousel subset.
func (s *Server) handleFeaturedProjects(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"projects": nonNil(s.catalog.Featured())})
}

// handleSuggestions returns the top matches for the search dropdown.
func (s *Server) handleSuggestions(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}
	projects := s.query.Suggest(s.catalog, q)
	s.metrics.ObserveQuery("suggest", len(projects))
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleGetProject resolves a selection to its detail record.
func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := query.FindByID(s.catalog, id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.metrics.LookupMiss()
		s.respondError(c, http.StatusNotFound, catalog.ErrNotFound)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"project": project,
		"price":   s.formatter.Price(project.Price),
	})
}

// handleFilters lists the labels the filter controls can offer.
func (s *Server) handleFilters(c *gin.Context) {
	facets := s.catalog.Facets()
	respondSuccess(c, http.StatusOK, gin.H{
		"categories": facets.Categories,
		"statuses":   facets.Statuses,
		"chips":      query.Chips,
	})
}

func nonNil(projects []models.Project) []models.Project {
	if projects == nil {
		return []models.Project{}
	}
	return projects
}
