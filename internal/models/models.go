package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectID identifies a catalog record. Fixtures may carry it as a number or
// a string; both decode to the same textual form.
type ProjectID string

// UnmarshalJSON accepts numeric and string identifiers.
func (id *ProjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProjectID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("project id must be a number or string: %w", err)
	}
	*id = ProjectID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar identifier.
func (id *ProjectID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("project id must be a scalar, got line %d", node.Line)
	}
	if node.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ProjectID(strings.TrimSpace(node.Value))
	return nil
}

func (id ProjectID) String() string {
	return string(id)
}

// Project describes a single real-estate listing in the catalog.
type Project struct {
	ID          ProjectID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Location    string    `json:"location" yaml:"location"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Status      string    `json:"status" yaml:"status"`
	Price       float64   `json:"price" yaml:"price"`
	Image       string    `json:"image" yaml:"image"`
	Views       []string  `json:"views,omitempty" yaml:"views,omitempty"`
	Featured    bool      `json:"featured,omitempty" yaml:"featured,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
}

// Category labels seen in the catalog.
const (
	CategoryLuxury     = "Luxury"
	CategoryAffordable = "Affordable"
)

// Status labels seen in the catalog.
const (
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusPlanning  = "Planning"
)

// KnownCategories lists the categories offered as filters, in display order.
var KnownCategories = []string{CategoryLuxury, CategoryAffordable}

// KnownStatuses lists the statuses offered as filters, in display order.
var KnownStatuses = []string{StatusOngoing, StatusCompleted, StatusPlanning}

// statusAliases maps legacy status labels onto their canonical form.
var statusAliases = map[string]string{
	"in progress": StatusOngoing,
	"in_progress": StatusOngoing,
}

// NormalizeStatus maps legacy labels to canonical ones and trims whitespace.
// Unknown labels are returned unchanged.
func NormalizeStatus(status string) string {
	status = strings.TrimSpace(status)
	if canonical, ok := statusAliases[strings.ToLower(status)]; ok {
		return canonical
	}
	return status
}

// Normalize returns a copy with trimmed labels and canonical status. Nil
// optional slices stay nil.
func (p Project) Normalize() Project {
	p.ID = ProjectID(strings.TrimSpace(string(p.ID)))
	p.Category = strings.TrimSpace(p.Category)
	p.Status = NormalizeStatus(p.Status)
	if len(p.Views) > 0 {
		p.Views = append([]string(nil), p.Views...)
	}
	return p
}
