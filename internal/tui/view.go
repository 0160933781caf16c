package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"estates/internal/models"
	"estates/internal/query"
)

const (
	emptyStateText = "No projects match. Try a different search or loosen the filters."
	notFoundText   = "Project not found."
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5f5f5"))
	sectionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b")).MarginTop(1)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	priceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	chipStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#d1d5db"))
	activeChipStyle = chipStyle.Background(lipgloss.Color("#f59e0b")).Foreground(lipgloss.Color("#111111"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true)
	heroStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#f59e0b")).Padding(0, 1)
)

// View renders the current screen.
func (m *Model) View() string {
	switch m.screen {
	case screenDetails:
		return m.detailsView()
	case screenProfile:
		return m.profileView()
	default:
		return m.homeView()
	}
}

func (m *Model) homeView() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.chipsView())
	b.WriteString("\n")

	items := m.homeItems()
	if m.searching() {
		b.WriteString(sectionStyle.Render("Suggestions"))
		b.WriteString("\n")
		if len(items) == 0 {
			b.WriteString(mutedStyle.Render(emptyStateText))
			b.WriteString("\n")
		}
		for i, p := range items {
			b.WriteString(m.projectLine(p, i == m.homeCursor, true))
		}
		b.WriteString(helpLine("type to search • ↑/↓ select • enter open • esc clear • tab filters • ctrl+p profile • ctrl+c quit"))
		return b.String()
	}

	if len(m.featured) > 0 {
		b.WriteString(m.heroView())
		b.WriteString("\n")
	}

	groups := m.homeGroups()
	if len(groups) == 0 {
		b.WriteString(mutedStyle.Render(emptyStateText))
		b.WriteString("\n")
	}
	idx := 0
	for _, cat := range groups {
		for _, st := range cat.Statuses {
			b.WriteString(sectionStyle.Render(fmt.Sprintf("%s • %s", cat.Category, st.Status)))
			b.WriteString("\n")
			for _, p := range st.Projects {
				b.WriteString(m.projectLine(p, idx == m.homeCursor, false))
				idx++
			}
		}
	}
	b.WriteString(helpLine("↑/↓ select • enter open • ctrl+f featured • tab filters • ctrl+r refresh • ctrl+p profile • ctrl+c quit"))
	return b.String()
}

func (m *Model) heroView() string {
	p := m.featured[m.carousel%len(m.featured)]
	lines := []string{
		mutedStyle.Render(fmt.Sprintf("FEATURED PROJECT %d/%d", m.carousel%len(m.featured)+1, len(m.featured))),
		titleStyle.Render(p.Title),
		mutedStyle.Render(p.Location),
		priceStyle.Render(m.formatter.Price(p.Price)),
	}
	return heroStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) chipsView() string {
	active := m.home.ActiveChip()
	chips := make([]string, len(query.Chips))
	for i, c := range query.Chips {
		label := strings.ToUpper(c.Name[:1]) + c.Name[1:]
		if c.Name == active.Name {
			chips[i] = activeChipStyle.Render(label)
		} else {
			chips[i] = chipStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m *Model) projectLine(p models.Project, selected, withLocation bool) string {
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("> ")
	}
	line := prefix + titleStyle.Render(p.Title)
	if withLocation && p.Location != "" {
		line += "  " + mutedStyle.Render(p.Location)
	}
	line += "  " + priceStyle.Render(m.formatter.Price(p.Price))
	return line + "\n"
}

func (m *Model) detailsView() string {
	p, err := m.catalog.FindByID(m.selected)
	if err != nil {
		return errorStyle.Render(notFoundText) + "\n" + helpLine("esc back")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	if p.Location != "" {
		b.WriteString(mutedStyle.Render(p.Location))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%s • %s\n", p.Status, p.Category))
	b.WriteString(priceStyle.Render(m.formatter.Price(p.Price)))
	b.WriteString("\n\n")
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}
	if n := len(p.Views); n > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d additional views", n)))
		b.WriteString("\n")
	}
	if p.Image != "" {
		b.WriteString(mutedStyle.Render(p.Image))
		b.WriteString("\n")
	}
	b.WriteString(helpLine("esc back • ctrl+c quit"))
	return b.String()
}

func (m *Model) profileView() string {
	res := m.profileResult()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n")
	b.WriteString(dimensionLine("Category", m.profile.Category, "1", []string{"2 " + models.CategoryLuxury, "3 " + models.CategoryAffordable}))
	b.WriteString(dimensionLine("Status", m.profile.Status, "4", []string{"5 " + models.StatusOngoing, "6 " + models.StatusCompleted, "7 " + models.StatusPlanning}))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Showing %d of %d projects", res.Matched, res.Total)))
	b.WriteString("\n\n")

	if len(res.Projects) == 0 {
		b.WriteString(mutedStyle.Render(emptyStateText))
		b.WriteString("\n")
	}
	for i, p := range res.Projects {
		prefix := "  "
		if i == m.profCursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", prefix, titleStyle.Render(p.Title), mutedStyle.Render(p.Status+" • "+p.Category)))
	}
	b.WriteString(helpLine("1-7 filters • r reset • ↑/↓ select • enter open • esc home"))
	return b.String()
}

func dimensionLine(name string, d query.Dimension, allKey string, options []string) string {
	current := "All"
	if v, ok := d.Value(); ok {
		current = v
	}
	return fmt.Sprintf("%-9s %s  [%s All  %s]\n", name+":", activeChipStyle.Render(current), allKey, strings.Join(options, "  "))
}

func helpLine(text string) string {
	return "\n" + mutedStyle.Render(text) + "\n"
}
