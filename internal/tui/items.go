package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
)

// markItem wraps a mark for the list component.
type markItem struct {
	Mark    mark.Mark
	RelPath string
}

// FilterValue returns the value used for filtering.
func (i markItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", i.Mark.Name, i.Mark.Note, i.Mark.Breadcrumb, i.RelPath)
}

// markDelegate handles rendering of mark items in the list.
type markDelegate struct {
	Styles markDelegateStyles
	Cats   *markcfg.Table
}

// markDelegateStyles defines the styles for the mark delegate.
type markDelegateStyles struct {
	Normal    lipgloss.Style
	Selected  lipgloss.Style
	Location  lipgloss.Style
	Completed lipgloss.Style
}

func newMarkDelegate(cats *markcfg.Table) markDelegate {
	return markDelegate{
		Styles: markDelegateStyles{
			Normal:    normalStyle,
			Selected:  selectedStyle,
			Location:  mutedStyle,
			Completed: completedStyle,
		},
		Cats: cats,
	}
}

// Height returns the height of each item.
func (d markDelegate) Height() int { return 2 }

// Spacing returns the spacing between items.
func (d markDelegate) Spacing() int { return 1 }

// Update handles item updates.
func (d markDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single mark item.
// Line 1: icon Name • P3 • ✓
// Line 2: path:line breadcrumb
func (d markDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(markItem)
	if !ok {
		return
	}

	mk := mi.Mark
	isSelected := index == m.Index()
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4

	nameStyle := d.Styles.Normal
	if isSelected {
		nameStyle = d.Styles.Selected
	}

	icon := "📌"
	if cat, ok := d.Cats.Lookup(mk.Key); ok {
		icon = cat.Icon
	}

	prio := priorityStyle(mk.Priority).Render(fmt.Sprintf("P%d", mk.Priority))
	line1 := fmt.Sprintf("%s %s %s %s", icon, mk.Name, iconDot, prio)
	if mk.Completed {
		line1 += " " + d.Styles.Completed.Render("✓")
	}

	loc := fmt.Sprintf("%s:%d", mi.RelPath, mk.Line+1)
	if mk.Breadcrumb != "" {
		loc += "  " + mk.Breadcrumb
	}
	locRunes := []rune(loc)
	if len(locRunes) > contentWidth {
		loc = string(locRunes[:max(contentWidth-3, 0)]) + "..."
	}
	line2 := d.Styles.Location.Render(loc)

	var border string
	if isSelected {
		border = selectedBorderStyle.Render("┃") + " "
	} else {
		border = "  "
	}

	_, _ = fmt.Fprintf(w, "%s%s\n", border, nameStyle.Render(line1))
	_, _ = fmt.Fprintf(w, "%s%s", border, line2)
}

// detailMarkdown builds the glamour source for the detail pane.
func detailMarkdown(mi markItem, cats *markcfg.Table) string {
	mk := mi.Mark

	label := mk.Key
	icon := "📌"
	if cat, ok := cats.Lookup(mk.Key); ok {
		label = cat.Label
		icon = cat.Icon
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s %s\n\n", icon, mk.Name)
	fmt.Fprintf(&b, "**%s:%d**\n\n", mi.RelPath, mk.Line+1)
	fmt.Fprintf(&b, "- Category: %s (%s)\n", label, mk.Key)
	fmt.Fprintf(&b, "- Priority: P%d\n", mk.Priority)
	if mk.Breadcrumb != "" {
		fmt.Fprintf(&b, "- Symbol: `%s`\n", mk.Breadcrumb)
	}
	fmt.Fprintf(&b, "- Created: %s\n", mk.Created.Local().Format("2006-01-02 15:04"))
	if mk.Completed {
		done := "- Completed"
		if mk.CompletedAt != nil {
			done = fmt.Sprintf("- Completed: %s", mk.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		b.WriteString(done + "\n")
	}
	if mk.Note != "" {
		fmt.Fprintf(&b, "\n%s\n", mk.Note)
	}
	return b.String()
}
