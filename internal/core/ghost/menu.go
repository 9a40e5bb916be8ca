package ghost

import (
	"fmt"
	"sort"
	"strings"

	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
)

// Menu builds the markdown payload shown when a hover is confirmed: the
// anchored location, mark actions, active marks and filters, and the
// context shortcut table.
type Menu struct {
	marks   *mark.Store
	cats    *markcfg.Table
	filters *filters.Set
	cfg     *config.Config
}

// NewMenu wires a menu builder to its collaborators.
func NewMenu(marks *mark.Store, cats *markcfg.Table, fl *filters.Set, cfg *config.Config) *Menu {
	return &Menu{marks: marks, cats: cats, filters: fl, cfg: cfg}
}

// Render produces the hover markdown for the given session state.
func (m *Menu) Render(s *Session) string {
	st := s.State()
	if !st.Active {
		return ""
	}

	doc := s.View().Document()
	var b strings.Builder

	fmt.Fprintf(&b, "### 👻 ghostmark\n\n")
	fmt.Fprintf(&b, "**%s:%d**\n\n---\n\n", mark.RelPath(m.marks.WorkspaceRoot(), doc.URI()), st.Anchor.Line+1)

	b.WriteString("**📌 Mark Actions**\n\n")
	b.WriteString("- **a-z**: Register mark with key\n")

	if existing, ok := m.marks.GetAt(doc.URI(), st.Anchor.Line); ok {
		icon, label := "📌", existing.Key
		if cat, ok := m.cats.Lookup(existing.Key); ok {
			icon, label = cat.Icon, cat.Label
		}
		completed := ""
		if existing.Completed {
			completed = " ✅ **(Completed)**"
		}
		fmt.Fprintf(&b, "- ⚠️ Currently marked as: **%s %s**%s\n", icon, label, completed)
		b.WriteString("- **;**: Remove this mark\n")
		if existing.Completed {
			b.WriteString("- **:**: Mark as incomplete\n")
		} else {
			b.WriteString("- **:**: Mark as completed\n")
		}
	}
	b.WriteString("- **@**: Open mark list\n")

	m.writeActiveMarks(&b)
	m.writeFilters(&b)
	m.writeShortcuts(&b, st.Context)

	b.WriteString("\n---\n\n- **/**: Settings\n")
	return b.String()
}

func (m *Menu) writeActiveMarks(b *strings.Builder) {
	type count struct {
		key string
		n   int
	}
	var counts []count
	for r := 'a'; r <= 'z'; r++ {
		key := string(r)
		if n := m.marks.CountByKey(key); n > 0 {
			counts = append(counts, count{key, n})
		}
	}
	if len(counts) == 0 {
		return
	}

	b.WriteString("\n**📚 Active Marks**\n\n")
	for _, c := range counts {
		icon := "📌"
		if cat, ok := m.cats.Lookup(c.key); ok {
			icon = cat.Icon
		}
		fmt.Fprintf(b, "- **%s** (%s) %d\n", c.key, icon, c.n)
	}
}

func (m *Menu) writeFilters(b *strings.Builder) {
	keys := m.filters.Keys()
	priorities := m.filters.Priorities()

	if len(keys) == 0 && len(priorities) == 0 {
		b.WriteString("\n**💡 Tip**\n\n")
		b.WriteString("- **Shift+Key**: Toggle key filter (e.g., Shift+t)\n")
		b.WriteString("- **Shift+1-5**: Toggle priority filter\n")
		return
	}

	b.WriteString("\n**🔒 Active Filters**\n\n")
	if len(keys) > 0 {
		fmt.Fprintf(b, "- Keys: %s\n", strings.Join(keys, ", "))
	}
	if len(priorities) > 0 {
		labels := make([]string, len(priorities))
		for i, p := range priorities {
			labels[i] = fmt.Sprintf("P%d", p)
		}
		fmt.Fprintf(b, "- Priority: %s\n", strings.Join(labels, ", "))
	}
	b.WriteString("- **Shift+Space**: Clear all filters\n")
}

func (m *Menu) writeShortcuts(b *strings.Builder, context string) {
	table := m.cfg.ForContext(context)
	if len(table) == 0 {
		return
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("\n**⚡ Shortcuts**\n\n")
	for _, k := range keys {
		sc := table[k]
		label := sc.Label
		if label == "" {
			label = sc.Command
		}
		fmt.Fprintf(b, "- **%s**: %s\n", k, label)
	}
}
