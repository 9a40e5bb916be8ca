package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
	"github.com/colonyops/ghostmark/internal/core/notify"
)

const detailWidth = 44

// Browser is the interactive mark list. It mutates the store directly
// (toggle, delete) and reports the mark chosen with enter so the caller
// can jump to it.
type Browser struct {
	store   *mark.Store
	cats    *markcfg.Table
	filters *filters.Set

	list          list.Model
	renderer      *glamour.TermRenderer
	sortBy        mark.SortBy
	hideCompleted bool
	status        string
	statusLevel   notify.Level
	jump          *mark.Mark

	width  int
	height int
}

// NewBrowser builds the browser model. Subscribing it to the bus makes
// store notifications show up in the status line.
func NewBrowser(store *mark.Store, cats *markcfg.Table, fl *filters.Set, bus *notify.Bus) *Browser {
	delegate := newMarkDelegate(cats)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "👻 ghostmark"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	b := &Browser{
		store:   store,
		cats:    cats,
		filters: fl,
		list:    l,
		sortBy:  mark.SortCreated,
	}

	if bus != nil {
		bus.Subscribe(func(n notify.Notification) {
			b.status = n.Message
			b.statusLevel = n.Level
		})
	}

	b.reload()
	return b
}

// JumpTarget returns the mark selected with enter, if any.
func (b *Browser) JumpTarget() (mark.Mark, bool) {
	if b.jump == nil {
		return mark.Mark{}, false
	}
	return *b.jump, true
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetSize(max(msg.Width-detailWidth-4, 30), max(msg.Height-3, 5))
		b.renderer = nil // rebuild at the new width
		return b, nil

	case tea.KeyMsg:
		// While the list's filter input is open, every key belongs to it.
		if b.list.SettingFilter() {
			break
		}

		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit

		case "enter":
			if item, ok := b.list.SelectedItem().(markItem); ok {
				m := item.Mark
				b.jump = &m
				return b, tea.Quit
			}

		case "c":
			if item, ok := b.list.SelectedItem().(markItem); ok {
				if _, err := b.store.ToggleComplete(context.Background(), item.Mark.ID); err != nil {
					b.setStatus(notify.LevelError, "toggle failed: %v", err)
				}
				b.reload()
			}
			return b, nil

		case "d":
			if item, ok := b.list.SelectedItem().(markItem); ok {
				if err := b.store.Remove(context.Background(), item.Mark.ID); err != nil {
					b.setStatus(notify.LevelError, "delete failed: %v", err)
				} else {
					b.setStatus(notify.LevelInfo, "deleted %s", item.Mark.Name)
				}
				b.reload()
			}
			return b, nil

		case "x":
			b.hideCompleted = !b.hideCompleted
			b.reload()
			return b, nil

		case "s":
			b.sortBy = nextSort(b.sortBy)
			b.reload()
			return b, nil

		case "0":
			b.filters.Clear(context.Background())
			b.reload()
			return b, nil

		case "1", "2", "3", "4", "5":
			b.filters.TogglePriority(context.Background(), int(key[0]-'0'))
			b.reload()
			return b, nil

		default:
			// Uppercase letters toggle category key filters, mirroring
			// the in-editor Shift+letter binding.
			if len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z' {
				b.filters.ToggleKey(context.Background(), strings.ToLower(key))
				b.reload()
				return b, nil
			}
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.width == 0 {
		return "loading..."
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, b.list.View(), b.detailView())

	var lines []string
	if bar := b.filterBar(); bar != "" {
		lines = append(lines, bar)
	}
	lines = append(lines, main)
	if b.status != "" {
		style := statusStyle
		switch b.statusLevel {
		case notify.LevelWarning:
			style = style.Foreground(colorWarning)
		case notify.LevelError:
			style = style.Foreground(colorError)
		}
		lines = append(lines, style.Render(b.status))
	}
	lines = append(lines, helpStyle.Render("enter jump  c complete  d delete  / search  A-Z key filter  1-5 priority  0 clear  x hide done  s sort  q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (b *Browser) detailView() string {
	item, ok := b.list.SelectedItem().(markItem)
	if !ok {
		return detailStyle.Width(detailWidth).Render(mutedStyle.Render("no marks"))
	}

	src := detailMarkdown(item, b.cats)
	out, err := b.render(src)
	if err != nil {
		out = src
	}
	return detailStyle.Width(detailWidth).Height(max(b.height-5, 5)).Render(out)
}

func (b *Browser) render(src string) (string, error) {
	if b.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(detailWidth-4),
		)
		if err != nil {
			return "", err
		}
		b.renderer = r
	}
	return b.renderer.Render(src)
}

func (b *Browser) filterBar() string {
	keys := b.filters.Keys()
	priorities := b.filters.Priorities()
	if len(keys) == 0 && len(priorities) == 0 && !b.hideCompleted {
		return ""
	}

	var parts []string
	if len(keys) > 0 {
		parts = append(parts, "keys: "+strings.Join(keys, ","))
	}
	if len(priorities) > 0 {
		ps := make([]string, len(priorities))
		for i, p := range priorities {
			ps[i] = fmt.Sprintf("P%d", p)
		}
		parts = append(parts, "priority: "+strings.Join(ps, ","))
	}
	if b.hideCompleted {
		parts = append(parts, "hiding completed")
	}
	return filterBarStyle.Render("🔒 " + strings.Join(parts, "  "))
}

// reload re-queries the store and swaps the list items, keeping the
// cursor near its previous position.
func (b *Browser) reload() {
	marks := b.store.Query(mark.Query{
		FilterKeys:       b.filters.Keys(),
		FilterPriorities: b.filters.Priorities(),
		HideCompleted:    b.hideCompleted,
		SortBy:           b.sortBy,
	})

	items := make([]list.Item, len(marks))
	for i, m := range marks {
		items[i] = markItem{Mark: m, RelPath: b.store.RelPath(m)}
	}

	idx := b.list.Index()
	b.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		b.list.Select(idx)
	}
}

func (b *Browser) setStatus(level notify.Level, format string, args ...any) {
	b.status = fmt.Sprintf(format, args...)
	b.statusLevel = level
}

func nextSort(s mark.SortBy) mark.SortBy {
	switch s {
	case mark.SortCreated:
		return mark.SortPriority
	case mark.SortPriority:
		return mark.SortKey
	default:
		return mark.SortCreated
	}
}
