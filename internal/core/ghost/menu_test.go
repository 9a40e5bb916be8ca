package ghost

import (
	"strings"
	"testing"
)

func TestMenuRender(t *testing.T) {
	f := newDispatcherFixture(t)
	menu := NewMenu(f.marks, f.cats, f.filters, f.cfg)

	if got := menu.Render(f.s); got != "" {
		t.Fatalf("render without activation = %q, want empty", got)
	}

	f.confirm(t)
	f.prompter.Answers = []*string{nil}
	f.key(t, 't', false)

	out := menu.Render(f.s)
	for _, want := range []string{
		"main.go:2",
		"Currently marked as",
		"**;**: Remove this mark",
		"**/**: Settings",
		"**L**: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("menu missing %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Tip") {
		t.Error("menu without filters should show the filter tip")
	}

	f.key(t, 'B', true) // toggle a key filter
	out = menu.Render(f.s)
	if !strings.Contains(out, "Active Filters") || !strings.Contains(out, "Keys: b") {
		t.Errorf("menu missing active filter section:\n%s", out)
	}
}
