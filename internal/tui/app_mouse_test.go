package tui

import (
	"testing"

	"github.com/theirongolddev/subwatch/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < len(components.Tabs); active++ {
		a := App{activeTab: active}
		pos := 1 // leading space

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)

			if got := a.tabAtX(pos); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos, got, i)
			}
			if got := a.tabAtX(pos + w - 1); got != i {
				t.Fatalf("active=%d x=%d (last col) -> tab=%d, want %d", active, pos+w-1, got, i)
			}

			// The two separator columns after each tab hit nothing.
			if i < len(components.Tabs)-1 {
				if got := a.tabAtX(pos + w); got != -1 {
					t.Fatalf("active=%d x=%d (separator) -> tab=%d, want -1", active, pos+w, got)
				}
			}

			pos += w + 2
		}
	}
}

func TestTabAtXMisses(t *testing.T) {
	a := App{}

	if got := a.tabAtX(0); got != -1 {
		t.Errorf("tabAtX(0) = %d, want -1 (leading space)", got)
	}
	if got := a.tabAtX(10000); got != -1 {
		t.Errorf("tabAtX(10000) = %d, want -1 (past the bar)", got)
	}
}
