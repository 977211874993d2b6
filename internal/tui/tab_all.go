package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/model"
	"github.com/theirongolddev/subwatch/internal/pipeline"
	"github.com/theirongolddev/subwatch/internal/tui/components"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// All-tab view modes — split is iota (0) so it's the default zero value.
const (
	allViewSplit  = iota // list + detail side by side (default)
	allViewDetail        // full-screen detail
)

// allState holds the all-subscriptions tab state.
type allState struct {
	cursor   int
	viewMode int
	offset   int // scroll offset for the list
}

func (a App) renderAllContent(cw, h int) string {
	t := theme.Active

	if len(a.sorted) == 0 {
		return components.ContentCard("Subscriptions",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No subscriptions found"), cw)
	}

	if a.isCompactLayout() {
		return a.renderAllList(cw, h)
	}

	switch a.allState.viewMode {
	case allViewDetail:
		return a.renderAllDetail(cw)
	default:
		return a.renderAllSplit(cw, h)
	}
}

func (a App) renderAllSplit(cw, h int) string {
	if a.allState.cursor >= len(a.sorted) {
		return ""
	}

	leftW := cw / 3
	if leftW < 32 {
		leftW = 32
	}
	rightW := cw - leftW

	leftCard := a.renderAllList(leftW, h)

	sel := a.sorted[a.allState.cursor]
	rightCard := components.ContentCard(detailTitle(sel), a.renderAllDetailBody(sel, rightW), rightW)

	return components.CardRow([]string{leftCard, rightCard})
}

func (a App) renderAllList(w, h int) string {
	t := theme.Active
	leftInner := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		MaxWidth(leftInner)
	inactiveRowStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		MaxWidth(leftInner)
	selectedStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Bold(true).
		MaxWidth(leftInner)

	visible := h - 6 // card border (2) + title (1) + some breathing room
	if visible < 5 {
		visible = 5
	}

	offset := a.allState.offset
	if a.allState.cursor < offset {
		offset = a.allState.cursor
	}
	if a.allState.cursor >= offset+visible {
		offset = a.allState.cursor - visible + 1
	}

	end := offset + visible
	if end > len(a.sorted) {
		end = len(a.sorted)
	}

	var body strings.Builder
	for i := offset; i < end; i++ {
		s := a.sorted[i]

		day := strings.Repeat(" ", 5)
		if s.DateRemaining != nil {
			day = fmt.Sprintf("%-5s", cli.FormatDDay(*s.DateRemaining))
		}
		name := s.DisplayName()
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%s %s", day, name)

		switch {
		case i == a.allState.cursor:
			body.WriteString(selectedStyle.Render(line))
		case s.StatusLabel() != pipeline.StatusActive:
			body.WriteString(inactiveRowStyle.Render(line))
		default:
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}

	title := fmt.Sprintf("Subscriptions [%d]", len(a.sorted))
	return components.ContentCard(title, body.String(), w)
}

func (a App) renderAllDetail(cw int) string {
	if a.allState.cursor >= len(a.sorted) {
		return ""
	}
	sel := a.sorted[a.allState.cursor]
	return components.ContentCard(detailTitle(sel), a.renderAllDetailBody(sel, cw), cw)
}

func detailTitle(s model.Subscription) string {
	name := s.DisplayName()
	if name == "" {
		return "Subscription"
	}
	return cli.Truncate(name, 28)
}

// renderAllDetailBody shows every field of one subscription plus the
// reminder bucket it would land in today.
func (a App) renderAllDetailBody(sel model.Subscription, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	orDash := func(v string) string {
		if v == "" {
			return mutedStyle.Render("—")
		}
		return valueStyle.Render(v)
	}

	var body strings.Builder
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n\n")

	dday := ""
	if sel.DateRemaining != nil {
		dday = cli.FormatDDay(*sel.DateRemaining)
	}

	rows := []struct{ label, value string }{
		{"Cost:", sel.Cost()},
		{"Renews:", sel.RenewalDate()},
		{"D-Day:", dday},
		{"Status:", sel.StatusLabel()},
	}
	for _, r := range rows {
		fmt.Fprintf(&body, "%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-9s", r.label)),
			orDash(r.value))
	}

	body.WriteString("\n")
	body.WriteString(labelStyle.Render("Reminder:"))
	body.WriteString(" ")
	body.WriteString(a.reminderLine(sel))
	body.WriteString("\n\n")
	body.WriteString(mutedStyle.Render("[Enter] expand  [j/k] navigate  [q] quit"))

	return body.String()
}

// reminderLine explains whether a notify run today would include this
// subscription, and why not when it wouldn't.
func (a App) reminderLine(sel model.Subscription) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if cat, ok := pipeline.Classify(sel); ok {
		catStyle := lipgloss.NewStyle().Foreground(categoryColor(cat)).Bold(true)
		return catStyle.Render("● " + categoryTitle(cat))
	}

	switch {
	case sel.StatusLabel() != pipeline.StatusActive:
		return mutedStyle.Render("none (not active)")
	case sel.DateRemaining == nil:
		return mutedStyle.Render("none (no renewal countdown)")
	default:
		return mutedStyle.Render("none (outside the 1/2/3/5/7 day marks)")
	}
}
