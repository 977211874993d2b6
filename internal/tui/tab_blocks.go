package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/notify"
	"github.com/theirongolddev/subwatch/internal/tui/components"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderBlocksTab previews the exact messages a notify run would produce
// from the currently shown data.
func (a App) renderBlocksTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	if len(a.blocks) == 0 {
		quiet := lipgloss.NewStyle().Foreground(t.TextMuted).
			Render("No reminder blocks today.\nA notify run would print nothing and push nothing.")
		return components.ContentCard("Push Preview", quiet, cw)
	}

	for _, blk := range a.blocks {
		title := fmt.Sprintf("%s · %d", categoryTitle(blk.Category), blk.Count)
		b.WriteString(components.ContentCard(title, blockBody(blk), cw))
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Dispatch", a.dispatchNote(), cw))

	return b.String()
}

// blockBody colors the fixed header line and leaves the item lines as
// they would appear in the push message.
func blockBody(blk notify.Block) string {
	t := theme.Active

	headStyle := lipgloss.NewStyle().Foreground(categoryColor(blk.Category)).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	lines := strings.Split(blk.Text, "\n")
	var body strings.Builder
	for i, line := range lines {
		if i == 0 {
			body.WriteString(headStyle.Render(line))
		} else {
			body.WriteString(itemStyle.Render(line))
		}
		if i < len(lines)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}

func (a App) dispatchNote() string {
	t := theme.Active

	if config.HasPushoverCredentials(loadConfigOrDefault()) {
		return lipgloss.NewStyle().Foreground(t.Green).
			Render(fmt.Sprintf("Pushover configured — %d message(s) would be sent.", len(a.blocks)))
	}
	return lipgloss.NewStyle().Foreground(t.TextMuted).
		Render("No Pushover credentials — blocks would print to stdout only.")
}
