package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/model"
	"github.com/theirongolddev/subwatch/internal/pipeline"
	"github.com/theirongolddev/subwatch/internal/tui/components"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderUpcomingTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: Metric cards
	o := a.overview
	monthlyDelta := ""
	if o.CostKnown > 0 {
		monthlyDelta = fmt.Sprintf("%d priced", o.CostKnown)
	}
	metrics := []components.Metric{
		{Label: "Subscriptions", Value: cli.FormatNumber(int64(o.Subscriptions))},
		{Label: "Active", Value: cli.FormatNumber(int64(o.Active))},
		{Label: "Monthly", Value: cli.FormatWon(o.MonthlyCost), Delta: monthlyDelta},
		{Label: "Due", Value: cli.FormatNumber(int64(a.digest.Total()))},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: One card per non-empty reminder bucket
	if a.digest.Empty() {
		quiet := lipgloss.NewStyle().Foreground(t.TextMuted).
			Render("Nothing due within the reminder window.")
		b.WriteString(components.ContentCard("Renewals", quiet, cw))
		b.WriteString("\n")
	} else {
		for _, cat := range model.Categories {
			subs := a.digest.ByCategory(cat)
			if len(subs) == 0 {
				continue
			}
			b.WriteString(components.ContentCard(
				fmt.Sprintf("%s (%d)", categoryTitle(cat), len(subs)),
				a.renderCategoryBody(cat, subs, components.CardInnerWidth(cw)),
				cw,
			))
			b.WriteString("\n")
		}
	}

	// Row 3: Cost share of the priciest active subscriptions
	b.WriteString(a.renderTopCosts(cw))

	return b.String()
}

func categoryTitle(cat model.Category) string {
	switch cat {
	case model.CategoryOverdue:
		return "Overdue"
	case model.CategoryDueToday:
		return "Due Today"
	default:
		return "Due Soon"
	}
}

func categoryColor(cat model.Category) lipgloss.Color {
	t := theme.Active
	switch cat {
	case model.CategoryOverdue:
		return t.Red
	case model.CategoryDueToday:
		return t.Orange
	default:
		return t.Yellow
	}
}

func (a App) renderCategoryBody(cat model.Category, subs []model.Subscription, innerW int) string {
	t := theme.Active

	dayStyle := lipgloss.NewStyle().Foreground(categoryColor(cat)).Bold(true)
	costStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	// Name column absorbs the remaining width; MaxWidth keeps wide
	// Korean names from pushing the other columns around.
	nameW := innerW - 32
	if nameW < 12 {
		nameW = 12
	}
	if nameW > 32 {
		nameW = 32
	}
	nameStyle := lipgloss.NewStyle().
		Width(nameW).
		MaxWidth(nameW).
		Foreground(t.TextPrimary)

	var body strings.Builder
	for _, s := range sortByDue(subs) {
		day := strings.Repeat(" ", 5)
		if s.DateRemaining != nil {
			day = fmt.Sprintf("%-5s", cli.FormatDDay(*s.DateRemaining))
		}
		fmt.Fprintf(&body, "%s %s %s  %s\n",
			dayStyle.Render(day),
			nameStyle.Render(s.DisplayName()),
			costStyle.Render(fmt.Sprintf("%10s", s.Cost())),
			dateStyle.Render(s.RenewalDate()))
	}
	return body.String()
}

// renderTopCosts renders a share bar per active subscription with a
// known cost, most expensive first.
func (a App) renderTopCosts(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	var priced []model.Subscription
	for _, s := range pipeline.FilterActive(a.subs) {
		if s.CostRaw != nil {
			priced = append(priced, s)
		}
	}
	if len(priced) == 0 {
		return ""
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return *priced[i].CostRaw > *priced[j].CostRaw
	})

	limit := 5
	if len(priced) < limit {
		limit = len(priced)
	}

	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := innerW / 3
	if nameW < 10 {
		nameW = 10
	}
	nameStyle := lipgloss.NewStyle().
		Width(nameW).
		MaxWidth(nameW).
		Foreground(t.TextPrimary)

	barMaxLen := innerW - nameW - 12
	if barMaxLen < 1 {
		barMaxLen = 1
	}

	maxCost := *priced[0].CostRaw

	var body strings.Builder
	for _, s := range priced[:limit] {
		cost := *s.CostRaw
		barLen := 0
		if maxCost > 0 {
			barLen = int(cost / maxCost * float64(barMaxLen))
		}
		if barLen < 0 {
			barLen = 0
		}
		fmt.Fprintf(&body, "%s %s %s\n",
			nameStyle.Render(s.DisplayName()),
			barStyle.Render(strings.Repeat("█", barLen)),
			amountStyle.Render(cli.FormatWon(cost)))
	}

	return components.ContentCard("Top Costs", body.String(), cw)
}
