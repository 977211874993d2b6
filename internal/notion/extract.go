package notion

import (
	"encoding/json"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/model"
)

// Property names of the subscription database columns.
const (
	propName          = "Name"
	propCost          = "Cost"
	propDateRemaining = "Date Remaining"
	propStatus        = "Status"
	propNextRenewal   = "Next Renewal"
)

// Extract converts raw pages into normalized subscriptions, one per
// page, preserving order. Extraction never fails: a missing or
// malformed property leaves that one field nil and the rest intact.
func Extract(pages []Page) []model.Subscription {
	subs := make([]model.Subscription, 0, len(pages))
	for _, p := range pages {
		subs = append(subs, extractPage(p))
	}
	return subs
}

// extractPage derives every field of one subscription independently.
func extractPage(p Page) model.Subscription {
	var sub model.Subscription

	sub.Name = extractTitle(p.Properties[propName])
	if cost := extractNumber(p.Properties[propCost]); cost != nil {
		display := cli.FormatWon(*cost)
		sub.CostRaw = cost
		sub.CostDisplay = &display
	}
	sub.DateRemaining = extractFormulaDays(p.Properties[propDateRemaining])
	sub.Status = extractStatus(p.Properties[propStatus])
	sub.NextRenewal = extractFormulaDate(p.Properties[propNextRenewal])

	return sub
}

// extractTitle returns the first title segment's plain text, nil when
// the property is missing, malformed, or the title array is empty.
func extractTitle(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var p titleProperty
	if err := json.Unmarshal(raw, &p); err != nil || len(p.Title) == 0 {
		return nil
	}
	return p.Title[0].PlainText
}

// extractNumber returns a number property's value, nil when missing or
// non-numeric.
func extractNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var p numberProperty
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return p.Number
}

// extractStatus returns a status property's label name.
func extractStatus(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var p statusProperty
	if err := json.Unmarshal(raw, &p); err != nil || p.Status == nil {
		return nil
	}
	return p.Status.Name
}

// extractFormulaDays returns a formula property's numeric result as a
// whole day count, truncating toward zero. Formula day offsets are
// whole numbers; a fractional value is malformed input and degrades
// the same way.
func extractFormulaDays(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var p formulaProperty
	if err := json.Unmarshal(raw, &p); err != nil || p.Formula == nil || p.Formula.Number == nil {
		return nil
	}
	days := int(*p.Formula.Number)
	return &days
}

// extractFormulaDate returns a formula property's date start, nil when
// any level of the nested value is missing.
func extractFormulaDate(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var p formulaProperty
	if err := json.Unmarshal(raw, &p); err != nil || p.Formula == nil || p.Formula.Date == nil {
		return nil
	}
	return p.Formula.Date.Start
}
