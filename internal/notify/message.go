// Package notify renders notification digests into message blocks and
// runs the fetch-render-dispatch cycle.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/subwatch/internal/model"
)

// Fixed block headers, one per category.
const (
	HeaderOverdue  = "❗ 결제 예정일이 지난 서비스가 있습니다!"
	HeaderDueToday = "❗ 오늘 결제 예정인 서비스가 있습니다."
	HeaderDueSoon  = "⚠️ 일주일 이내 결제 예정인 서비스가 있습니다."
)

// maxDisplayItems caps the item lines per block; anything beyond
// collapses into a single overflow line.
const maxDisplayItems = 4

// Block is one rendered push message.
type Block struct {
	Category model.Category
	Count    int
	Text     string
}

// RenderDigest renders the non-empty categories into blocks, in the
// fixed order overdue, due today, due soon.
func RenderDigest(d model.Digest) []Block {
	var blocks []Block
	for _, cat := range model.Categories {
		subs := d.ByCategory(cat)
		text, ok := RenderCategory(cat, subs)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{Category: cat, Count: len(subs), Text: text})
	}
	return blocks
}

// RenderCategory renders one category into a block string. ok is false
// when the category holds no records and so contributes no block.
//
// Records sort by next renewal date ascending, a missing date before
// all real ones, ties broken by cost descending. The first
// maxDisplayItems records render as lines; the rest become one
// overflow line. Missing names, costs, and dates render as empty
// strings, never as errors.
func RenderCategory(cat model.Category, subs []model.Subscription) (string, bool) {
	if len(subs) == 0 {
		return "", false
	}

	sorted := sortForDisplay(subs)
	display := sorted
	overflow := 0
	if len(sorted) > maxDisplayItems {
		display = sorted[:maxDisplayItems]
		overflow = len(sorted) - maxDisplayItems
	}

	lines := make([]string, 0, len(display)+2)
	lines = append(lines, headerFor(cat))
	for _, s := range display {
		lines = append(lines, fmt.Sprintf("  • %s | %s | %s (%s)",
			s.DisplayName(), s.Cost(), dayLabel(cat, s), s.RenewalDate()))
	}
	if overflow > 0 {
		lines = append(lines, fmt.Sprintf("  • 이 외 %d개", overflow))
	}

	return strings.Join(lines, "\n"), true
}

// sortForDisplay returns a copy ordered for display without touching
// the caller's slice.
func sortForDisplay(subs []model.Subscription) []model.Subscription {
	sorted := make([]model.Subscription, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].RenewalDate(), sorted[j].RenewalDate()
		if ri != rj {
			return ri < rj
		}
		return costOrZero(sorted[i]) > costOrZero(sorted[j])
	})
	return sorted
}

func costOrZero(s model.Subscription) float64 {
	if s.CostRaw == nil {
		return 0
	}
	return *s.CostRaw
}

func headerFor(cat model.Category) string {
	switch cat {
	case model.CategoryOverdue:
		return HeaderOverdue
	case model.CategoryDueToday:
		return HeaderDueToday
	default:
		return HeaderDueSoon
	}
}

// dayLabel formats the date offset for one line. Overdue shows days
// elapsed (D+3), due today the literal D-0, due soon days left (D-3).
func dayLabel(cat model.Category, s model.Subscription) string {
	if s.DateRemaining == nil {
		return ""
	}
	days := *s.DateRemaining

	switch cat {
	case model.CategoryOverdue:
		if days < 0 {
			days = -days
		}
		return fmt.Sprintf("D+%d", days)
	case model.CategoryDueToday:
		return "D-0"
	default:
		return fmt.Sprintf("D-%d", days)
	}
}
