// Package pipeline partitions subscriptions into notification categories.
package pipeline

import "github.com/theirongolddev/subwatch/internal/model"

// StatusActive is the only lifecycle status eligible for notification.
const StatusActive = "Active"

// ReminderDays is the fixed set of upcoming-day offsets that trigger a
// due-soon reminder. Offsets outside the set (4, 6, 8+) stay silent
// until the next listed day arrives.
var ReminderDays = map[int]struct{}{1: {}, 2: {}, 3: {}, 5: {}, 7: {}}

// Classify assigns one subscription to a notification category. The
// boolean is false when the subscription needs no notification: not
// active, no day offset, or an offset outside the reminder set.
func Classify(sub model.Subscription) (model.Category, bool) {
	if sub.Status == nil || *sub.Status != StatusActive {
		return "", false
	}
	if sub.DateRemaining == nil {
		return "", false
	}

	switch days := *sub.DateRemaining; {
	case days < 0:
		return model.CategoryOverdue, true
	case days == 0:
		return model.CategoryDueToday, true
	default:
		if _, ok := ReminderDays[days]; ok {
			return model.CategoryDueSoon, true
		}
		return "", false
	}
}

// BuildDigest partitions subscriptions into the three notification
// buckets, preserving input order within each bucket.
func BuildDigest(subs []model.Subscription) model.Digest {
	var d model.Digest
	for _, sub := range subs {
		cat, ok := Classify(sub)
		if !ok {
			continue
		}
		switch cat {
		case model.CategoryOverdue:
			d.Overdue = append(d.Overdue, sub)
		case model.CategoryDueToday:
			d.DueToday = append(d.DueToday, sub)
		case model.CategoryDueSoon:
			d.DueSoon = append(d.DueSoon, sub)
		}
	}
	return d
}

// FilterActive returns the subscriptions whose status is Active,
// preserving order.
func FilterActive(subs []model.Subscription) []model.Subscription {
	var result []model.Subscription
	for _, s := range subs {
		if s.Status != nil && *s.Status == StatusActive {
			result = append(result, s)
		}
	}
	return result
}

// Summarize computes display totals over one fetched subscription list.
func Summarize(subs []model.Subscription) model.Overview {
	o := model.Overview{Subscriptions: len(subs)}
	for _, s := range subs {
		if s.Status == nil || *s.Status != StatusActive {
			continue
		}
		o.Active++
		if s.CostRaw != nil {
			o.MonthlyCost += *s.CostRaw
			o.CostKnown++
		}
	}
	return o
}
