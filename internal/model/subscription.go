// Package model defines domain types for subwatch subscriptions and digests.
package model

// Subscription is one normalized record from the subscription database.
// Every field is optional: a missing or malformed source property leaves
// the corresponding field nil instead of failing the record.
type Subscription struct {
	Name          *string
	CostRaw       *float64
	CostDisplay   *string
	DateRemaining *int
	Status        *string
	NextRenewal   *string
}

// DisplayName returns the name or "" when absent.
func (s Subscription) DisplayName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// Cost returns the formatted cost string or "" when absent.
func (s Subscription) Cost() string {
	if s.CostDisplay == nil {
		return ""
	}
	return *s.CostDisplay
}

// RenewalDate returns the next renewal date string or "" when absent.
func (s Subscription) RenewalDate() string {
	if s.NextRenewal == nil {
		return ""
	}
	return *s.NextRenewal
}

// StatusLabel returns the lifecycle status or "" when absent.
func (s Subscription) StatusLabel() string {
	if s.Status == nil {
		return ""
	}
	return *s.Status
}

// Category identifies one notification bucket.
type Category string

const (
	CategoryOverdue  Category = "overdue"
	CategoryDueToday Category = "due_today"
	CategoryDueSoon  Category = "due_soon"
)

// Categories lists the buckets in their fixed notification order.
var Categories = [3]Category{CategoryOverdue, CategoryDueToday, CategoryDueSoon}

// Digest partitions one fetch's subscriptions into the three
// notification buckets. Lists preserve source order and are mutually
// exclusive; a subscription appears in at most one.
type Digest struct {
	Overdue  []Subscription
	DueToday []Subscription
	DueSoon  []Subscription
}

// ByCategory returns the bucket for c, nil for an unknown category.
func (d Digest) ByCategory(c Category) []Subscription {
	switch c {
	case CategoryOverdue:
		return d.Overdue
	case CategoryDueToday:
		return d.DueToday
	case CategoryDueSoon:
		return d.DueSoon
	}
	return nil
}

// Total counts subscriptions across all three buckets.
func (d Digest) Total() int {
	return len(d.Overdue) + len(d.DueToday) + len(d.DueSoon)
}

// Empty reports whether no bucket holds any subscription.
func (d Digest) Empty() bool {
	return d.Total() == 0
}

// Overview holds display totals over one fetched subscription list.
type Overview struct {
	Subscriptions int
	Active        int
	MonthlyCost   float64
	CostKnown     int
}
