package pipeline

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/subwatch/internal/model"
)

// active builds an Active subscription with the given day offset.
func active(name string, days int) model.Subscription {
	status := StatusActive
	d := days
	n := name
	return model.Subscription{Name: &n, Status: &status, DateRemaining: &d}
}

func withStatus(status string, days int) model.Subscription {
	s := status
	d := days
	return model.Subscription{Status: &s, DateRemaining: &d}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		days     int
		wantCat  model.Category
		eligible bool
	}{
		{days: -30, wantCat: model.CategoryOverdue, eligible: true},
		{days: -1, wantCat: model.CategoryOverdue, eligible: true},
		{days: 0, wantCat: model.CategoryDueToday, eligible: true},
		{days: 1, wantCat: model.CategoryDueSoon, eligible: true},
		{days: 2, wantCat: model.CategoryDueSoon, eligible: true},
		{days: 3, wantCat: model.CategoryDueSoon, eligible: true},
		{days: 4, eligible: false},
		{days: 5, wantCat: model.CategoryDueSoon, eligible: true},
		{days: 6, eligible: false},
		{days: 7, wantCat: model.CategoryDueSoon, eligible: true},
		{days: 8, eligible: false},
		{days: 30, eligible: false},
	}

	for _, tt := range tests {
		cat, ok := Classify(active("x", tt.days))
		if ok != tt.eligible {
			t.Errorf("Classify(days=%d) eligible = %v, want %v", tt.days, ok, tt.eligible)
			continue
		}
		if ok && cat != tt.wantCat {
			t.Errorf("Classify(days=%d) = %s, want %s", tt.days, cat, tt.wantCat)
		}
	}
}

func TestClassify_RequiresActiveStatus(t *testing.T) {
	for _, status := range []string{"Expired", "Paused", "active", ""} {
		if _, ok := Classify(withStatus(status, 0)); ok {
			t.Errorf("status %q classified as eligible", status)
		}
	}

	d := 0
	if _, ok := Classify(model.Subscription{DateRemaining: &d}); ok {
		t.Error("nil status classified as eligible")
	}
}

func TestClassify_RequiresDateRemaining(t *testing.T) {
	status := StatusActive
	if _, ok := Classify(model.Subscription{Status: &status}); ok {
		t.Error("nil date remaining classified as eligible")
	}
}

func TestBuildDigest_DisjointUnion(t *testing.T) {
	input := []model.Subscription{
		active("over1", -3),
		active("today1", 0),
		active("soon1", 1),
		active("skip4", 4),
		active("soon7", 7),
		withStatus("Expired", -5),
		active("over2", -1),
	}

	d := BuildDigest(input)

	if got := names(d.Overdue); !reflect.DeepEqual(got, []string{"over1", "over2"}) {
		t.Errorf("Overdue = %v, want [over1 over2]", got)
	}
	if got := names(d.DueToday); !reflect.DeepEqual(got, []string{"today1"}) {
		t.Errorf("DueToday = %v, want [today1]", got)
	}
	if got := names(d.DueSoon); !reflect.DeepEqual(got, []string{"soon1", "soon7"}) {
		t.Errorf("DueSoon = %v, want [soon1 soon7]", got)
	}
	if d.Total() != 5 {
		t.Errorf("Total = %d, want 5 (skip4 and Expired excluded)", d.Total())
	}

	// Pairwise disjoint by name.
	seen := map[string]int{}
	for _, c := range model.Categories {
		for _, s := range d.ByCategory(c) {
			seen[*s.Name]++
		}
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("%s appears in %d categories", name, n)
		}
	}
}

// Re-filtering a bucket must reproduce it unchanged.
func TestBuildDigest_Idempotent(t *testing.T) {
	input := []model.Subscription{
		active("a", -2),
		active("b", -9),
		active("c", 3),
	}

	first := BuildDigest(input)
	again := BuildDigest(first.Overdue)

	if !reflect.DeepEqual(again.Overdue, first.Overdue) {
		t.Errorf("re-filtered overdue = %v, want %v", names(again.Overdue), names(first.Overdue))
	}
	if len(again.DueToday) != 0 || len(again.DueSoon) != 0 {
		t.Error("re-filtering overdue leaked into other categories")
	}
}

func TestFilterActive(t *testing.T) {
	input := []model.Subscription{
		active("a", 10),
		withStatus("Expired", 1),
		active("b", 99),
		{},
	}

	got := FilterActive(input)
	if !reflect.DeepEqual(names(got), []string{"a", "b"}) {
		t.Errorf("FilterActive = %v, want [a b]", names(got))
	}
}

func TestSummarize(t *testing.T) {
	cost := func(v float64) *float64 { return &v }
	subs := []model.Subscription{
		active("a", 1),
		active("b", 2),
		withStatus("Expired", 3),
	}
	subs[0].CostRaw = cost(9900)
	subs[1].CostRaw = cost(15000)

	o := Summarize(subs)
	if o.Subscriptions != 3 {
		t.Errorf("Subscriptions = %d, want 3", o.Subscriptions)
	}
	if o.Active != 2 {
		t.Errorf("Active = %d, want 2", o.Active)
	}
	if o.MonthlyCost != 24900 {
		t.Errorf("MonthlyCost = %v, want 24900", o.MonthlyCost)
	}
	if o.CostKnown != 2 {
		t.Errorf("CostKnown = %d, want 2", o.CostKnown)
	}
}

func names(subs []model.Subscription) []string {
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.DisplayName())
	}
	return out
}
