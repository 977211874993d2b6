package notify

import (
	"strings"
	"testing"

	"github.com/theirongolddev/subwatch/internal/model"
)

// full builds a subscription with every field present.
func full(name string, cost float64, display string, days int, renewal string) model.Subscription {
	status := "Active"
	return model.Subscription{
		Name:          &name,
		CostRaw:       &cost,
		CostDisplay:   &display,
		DateRemaining: &days,
		Status:        &status,
		NextRenewal:   &renewal,
	}
}

func TestRenderCategory_OverdueLine(t *testing.T) {
	subs := []model.Subscription{full("Netflix", 12000, "₩12,000", -3, "2024-01-01")}

	text, ok := RenderCategory(model.CategoryOverdue, subs)
	if !ok {
		t.Fatal("expected a block for one overdue record")
	}

	want := HeaderOverdue + "\n  • Netflix | ₩12,000 | D+3 (2024-01-01)"
	if text != want {
		t.Errorf("block =\n%q\nwant\n%q", text, want)
	}
}

func TestRenderCategory_Empty(t *testing.T) {
	if text, ok := RenderCategory(model.CategoryDueSoon, nil); ok || text != "" {
		t.Errorf("empty category rendered %q, want no block", text)
	}
}

func TestRenderCategory_Overflow(t *testing.T) {
	var subs []model.Subscription
	for i, name := range []string{"A", "B", "C", "D", "E", "F"} {
		subs = append(subs, full(name, 1000, "₩1,000", 1, "2024-01-0"+string(rune('1'+i))))
	}

	text, ok := RenderCategory(model.CategoryDueSoon, subs)
	if !ok {
		t.Fatal("expected a block")
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 6 { // header + 4 items + overflow
		t.Fatalf("lines = %d, want 6:\n%s", len(lines), text)
	}
	if lines[0] != HeaderDueSoon {
		t.Errorf("header = %q", lines[0])
	}
	if got, want := lines[5], "  • 이 외 2개"; got != want {
		t.Errorf("overflow line = %q, want %q", got, want)
	}
	for _, line := range lines[1:5] {
		if !strings.HasPrefix(line, "  • ") {
			t.Errorf("item line %q missing bullet prefix", line)
		}
	}
}

func TestRenderCategory_SortByRenewalThenCost(t *testing.T) {
	subs := []model.Subscription{
		full("Late", 3000, "₩3,000", 2, "2024-02-01"),
		full("Cheap", 5000, "₩5,000", 1, "2024-01-15"),
		full("Pricey", 9000, "₩9,000", 1, "2024-01-15"),
	}

	text, _ := RenderCategory(model.CategoryDueSoon, subs)
	lines := strings.Split(text, "\n")[1:]

	wantOrder := []string{"Pricey", "Cheap", "Late"}
	for i, want := range wantOrder {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %s (renewal asc, cost desc on ties)", i, lines[i], want)
		}
	}
}

func TestRenderCategory_MissingRenewalSortsFirst(t *testing.T) {
	noDate := full("NoDate", 1000, "₩1,000", 3, "")
	noDate.NextRenewal = nil
	subs := []model.Subscription{
		full("Dated", 1000, "₩1,000", 3, "2024-01-01"),
		noDate,
	}

	text, _ := RenderCategory(model.CategoryDueSoon, subs)
	lines := strings.Split(text, "\n")[1:]

	if !strings.Contains(lines[0], "NoDate") {
		t.Errorf("first line = %q, want the record without a renewal date", lines[0])
	}
}

func TestRenderCategory_MissingFieldsRenderEmpty(t *testing.T) {
	days := 0
	status := "Active"
	subs := []model.Subscription{{DateRemaining: &days, Status: &status}}

	text, ok := RenderCategory(model.CategoryDueToday, subs)
	if !ok {
		t.Fatal("expected a block")
	}

	want := HeaderDueToday + "\n  •  |  | D-0 ()"
	if text != want {
		t.Errorf("block = %q, want %q", text, want)
	}
}

func TestDayLabel(t *testing.T) {
	tests := []struct {
		name string
		cat  model.Category
		days int
		want string
	}{
		{name: "overdue flips sign", cat: model.CategoryOverdue, days: -3, want: "D+3"},
		{name: "overdue far past", cat: model.CategoryOverdue, days: -14, want: "D+14"},
		{name: "due today literal", cat: model.CategoryDueToday, days: 0, want: "D-0"},
		{name: "due soon", cat: model.CategoryDueSoon, days: 5, want: "D-5"},
		{name: "due soon tomorrow", cat: model.CategoryDueSoon, days: 1, want: "D-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.days
			got := dayLabel(tt.cat, model.Subscription{DateRemaining: &d})
			if got != tt.want {
				t.Errorf("dayLabel(%s, %d) = %q, want %q", tt.cat, tt.days, got, tt.want)
			}
		})
	}
}

func TestRenderDigest_OrderAndSkips(t *testing.T) {
	d := model.Digest{
		Overdue:  []model.Subscription{full("Old", 1000, "₩1,000", -1, "2024-01-01")},
		DueSoon:  []model.Subscription{full("Soon", 2000, "₩2,000", 3, "2024-01-05")},
		DueToday: nil,
	}

	blocks := RenderDigest(d)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2 (empty due_today skipped)", len(blocks))
	}
	if blocks[0].Category != model.CategoryOverdue || blocks[1].Category != model.CategoryDueSoon {
		t.Errorf("order = %s, %s; want overdue, due_soon", blocks[0].Category, blocks[1].Category)
	}
	if !strings.HasPrefix(blocks[0].Text, HeaderOverdue) {
		t.Errorf("overdue block starts %q", blocks[0].Text)
	}
	if !strings.HasPrefix(blocks[1].Text, HeaderDueSoon) {
		t.Errorf("due_soon block starts %q", blocks[1].Text)
	}
	if blocks[0].Count != 1 || blocks[1].Count != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", blocks[0].Count, blocks[1].Count)
	}
}

func TestRenderCategory_InputNotMutated(t *testing.T) {
	subs := []model.Subscription{
		full("B", 1000, "₩1,000", 1, "2024-02-01"),
		full("A", 1000, "₩1,000", 1, "2024-01-01"),
	}

	RenderCategory(model.CategoryDueSoon, subs)

	if *subs[0].Name != "B" || *subs[1].Name != "A" {
		t.Error("RenderCategory reordered the caller's slice")
	}
}
