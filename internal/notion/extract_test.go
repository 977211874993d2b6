package notion

import (
	"encoding/json"
	"testing"
)

// Realistic property payloads as the query endpoint returns them.
const (
	titleNetflix  = `{"id":"title","type":"title","title":[{"type":"text","text":{"content":"Netflix","link":null},"plain_text":"Netflix"}]}`
	costJSON      = `{"id":"c%3Aqr","type":"number","number":15000}`
	daysJSON      = `{"id":"d%3Ars","type":"formula","formula":{"type":"number","number":-3}}`
	statusActive  = `{"id":"s%3Atu","type":"status","status":{"id":"st-1","name":"Active","color":"green"}}`
	renewalJSON   = `{"id":"n%3Avw","type":"formula","formula":{"type":"date","date":{"start":"2024-01-01","end":null}}}`
	statusExpired = `{"id":"s%3Atu","type":"status","status":{"id":"st-2","name":"Expired","color":"red"}}`
)

// pageWith builds a Page from raw property JSON literals.
func pageWith(t *testing.T, props map[string]string) Page {
	t.Helper()
	p := Page{ID: "page-1", Properties: map[string]json.RawMessage{}}
	for name, raw := range props {
		p.Properties[name] = json.RawMessage(raw)
	}
	return p
}

func fullProps() map[string]string {
	return map[string]string{
		"Name":           titleNetflix,
		"Cost":           costJSON,
		"Date Remaining": daysJSON,
		"Status":         statusActive,
		"Next Renewal":   renewalJSON,
	}
}

func TestExtractPage_AllFields(t *testing.T) {
	sub := extractPage(pageWith(t, fullProps()))

	if sub.Name == nil || *sub.Name != "Netflix" {
		t.Errorf("Name = %v, want Netflix", sub.Name)
	}
	if sub.CostRaw == nil || *sub.CostRaw != 15000 {
		t.Errorf("CostRaw = %v, want 15000", sub.CostRaw)
	}
	if sub.CostDisplay == nil || *sub.CostDisplay != "₩15,000" {
		t.Errorf("CostDisplay = %v, want ₩15,000", sub.CostDisplay)
	}
	if sub.DateRemaining == nil || *sub.DateRemaining != -3 {
		t.Errorf("DateRemaining = %v, want -3", sub.DateRemaining)
	}
	if sub.Status == nil || *sub.Status != "Active" {
		t.Errorf("Status = %v, want Active", sub.Status)
	}
	if sub.NextRenewal == nil || *sub.NextRenewal != "2024-01-01" {
		t.Errorf("NextRenewal = %v, want 2024-01-01", sub.NextRenewal)
	}
}

// Removing one property must leave exactly that field nil and every
// independently derived field populated.
func TestExtractPage_MissingProperty(t *testing.T) {
	for _, remove := range []string{"Name", "Cost", "Date Remaining", "Status", "Next Renewal"} {
		t.Run(remove, func(t *testing.T) {
			props := fullProps()
			delete(props, remove)
			sub := extractPage(pageWith(t, props))

			present := map[string]bool{
				"Name":           sub.Name != nil,
				"Cost":           sub.CostRaw != nil,
				"Date Remaining": sub.DateRemaining != nil,
				"Status":         sub.Status != nil,
				"Next Renewal":   sub.NextRenewal != nil,
			}
			for field, ok := range present {
				if field == remove && ok {
					t.Errorf("%s still present after removal", field)
				}
				if field != remove && !ok {
					t.Errorf("%s lost when only %s was removed", field, remove)
				}
			}
		})
	}
}

func TestExtractPage_MalformedProperty(t *testing.T) {
	props := fullProps()
	props["Cost"] = `{"type":"number","number":"fifteen thousand"}`
	sub := extractPage(pageWith(t, props))

	if sub.CostRaw != nil {
		t.Errorf("CostRaw = %v, want nil for non-numeric cost", sub.CostRaw)
	}
	if sub.CostDisplay != nil {
		t.Errorf("CostDisplay = %v, want nil when CostRaw is nil", sub.CostDisplay)
	}
	if sub.Name == nil || sub.Status == nil {
		t.Error("sibling fields lost on one malformed property")
	}
}

func TestExtractPage_EmptyTitleArray(t *testing.T) {
	props := fullProps()
	props["Name"] = `{"type":"title","title":[]}`
	sub := extractPage(pageWith(t, props))

	if sub.Name != nil {
		t.Errorf("Name = %q, want nil for empty title array", *sub.Name)
	}
}

func TestExtractPage_NonActiveStatus(t *testing.T) {
	props := fullProps()
	props["Status"] = statusExpired
	sub := extractPage(pageWith(t, props))

	if sub.Status == nil || *sub.Status != "Expired" {
		t.Errorf("Status = %v, want Expired (labels pass through untouched)", sub.Status)
	}
}

func TestExtractPage_NullFormulaDate(t *testing.T) {
	props := fullProps()
	props["Next Renewal"] = `{"type":"formula","formula":{"type":"date","date":null}}`
	sub := extractPage(pageWith(t, props))

	if sub.NextRenewal != nil {
		t.Errorf("NextRenewal = %q, want nil for null formula date", *sub.NextRenewal)
	}
	if sub.DateRemaining == nil {
		t.Error("DateRemaining lost when Next Renewal was null")
	}
}

// CostDisplay must be present exactly when CostRaw is.
func TestExtractPage_CostDisplayInvariant(t *testing.T) {
	tests := []struct {
		name string
		cost string
		want *string
	}{
		{name: "present", cost: `{"type":"number","number":12000.6}`, want: strPtr("₩12,001")},
		{name: "null", cost: `{"type":"number","number":null}`, want: nil},
		{name: "missing", cost: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := fullProps()
			if tt.cost == "" {
				delete(props, "Cost")
			} else {
				props["Cost"] = tt.cost
			}
			sub := extractPage(pageWith(t, props))

			if (sub.CostRaw == nil) != (sub.CostDisplay == nil) {
				t.Fatalf("CostRaw nil=%v but CostDisplay nil=%v", sub.CostRaw == nil, sub.CostDisplay == nil)
			}
			if tt.want == nil && sub.CostDisplay != nil {
				t.Errorf("CostDisplay = %q, want nil", *sub.CostDisplay)
			}
			if tt.want != nil && (sub.CostDisplay == nil || *sub.CostDisplay != *tt.want) {
				t.Errorf("CostDisplay = %v, want %q", sub.CostDisplay, *tt.want)
			}
		})
	}
}

func TestExtract_OrderPreserved(t *testing.T) {
	title := func(name string) string {
		return `{"type":"title","title":[{"plain_text":"` + name + `"}]}`
	}
	pages := []Page{
		pageWith(t, map[string]string{"Name": title("Alpha")}),
		pageWith(t, map[string]string{"Name": title("Beta")}),
		pageWith(t, map[string]string{"Name": title("Gamma")}),
	}

	subs := Extract(pages)
	if len(subs) != 3 {
		t.Fatalf("len = %d, want 3", len(subs))
	}
	for i, want := range []string{"Alpha", "Beta", "Gamma"} {
		if subs[i].Name == nil || *subs[i].Name != want {
			t.Errorf("subs[%d].Name = %v, want %s", i, subs[i].Name, want)
		}
	}
}

func TestExtractFormulaDays_Truncation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "negative", raw: `{"formula":{"number":-3}}`, want: -3},
		{name: "zero", raw: `{"formula":{"number":0}}`, want: 0},
		{name: "fractional", raw: `{"formula":{"number":3.9}}`, want: 3},
		{name: "negative fractional", raw: `{"formula":{"number":-3.9}}`, want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractFormulaDays(json.RawMessage(tt.raw))
			if got == nil || *got != tt.want {
				t.Errorf("extractFormulaDays(%s) = %v, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

// FuzzExtractPage checks the extractor never panics on arbitrary
// property payloads and keeps the cost pairing invariant.
func FuzzExtractPage(f *testing.F) {
	f.Add([]byte(titleNetflix), []byte(costJSON), []byte(daysJSON))
	f.Add([]byte(`{}`), []byte(`null`), []byte(``))
	f.Add([]byte(`{"title":[{}]}`), []byte(`{"number":1e308}`), []byte(`{"formula":{}}`))
	f.Add([]byte(`not json`), []byte(`[1,2,3]`), []byte(`{"formula":{"number":"x"}}`))

	f.Fuzz(func(t *testing.T, name, cost, days []byte) {
		p := Page{Properties: map[string]json.RawMessage{
			"Name":           json.RawMessage(name),
			"Cost":           json.RawMessage(cost),
			"Date Remaining": json.RawMessage(days),
		}}
		sub := extractPage(p)

		if (sub.CostRaw == nil) != (sub.CostDisplay == nil) {
			t.Errorf("cost pairing broken: raw=%v display=%v", sub.CostRaw, sub.CostDisplay)
		}
	})
}
