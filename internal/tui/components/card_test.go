package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSums(t *testing.T) {
	tests := []struct {
		total int
		n     int
	}{
		{100, 4},
		{101, 4},
		{103, 4},
		{55, 2},
		{80, 3},
	}

	for _, tt := range tests {
		widths := LayoutRow(tt.total, tt.n)
		if len(widths) != tt.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tt.total, tt.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tt.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d, want %d", tt.total, tt.n, sum, tt.total)
		}
		// Remainder goes to the first columns, so widths never differ by more than one.
		for i := 1; i < len(widths); i++ {
			if widths[i-1] < widths[i] {
				t.Errorf("LayoutRow(%d, %d): width %d before %d", tt.total, tt.n, widths[i-1], widths[i])
			}
		}
	}
}

func TestLayoutRowZero(t *testing.T) {
	if got := LayoutRow(100, 0); got != nil {
		t.Errorf("LayoutRow(100, 0) = %v, want nil", got)
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d (tallest card)", len(lines), tallLines)
	}
}

func TestMetricCardRowWidths(t *testing.T) {
	theme.SetActive("flexoki-dark")

	metrics := []Metric{
		{Label: "Subscriptions", Value: "12"},
		{Label: "Active", Value: "9"},
		{Label: "Monthly", Value: "₩54,900", Delta: "9 priced"},
		{Label: "Due", Value: "3"},
	}
	row := MetricCardRow(metrics, 100)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 100 {
			t.Errorf("row line %d width = %d, want 100", i, w)
		}
	}
}

func TestCardInnerWidthFloor(t *testing.T) {
	if got := CardInnerWidth(40); got != 36 {
		t.Errorf("CardInnerWidth(40) = %d, want 36", got)
	}
	if got := CardInnerWidth(5); got != 10 {
		t.Errorf("CardInnerWidth(5) = %d, want 10 (floor)", got)
	}
}
