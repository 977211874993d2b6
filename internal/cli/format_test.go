package cli

import "testing"

func TestFormatWon(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "zero", amount: 0, want: "₩0"},
		{name: "under thousand", amount: 999, want: "₩999"},
		{name: "thousands", amount: 15000, want: "₩15,000"},
		{name: "millions", amount: 1234567, want: "₩1,234,567"},
		{name: "rounds up", amount: 12000.6, want: "₩12,001"},
		{name: "rounds down", amount: 12000.4, want: "₩12,000"},
		{name: "negative", amount: -5000, want: "₩-5,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWon(tt.amount); got != tt.want {
				t.Errorf("FormatWon(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDDay(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-7, "D+7"},
		{-1, "D+1"},
		{0, "D-0"},
		{1, "D-1"},
		{7, "D-7"},
	}

	for _, tt := range tests {
		if got := FormatDDay(tt.days); got != tt.want {
			t.Errorf("FormatDDay(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{name: "fits", s: "Netflix", max: 10, want: "Netflix"},
		{name: "exact", s: "Netflix", max: 7, want: "Netflix"},
		{name: "cut", s: "Apple One Premier", max: 9, want: "Apple On…"},
		{name: "multibyte", s: "유튜브 프리미엄", max: 4, want: "유튜브…"},
		{name: "zero", s: "x", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}
