package money

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Money
		ok   bool
	}{
		{"1234.56", 123456, true},
		{"$1,234.56", 123456, true},
		{"-40", -4000, true},
		{"0.5", 50, true},
		{".75", 75, true},
		{"500", 50000, true},
		{"12.345", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.-5", 0, false},
		{"1.+5", 0, false},
		{"-1.-5", 0, false},
		{"+1", 0, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.raw)
		if tc.ok && err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tc.raw, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tc.raw)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseLabeled(t *testing.T) {
	if got := ParseLabeled("Military discount ($250)"); got != 25000 {
		t.Fatalf("expected 25000, got %d", got)
	}
	if got := ParseLabeled("Referral ($1,000.50)"); got != 100050 {
		t.Fatalf("expected 100050, got %d", got)
	}
	if got := ParseLabeled("No discount"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMulBps(t *testing.T) {
	// $500 at 8% = $40.00
	if got := Money(50000).MulBps(800); got != 4000 {
		t.Fatalf("expected 4000, got %d", got)
	}
	// half-up at the midpoint: $0.25 at 2% = 0.5 cents, rounds to 1
	if got := Money(25).MulBps(200); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	// just below the midpoint rounds down
	if got := Money(24).MulBps(200); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRoundToNearest(t *testing.T) {
	hundred := FromDollars(100)
	cases := []struct {
		in   Money
		want Money
	}{
		{FromDollars(1500), FromDollars(1500)},
		{FromDollars(1549), FromDollars(1500)},
		{FromDollars(1550), FromDollars(1600)},
		{FromDollars(1450), FromDollars(1500)},
		{0, 0},
	}
	for _, tc := range cases {
		if got := tc.in.RoundToNearest(hundred); got != tc.want {
			t.Fatalf("RoundToNearest(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Money(123456).String(); got != "1234.56" {
		t.Fatalf("expected 1234.56, got %s", got)
	}
	if got := Money(-50).String(); got != "-0.50" {
		t.Fatalf("expected -0.50, got %s", got)
	}
	if got := Money(123456789).Dollars(); got != "$1,234,567.89" {
		t.Fatalf("expected $1,234,567.89, got %s", got)
	}
}
