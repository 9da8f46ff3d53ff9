package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Money is a monetary amount in minor units (cents). Negative values are
// allowed and represent refunds or credits.
type Money int64

func FromDollars(dollars int64) Money {
	return Money(dollars * 100)
}

// String renders the amount as a plain decimal, e.g. "1234.56" or "-0.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Dollars renders the amount with a currency symbol and thousands separators,
// e.g. "$1,234.56".
func (m Money) Dollars() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	return fmt.Sprintf("%s$%s.%02d", sign, strings.Join(parts, ","), v%100)
}

// MulBps multiplies by a basis-point rate (100 bps = 1%) rounding half-up to
// the nearest cent. Used for tax application.
func (m Money) MulBps(bps int64) Money {
	n := int64(m) * bps
	q := n / 10000
	r := n % 10000
	if r < 0 {
		r = -r
	}
	if r*2 >= 10000 {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return Money(q)
}

// RoundToNearest rounds to the nearest multiple of unit, ties away from zero.
// A unit of zero or less returns the amount unchanged.
func (m Money) RoundToNearest(unit Money) Money {
	if unit <= 0 {
		return m
	}
	v := int64(m)
	u := int64(unit)
	if v < 0 {
		return -(-m).RoundToNearest(unit)
	}
	return Money((v + u/2) / u * u)
}

func Clamp(m Money) Money {
	if m < 0 {
		return 0
	}
	return m
}

// Parse reads a decimal amount such as "1234.56", "$1,234.56" or "-40". At
// most two fractional digits are accepted.
func Parse(raw string) (Money, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.Index(s, "."); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", raw)
	}
	// digits only past this point; ParseInt alone would admit a stray sign
	if !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("malformed amount %q", raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", raw)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", raw)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Money(v), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var labeledAmount = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// ParseLabeled extracts a dollar amount embedded in display text, e.g.
// "Military discount ($250)" yields 25000. Returns zero when no amount is
// present. This mirrors how legacy discount catalog entries carried their
// value inside the label.
func ParseLabeled(label string) Money {
	match := labeledAmount.FindStringSubmatch(label)
	if match == nil {
		return 0
	}
	m, err := Parse(match[1])
	if err != nil {
		return 0
	}
	return m
}
