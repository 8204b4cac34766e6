package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a price label or amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseEuroCents parses labels such as "€35", "€1,250.50" or "70.5" into
// euro cents. Commas must group thousands. Negative amounts and amounts
// that do not fit in int64 cents are rejected.
func ParseEuroCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(strings.ToUpper(s), "EUR")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	whole, ok := ungroup(whole)
	if !ok {
		return 0, ErrInvalidAmount
	}
	euros, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || euros > (math.MaxInt64-99)/100 {
		return 0, ErrInvalidAmount
	}
	cents := int64(0)
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 || !allDigits(frac) {
			return 0, ErrInvalidAmount
		}
		if len(frac) == 1 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		cents = c
	}
	return euros*100 + cents, nil
}

// ungroup strips thousands separators from a whole-euro part, reporting
// false unless every group after the first has exactly three digits.
func ungroup(s string) (string, bool) {
	groups := strings.Split(s, ",")
	for i, g := range groups {
		if !allDigits(g) || (i == 0 && len(g) > 3 && len(groups) > 1) || (i > 0 && len(g) != 3) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatEuro renders cents the way the site shows prices: whole euros
// without decimals ("€105"), otherwise two decimals ("€70.50"). Thousands
// are separated with commas.
func FormatEuro(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	euros := formatThousand(cents / 100)
	if rem := cents % 100; rem != 0 {
		return fmt.Sprintf("%s€%s.%02d", sign, euros, rem)
	}
	return sign + "€" + euros
}

func formatThousand(n int64) string {
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
