package domain

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount is a currency quantity in paise. Keeping amounts integral avoids
// floating-point drift in sums; conversion to rupees happens only at the
// display boundary.
type Amount int64

// ParseAmount converts a decimal rupee string to paise. It accepts dot and
// comma decimal separators and rounds half-up on the third decimal place.
// Malformed, negative, and zero inputs return ErrInvalidAmount: a record with
// a bad amount is rejected at the boundary instead of being coerced into the
// ledger as zero.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	paise := iv*100 + frac
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}
	return Amount(paise), nil
}

// Rupees returns the rupee value as a float64 for display purposes only.
func (a Amount) Rupees() float64 {
	return float64(a) / 100.0
}

var displayLocales = language.NewMatcher([]language.Tag{
	language.English,
	language.Marathi,
	language.Hindi,
})

// FormatINR renders the amount as a rupee string with locale-aware digit
// grouping. The locale falls back to English when it matches none of the
// supported tags.
func FormatINR(a Amount, locale string) string {
	tag, _ := language.MatchStrings(displayLocales, locale)
	p := message.NewPrinter(tag)
	if a%100 == 0 {
		return p.Sprintf("₹%d", int64(a/100))
	}
	return p.Sprintf("₹%.2f", a.Rupees())
}
