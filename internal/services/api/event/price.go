package event

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

// ErrPriceInvalid indicates a negative or over-precise price.
var ErrPriceInvalid = apperrors.New(apperrors.CodeEventPriceInvalid, "price is invalid")

// maxPriceCents caps prices at one million.
const maxPriceCents = 100_000_000

// ParsePrice converts a decimal string with at most two fraction digits to
// cents. Empty input is free.
func ParsePrice(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" && !hasFrac {
		return 0, ErrPriceInvalid
	}
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, ErrPriceInvalid
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrPriceInvalid
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxPriceCents/100 {
		return 0, ErrPriceInvalid
	}
	cents := int64(0)
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	total := units*100 + cents
	if total > maxPriceCents {
		return 0, ErrPriceInvalid
	}
	return total, nil
}

// FormatPrice renders cents as "12.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + frac
}

func digitsOnly(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
