// Package payment validates the card form shown before an order is confirmed.
// No card data leaves the web process.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Brand is a supported card network.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
)

var (
	visaPattern       = regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)
	mastercardPattern = regexp.MustCompile(`^(5[1-5][0-9]{14})$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// Card is the submitted form.
type Card struct {
	Holder string
	Number string
	Expiry string
	CVV    string
}

// FieldError names the invalid field and the message key describing it.
type FieldError struct {
	Field string
	Key   string
}

// DetectBrand returns the network of number, ignoring spaces and dashes.
func DetectBrand(number string) (Brand, bool) {
	digits := Digits(number)
	switch {
	case visaPattern.MatchString(digits):
		return BrandVisa, true
	case mastercardPattern.MatchString(digits):
		return BrandMastercard, true
	default:
		return "", false
	}
}

// Digits strips the separators people type into card numbers.
func Digits(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

// Validate checks every field and returns one error per invalid field.
func Validate(card Card, now time.Time) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(card.Holder) == "" {
		errs = append(errs, FieldError{Field: "holder", Key: "web.payment.error_holder"})
	}
	if _, ok := DetectBrand(card.Number); !ok {
		errs = append(errs, FieldError{Field: "number", Key: "web.payment.error_number"})
	}
	if !expiryValid(card.Expiry, now) {
		errs = append(errs, FieldError{Field: "expiry", Key: "web.payment.error_expiry"})
	}
	if !cvvPattern.MatchString(strings.TrimSpace(card.CVV)) {
		errs = append(errs, FieldError{Field: "cvv", Key: "web.payment.error_cvv"})
	}
	return errs
}

// expiryValid accepts MM/YY through the end of that month.
func expiryValid(expiry string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return now.Before(endOfMonth)
}
