package purchase

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Card holds the card details sent with a direct checkout.
type Card struct {
	Number      string `json:"cardNumber"`
	Holder      string `json:"cardHolderName"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// InstrumentError names the card field that failed validation.
type InstrumentError struct {
	Field  string
	Reason string
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InstrumentError) Unwrap() error { return ErrInvalidInstrument }

// Validate checks the card syntactically. No card network is contacted.
func (c Card) Validate(now time.Time) error {
	number := strings.NewReplacer(" ", "", "-", "").Replace(c.Number)
	if len(number) != 16 || !digits(number) {
		return &InstrumentError{Field: "cardNumber", Reason: "must contain 16 digits"}
	}

	cvv := strings.TrimSpace(c.CVV)
	if len(cvv) < 3 || len(cvv) > 4 || !digits(cvv) {
		return &InstrumentError{Field: "cvv", Reason: "must contain 3 or 4 digits"}
	}

	month, err := strconv.Atoi(strings.TrimSpace(c.ExpiryMonth))
	if err != nil || month < 1 || month > 12 {
		return &InstrumentError{Field: "expiryMonth", Reason: "must be between 1 and 12"}
	}

	ys := strings.TrimSpace(c.ExpiryYear)
	if (len(ys) != 2 && len(ys) != 4) || !digits(ys) {
		return &InstrumentError{Field: "expiryYear", Reason: "must contain 2 or 4 digits"}
	}
	year, _ := strconv.Atoi(ys)
	if len(ys) == 2 {
		year += 2000
	}

	// A card is valid through the last day of its expiry month.
	if year < now.Year() || (year == now.Year() && time.Month(month) < now.Month()) {
		return &InstrumentError{Field: "expiryYear", Reason: "card has expired"}
	}

	return nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
