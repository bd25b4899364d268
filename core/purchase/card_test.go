package purchase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/irsalhamdi/course-market/core/purchase"
)

func TestCardValidate(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	valid := purchase.Card{Number: "4111 1111-1111 1111", ExpiryMonth: "03", ExpiryYear: "24", CVV: "123"}

	if err := valid.Validate(now); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}

	tests := []struct {
		name  string
		edit  func(c *purchase.Card)
		field string
	}{
		{"short number", func(c *purchase.Card) { c.Number = "411111111111111" }, "cardNumber"},
		{"letters in number", func(c *purchase.Card) { c.Number = "41111111111111AB" }, "cardNumber"},
		{"short cvv", func(c *purchase.Card) { c.CVV = "12" }, "cvv"},
		{"long cvv", func(c *purchase.Card) { c.CVV = "12345" }, "cvv"},
		{"month 13", func(c *purchase.Card) { c.ExpiryMonth = "13" }, "expiryMonth"},
		{"month 0", func(c *purchase.Card) { c.ExpiryMonth = "0" }, "expiryMonth"},
		{"three digit year", func(c *purchase.Card) { c.ExpiryYear = "202" }, "expiryYear"},
		{"last month", func(c *purchase.Card) { c.ExpiryMonth = "2" }, "expiryYear"},
		{"last year", func(c *purchase.Card) { c.ExpiryMonth = "12"; c.ExpiryYear = "2023" }, "expiryYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.edit(&c)

			err := c.Validate(now)
			if !errors.Is(err, purchase.ErrInvalidInstrument) {
				t.Fatalf("expected ErrInvalidInstrument, got %v", err)
			}

			var ie *purchase.InstrumentError
			if !errors.As(err, &ie) || ie.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}

	fourDigits := valid
	fourDigits.CVV = "1234"
	fourDigits.ExpiryYear = "2031"
	if err := fourDigits.Validate(now); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}
}
