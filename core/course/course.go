package course

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Course struct {
	ID           string    `json:"id" db:"course_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Instructor   string    `json:"instructor" db:"instructor"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	Price        string    `json:"price" db:"price"`
	StudentCount int       `json:"studentCount" db:"student_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type CourseNew struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Instructor  string `json:"instructor"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Price       string `json:"price" validate:"required"`
}

var ErrInvalidPrice = errors.New("invalid course price")

// ParsePrice reads a display price such as "$16.99" or "1,299.00" as a
// fixed-point amount rounded to cents.
func ParsePrice(display string) (decimal.Decimal, error) {
	s := strings.TrimSpace(display)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(strings.TrimSuffix(s, "USD"))
	s = strings.ReplaceAll(s, ",", "")

	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, display)
	}

	return d.Round(2), nil
}
