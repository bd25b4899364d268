// Package entitlement records which user owns which course. A row in
// purchased_courses is the only thing that grants access to course content.
package entitlement

import "time"

const (
	MinProgress = 0
	MaxProgress = 100
)

type Entitlement struct {
	ID          string    `json:"id" db:"purchase_id"`
	UserID      string    `json:"userId" db:"user_id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	PaymentID   string    `json:"paymentId" db:"payment_id"`
	Progress    int       `json:"progress" db:"progress"`
	PurchasedAt time.Time `json:"purchasedAt" db:"purchased_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Owned is an entitlement joined with the course it grants.
type Owned struct {
	Entitlement
	Title    string `json:"title" db:"title"`
	ImageURL string `json:"imageUrl" db:"image_url"`
}

type ProgressUpdate struct {
	Progress *int `json:"progress" validate:"required"`
}

// ClampProgress bounds a progress percentage to [0,100].
func ClampProgress(pct int) int {
	if pct < MinProgress {
		return MinProgress
	}
	if pct > MaxProgress {
		return MaxProgress
	}
	return pct
}
