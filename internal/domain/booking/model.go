package booking

import (
	"strings"
	"time"
)

// Booking is a lesson reservation ("Bookings" collection — the casing
// is historical and baked into existing client queries).
type Booking struct {
	ID         string    `firestore:"id" json:"id"`
	ClubID     string    `firestore:"clubId" json:"clubId"`
	EducatorID string    `firestore:"educatorId,omitempty" json:"educatorId,omitempty"`
	UserID     string    `firestore:"userId" json:"userId"`
	FieldID    string    `firestore:"fieldId,omitempty" json:"fieldId,omitempty"`
	StartAt    time.Time `firestore:"startAt" json:"startAt"`
	EndAt      time.Time `firestore:"endAt" json:"endAt"`
	Status     string    `firestore:"status" json:"status"`
	Price      int64     `firestore:"price,omitempty" json:"price,omitempty"` // cents
	Currency   string    `firestore:"currency,omitempty" json:"currency,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var ValidStatuses = []string{StatusPending, StatusConfirmed, StatusPaid, StatusCompleted, StatusCancelled}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type CreateBookingInput struct {
	ClubID     string `json:"clubId"`
	EducatorID string `json:"educatorId,omitempty"`
	FieldID    string `json:"fieldId,omitempty"`
	StartAt    string `json:"startAt"`
	EndAt      string `json:"endAt"`
	Price      int64  `json:"price,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

func (in *CreateBookingInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.EducatorID = strings.TrimSpace(in.EducatorID)
	in.FieldID = strings.TrimSpace(in.FieldID)
	in.StartAt = strings.TrimSpace(in.StartAt)
	in.EndAt = strings.TrimSpace(in.EndAt)
	in.Currency = strings.ToLower(strings.TrimSpace(in.Currency))
}

type ListBookingsInput struct {
	ClubID     string `json:"clubId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	EducatorID string `json:"educatorId,omitempty"`
	Status     string `json:"status,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}
