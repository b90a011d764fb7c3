package payment

import (
	"strings"
	"time"
)

// Payment mirrors one Stripe charge into the "payments" collection so
// client list views never need to talk to Stripe.
type Payment struct {
	ID              string    `firestore:"id" json:"id"`
	BookingID       string    `firestore:"bookingId,omitempty" json:"bookingId,omitempty"`
	UserID          string    `firestore:"userId" json:"userId"`
	ClubID          string    `firestore:"clubId,omitempty" json:"clubId,omitempty"`
	Amount          int64     `firestore:"amount" json:"amount"` // cents
	Currency        string    `firestore:"currency" json:"currency"`
	Status          string    `firestore:"status" json:"status"` // created / paid / refunded
	StripeSessionID string    `firestore:"stripeSessionId,omitempty" json:"-"`
	PaymentIntentID string    `firestore:"paymentIntentId,omitempty" json:"-"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}

const (
	StatusCreated  = "created"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"
)

// Config is filled from the central app config; the service never reads
// the environment itself.
type Config struct {
	SecretKey           string
	WebhookSecret       string
	PriceClubMonthly    string
	PriceClubYearly     string
	PricePremiumMonthly string
	PricePremiumYearly  string
}

type CreateSubscriptionCheckoutInput struct {
	ClubID     string `json:"clubId"`
	Plan       string `json:"plan"`   // club / premium
	Period     string `json:"period"` // monthly / yearly
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (in *CreateSubscriptionCheckoutInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Plan = strings.ToLower(strings.TrimSpace(in.Plan))
	in.Period = strings.ToLower(strings.TrimSpace(in.Period))
	in.SuccessURL = strings.TrimSpace(in.SuccessURL)
	in.CancelURL = strings.TrimSpace(in.CancelURL)
}

type CreateBookingCheckoutInput struct {
	BookingID  string `json:"bookingId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (in *CreateBookingCheckoutInput) Trim() {
	in.BookingID = strings.TrimSpace(in.BookingID)
	in.SuccessURL = strings.TrimSpace(in.SuccessURL)
	in.CancelURL = strings.TrimSpace(in.CancelURL)
}
