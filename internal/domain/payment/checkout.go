package payment

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/refund"
)

// One-off booking payments run on stripe-go v78; the subscription flow
// in service.go predates the upgrade and stays on v76 until migrated.

// CreateBookingCheckout builds a payment-mode Checkout session for a
// booking and records a "created" payment stub keyed by the session ID.
func (s *Service) CreateBookingCheckout(ctx context.Context, userUID string, in CreateBookingCheckoutInput) (string, error) {
	in.Trim()

	if in.BookingID == "" {
		return "", fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}
	if in.SuccessURL == "" || in.CancelURL == "" {
		return "", fmt.Errorf("%w: successUrl and cancelUrl are required", ErrBadRequest)
	}

	doc, err := s.fs.Collection("Bookings").Doc(in.BookingID).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: booking not found", ErrNotFound)
	}
	data := doc.Data()
	bookingUser, _ := data["userId"].(string)
	clubID, _ := data["clubId"].(string)
	status, _ := data["status"].(string)
	price, _ := data["price"].(int64)
	currency, _ := data["currency"].(string)

	if bookingUser != userUID {
		return "", fmt.Errorf("%w: booking belongs to another user", ErrBadRequest)
	}
	if status == "paid" || status == "cancelled" {
		return "", fmt.Errorf("%w: booking is %s", ErrBadRequest, status)
	}
	if price <= 0 {
		return "", fmt.Errorf("%w: booking has no price", ErrBadRequest)
	}
	if currency == "" {
		currency = "eur"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(price),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Lesson booking " + in.BookingID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"bookingId": in.BookingID,
			"userUid":   userUID,
		},
	}
	params.IdempotencyKey = stripe.String(uuid.NewString())

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create checkout session: %v", ErrUpstream, err)
	}

	now := time.Now().UTC()
	_, err = s.fs.Collection("payments").Doc(sess.ID).Set(ctx, Payment{
		ID:              sess.ID,
		BookingID:       in.BookingID,
		UserID:          userUID,
		ClubID:          clubID,
		Amount:          price,
		Currency:        currency,
		Status:          StatusCreated,
		StripeSessionID: sess.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to record payment: %w", err)
	}

	return sess.URL, nil
}

// IssueRefund refunds a paid booking payment and flips both the payment
// and the booking back.
func (s *Service) IssueRefund(ctx context.Context, paymentID, reason string) error {
	if paymentID == "" {
		return fmt.Errorf("%w: paymentId is required", ErrBadRequest)
	}

	doc, err := s.fs.Collection("payments").Doc(paymentID).Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: payment not found", ErrNotFound)
	}
	var p Payment
	if err := doc.DataTo(&p); err != nil {
		return fmt.Errorf("failed to decode payment: %w", err)
	}
	if p.Status != StatusPaid {
		return fmt.Errorf("%w: payment is %s", ErrBadRequest, p.Status)
	}
	if p.PaymentIntentID == "" {
		return fmt.Errorf("%w: payment has no payment intent", ErrBadRequest)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.PaymentIntentID),
	}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	params.IdempotencyKey = stripe.String(uuid.NewString())

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("%w: refund failed: %v", ErrUpstream, err)
	}

	now := time.Now().UTC()
	if _, err := doc.Ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: StatusRefunded},
		{Path: "updatedAt", Value: now},
	}); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if p.BookingID != "" {
		_, err := s.fs.Collection("Bookings").Doc(p.BookingID).Update(ctx, []firestore.Update{
			{Path: "status", Value: "cancelled"},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
	}
	return nil
}
