package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// HandleWebhook processes incoming Stripe webhooks
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("webhook: error reading request body: %v", err)
		http.Error(w, "Error reading request body", http.StatusServiceUnavailable)
		return
	}

	// Verify webhook signature
	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.WebhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		http.Error(w, fmt.Sprintf("Webhook signature verification failed: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log.Printf("webhook: received event type=%s id=%s", event.Type, event.ID)

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("webhook: error parsing checkout session: %v", err)
			http.Error(w, fmt.Sprintf("Error parsing webhook JSON: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.handleCheckoutCompleted(ctx, &session); err != nil {
			log.Printf("webhook: error handling checkout completed: %v", err)
			// Don't return error - acknowledge receipt to prevent retries
		}

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Printf("webhook: error parsing subscription: %v", err)
			http.Error(w, fmt.Sprintf("Error parsing webhook JSON: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.handleSubscriptionChanged(ctx, &sub); err != nil {
			log.Printf("webhook: error handling subscription change: %v", err)
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Printf("webhook: error parsing subscription: %v", err)
			http.Error(w, fmt.Sprintf("Error parsing webhook JSON: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.handleSubscriptionDeleted(ctx, &sub); err != nil {
			log.Printf("webhook: error handling subscription deleted: %v", err)
		}

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			log.Printf("webhook: error parsing invoice: %v", err)
			http.Error(w, fmt.Sprintf("Error parsing webhook JSON: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.handleInvoiceFailed(ctx, &invoice); err != nil {
			log.Printf("webhook: error handling payment failed: %v", err)
		}

	default:
		log.Printf("webhook: unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"received": true}`))
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	// Payment-mode sessions carry a bookingId; subscription-mode ones
	// carry a clubId.
	if bookingID := session.Metadata["bookingId"]; bookingID != "" {
		return s.markBookingPaid(ctx, session, bookingID)
	}

	clubID := session.Metadata["clubId"]
	if clubID == "" {
		return fmt.Errorf("missing clubId in metadata")
	}

	fields := map[string]interface{}{
		"stripeCustomerId": session.Customer.ID,
	}
	if session.Subscription != nil {
		fields["subscriptionId"] = session.Subscription.ID
	}
	if err := s.markClubSubscription(ctx, clubID, fields); err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	log.Printf("webhook: checkout completed club=%s", clubID)
	return nil
}

func (s *Service) markBookingPaid(ctx context.Context, session *stripe.CheckoutSession, bookingID string) error {
	now := time.Now().UTC()

	update := map[string]interface{}{
		"status":    StatusPaid,
		"updatedAt": now,
	}
	if session.PaymentIntent != nil {
		update["paymentIntentId"] = session.PaymentIntent.ID
	}
	_, err := s.fs.Collection("payments").Doc(session.ID).Set(ctx, update, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	_, err = s.fs.Collection("Bookings").Doc(bookingID).Set(ctx, map[string]interface{}{
		"status":    "paid",
		"updatedAt": now,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	log.Printf("webhook: booking paid booking=%s session=%s", bookingID, session.ID)
	return nil
}

func (s *Service) handleSubscriptionChanged(ctx context.Context, sub *stripe.Subscription) error {
	clubID := sub.Metadata["clubId"]
	if clubID == "" {
		clubID = s.findClubByCustomer(ctx, sub.Customer.ID)
		if clubID == "" {
			return fmt.Errorf("could not find club for subscription %s", sub.ID)
		}
	}

	priceID := ""
	if len(sub.Items.Data) > 0 {
		priceID = sub.Items.Data[0].Price.ID
	}
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()

	log.Printf("webhook: subscription changed club=%s status=%s", clubID, sub.Status)

	err := s.markClubSubscription(ctx, clubID, map[string]interface{}{
		"subscriptionId":      sub.ID,
		"subscriptionStatus":  string(sub.Status),
		"subscriptionPriceId": priceID,
		"planPeriodEnd":       periodEnd,
		"cancelAtPeriodEnd":   sub.CancelAtPeriodEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	clubID := sub.Metadata["clubId"]
	if clubID == "" {
		clubID = s.findClubByCustomer(ctx, sub.Customer.ID)
		if clubID == "" {
			return fmt.Errorf("could not find club for subscription %s", sub.ID)
		}
	}

	log.Printf("webhook: subscription deleted club=%s", clubID)

	err := s.markClubSubscription(ctx, clubID, map[string]interface{}{
		"subscriptionId":      nil,
		"subscriptionStatus":  "canceled",
		"subscriptionPriceId": nil,
		"planPeriodEnd":       nil,
		"cancelAtPeriodEnd":   false,
	})
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}

func (s *Service) handleInvoiceFailed(ctx context.Context, invoice *stripe.Invoice) error {
	if invoice.Subscription == nil {
		return nil
	}

	clubID := s.findClubByCustomer(ctx, invoice.Customer.ID)
	if clubID == "" {
		log.Printf("webhook: payment failed but could not find club for subscription %s", invoice.Subscription.ID)
		return nil
	}

	log.Printf("webhook: payment failed club=%s amount=%d", clubID, invoice.AmountDue)

	return s.markClubSubscription(ctx, clubID, map[string]interface{}{
		"subscriptionStatus": "past_due",
	})
}

func (s *Service) findClubByCustomer(ctx context.Context, customerID string) string {
	iter := s.fs.Collection("club").Where("stripeCustomerId", "==", customerID).Limit(1).Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil || len(docs) == 0 {
		return ""
	}
	return docs[0].Ref.ID
}
