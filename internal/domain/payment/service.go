package payment

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stripe/stripe-go/v76"
	portalsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	stripev78 "github.com/stripe/stripe-go/v78"
	"google.golang.org/api/iterator"
)

// Service handles club subscriptions on stripe-go v76; one-off booking
// checkout and refunds live in checkout.go on v78.
type Service struct {
	fs     *firestore.Client
	config Config
}

func NewService(fs *firestore.Client, cfg Config) *Service {
	// both stripe-go majors keep their own package-level key; the v78
	// checkout/refund calls authenticate through the second one
	stripe.Key = cfg.SecretKey
	stripev78.Key = cfg.SecretKey
	return &Service{fs: fs, config: cfg}
}

// CreateSubscriptionCheckout starts a Stripe Checkout session that puts
// a club on a paid plan. The stripe customer is created lazily and
// remembered on the club document.
func (s *Service) CreateSubscriptionCheckout(ctx context.Context, userUID string, in CreateSubscriptionCheckoutInput) (string, error) {
	in.Trim()

	if in.ClubID == "" {
		return "", fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	if in.Plan != "club" && in.Plan != "premium" {
		return "", fmt.Errorf("%w: plan must be 'club' or 'premium'", ErrBadRequest)
	}
	if in.Period != "monthly" && in.Period != "yearly" {
		return "", fmt.Errorf("%w: period must be 'monthly' or 'yearly'", ErrBadRequest)
	}
	if in.SuccessURL == "" || in.CancelURL == "" {
		return "", fmt.Errorf("%w: successUrl and cancelUrl are required", ErrBadRequest)
	}

	clubDoc, err := s.fs.Collection("club").Doc(in.ClubID).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: club not found", ErrNotFound)
	}

	clubData := clubDoc.Data()
	clubName, _ := clubData["name"].(string)
	stripeCustomerID, _ := clubData["stripeCustomerId"].(string)

	userDoc, _ := s.fs.Collection("users").Doc(userUID).Get(ctx)
	var email string
	if userDoc != nil && userDoc.Exists() {
		email, _ = userDoc.Data()["email"].(string)
	}

	if stripeCustomerID == "" {
		params := &stripe.CustomerParams{
			Email: stripe.String(email),
			Name:  stripe.String(clubName),
			Metadata: map[string]string{
				"clubId":  in.ClubID,
				"userUid": userUID,
			},
		}
		c, err := customer.New(params)
		if err != nil {
			return "", fmt.Errorf("%w: failed to create customer: %v", ErrUpstream, err)
		}
		stripeCustomerID = c.ID

		_, err = s.fs.Collection("club").Doc(in.ClubID).Set(ctx, map[string]interface{}{
			"stripeCustomerId": stripeCustomerID,
		}, firestore.MergeAll)
		if err != nil {
			log.Printf("failed to save customer id: %v", err)
		}
	}

	priceID := s.priceFor(in.Plan, in.Period)
	if priceID == "" {
		return "", fmt.Errorf("%w: price not configured for %s %s", ErrBadRequest, in.Plan, in.Period)
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(stripeCustomerID),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"clubId": in.ClubID,
			"plan":   in.Plan,
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create checkout session: %v", ErrUpstream, err)
	}
	return sess.URL, nil
}

func (s *Service) priceFor(plan, period string) string {
	if plan == "club" {
		if period == "yearly" {
			return s.config.PriceClubYearly
		}
		return s.config.PriceClubMonthly
	}
	if period == "yearly" {
		return s.config.PricePremiumYearly
	}
	return s.config.PricePremiumMonthly
}

// CreateBillingPortal returns a Stripe billing portal URL for the club.
func (s *Service) CreateBillingPortal(ctx context.Context, clubID, returnURL string) (string, error) {
	if clubID == "" {
		return "", fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}

	clubDoc, err := s.fs.Collection("club").Doc(clubID).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: club not found", ErrNotFound)
	}
	stripeCustomerID, _ := clubDoc.Data()["stripeCustomerId"].(string)
	if stripeCustomerID == "" {
		return "", fmt.Errorf("%w: club has no billing account", ErrBadRequest)
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(stripeCustomerID),
		ReturnURL: stripe.String(returnURL),
	}
	ps, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create portal session: %v", ErrUpstream, err)
	}
	return ps.URL, nil
}

// ListPayments is the read side of the payments collection.
func (s *Service) ListPayments(ctx context.Context, userID, clubID string, limit int) ([]Payment, error) {
	if userID == "" && clubID == "" {
		return nil, fmt.Errorf("%w: userId or clubId is required", ErrBadRequest)
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	query := s.fs.Collection("payments").Query
	if userID != "" {
		query = query.Where("userId", "==", userID)
	}
	if clubID != "" {
		query = query.Where("clubId", "==", clubID)
	}
	it := query.OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)

	out := []Payment{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list payments: %w", err)
		}
		var p Payment
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) markClubSubscription(ctx context.Context, clubID string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now().UTC()
	_, err := s.fs.Collection("club").Doc(clubID).Set(ctx, fields, firestore.MergeAll)
	return err
}
