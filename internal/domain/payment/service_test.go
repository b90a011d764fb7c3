package payment

import (
	"context"
	"testing"

	stripev76 "github.com/stripe/stripe-go/v76"
	stripev78 "github.com/stripe/stripe-go/v78"
)

func TestNewServiceSetsBothStripeKeys(t *testing.T) {
	defer func() {
		stripev76.Key = ""
		stripev78.Key = ""
	}()

	NewService(nil, Config{SecretKey: "sk_test_123"})

	if stripev76.Key != "sk_test_123" {
		t.Errorf("v76 key = %q, want sk_test_123", stripev76.Key)
	}
	// booking checkout and refunds run on v78, which keeps its own
	// package-level key
	if stripev78.Key != "sk_test_123" {
		t.Errorf("v78 key = %q, want sk_test_123", stripev78.Key)
	}
}

func TestPriceFor(t *testing.T) {
	s := &Service{config: Config{
		PriceClubMonthly:    "price_cm",
		PriceClubYearly:     "price_cy",
		PricePremiumMonthly: "price_pm",
		PricePremiumYearly:  "price_py",
	}}

	tests := []struct {
		plan, period, want string
	}{
		{"club", "monthly", "price_cm"},
		{"club", "yearly", "price_cy"},
		{"premium", "monthly", "price_pm"},
		{"premium", "yearly", "price_py"},
	}
	for _, tt := range tests {
		if got := s.priceFor(tt.plan, tt.period); got != tt.want {
			t.Errorf("priceFor(%s, %s) = %q, want %q", tt.plan, tt.period, got, tt.want)
		}
	}
}

func TestSubscriptionCheckoutValidation(t *testing.T) {
	// invalid inputs fail before any Stripe or Firestore call, so a
	// zero-value service is enough here
	s := &Service{}

	tests := []struct {
		name string
		in   CreateSubscriptionCheckoutInput
	}{
		{"missing clubId", CreateSubscriptionCheckoutInput{Plan: "club", Period: "monthly", SuccessURL: "https://x/s", CancelURL: "https://x/c"}},
		{"unknown plan", CreateSubscriptionCheckoutInput{ClubID: "c1", Plan: "gold", Period: "monthly", SuccessURL: "https://x/s", CancelURL: "https://x/c"}},
		{"unknown period", CreateSubscriptionCheckoutInput{ClubID: "c1", Plan: "club", Period: "weekly", SuccessURL: "https://x/s", CancelURL: "https://x/c"}},
		{"missing urls", CreateSubscriptionCheckoutInput{ClubID: "c1", Plan: "club", Period: "monthly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateSubscriptionCheckout(context.Background(), "u1", tt.in)
			if !IsErrBadRequest(err) {
				t.Fatalf("expected bad request, got %v", err)
			}
		})
	}
}

func TestBookingCheckoutValidation(t *testing.T) {
	s := &Service{}

	_, err := s.CreateBookingCheckout(context.Background(), "u1", CreateBookingCheckoutInput{
		SuccessURL: "https://x/s",
		CancelURL:  "https://x/c",
	})
	if !IsErrBadRequest(err) {
		t.Fatalf("expected bad request for missing bookingId, got %v", err)
	}

	if err := s.IssueRefund(context.Background(), "", ""); !IsErrBadRequest(err) {
		t.Fatalf("expected bad request for empty paymentId, got %v", err)
	}
}

func TestSubscriptionCheckoutInputTrim(t *testing.T) {
	in := CreateSubscriptionCheckoutInput{
		ClubID: "  c1 ",
		Plan:   " Club ",
		Period: " MONTHLY ",
	}
	in.Trim()
	if in.ClubID != "c1" || in.Plan != "club" || in.Period != "monthly" {
		t.Fatalf("Trim() = %+v", in)
	}
}
