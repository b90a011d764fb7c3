package config

import "testing"

func TestLoadStripeFields(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_abc")
	t.Setenv("STRIPE_PRICE_CLUB_MONTHLY", "price_cm")
	t.Setenv("STRIPE_PRICE_CLUB_YEARLY", "price_cy")
	t.Setenv("STRIPE_PRICE_PREMIUM_MONTHLY", "price_pm")
	t.Setenv("STRIPE_PRICE_PREMIUM_YEARLY", "price_py")

	cfg := Load()

	if cfg.StripeSecretKey != "sk_test_abc" {
		t.Errorf("StripeSecretKey = %q", cfg.StripeSecretKey)
	}
	if cfg.StripeWebhookSecret != "whsec_abc" {
		t.Errorf("StripeWebhookSecret = %q", cfg.StripeWebhookSecret)
	}
	if cfg.StripePriceClubMonthly != "price_cm" || cfg.StripePriceClubYearly != "price_cy" {
		t.Errorf("club prices = %q / %q", cfg.StripePriceClubMonthly, cfg.StripePriceClubYearly)
	}
	if cfg.StripePricePremiumMonthly != "price_pm" || cfg.StripePricePremiumYearly != "price_py" {
		t.Errorf("premium prices = %q / %q", cfg.StripePricePremiumMonthly, cfg.StripePricePremiumYearly)
	}
}

func TestLoadProjectFallbackAndOrigins(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "fallback-project")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	if cfg.ProjectID != "fallback-project" {
		t.Errorf("ProjectID = %q, want fallback-project", cfg.ProjectID)
	}
	if cfg.StorageBucket != "fallback-project.appspot.com" {
		t.Errorf("StorageBucket = %q", cfg.StorageBucket)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}
