package config

import (
	"log"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ProjectID                    string `envconfig:"FIREBASE_PROJECT_ID"`
	FallbackProjectID            string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	Port                         string `envconfig:"PORT" default:"8080"`
	Origins                      string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	StorageBucket                string `envconfig:"FIREBASE_STORAGE_BUCKET"`
	StripeSecretKey              string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret          string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripePriceClubMonthly       string `envconfig:"STRIPE_PRICE_CLUB_MONTHLY"`
	StripePriceClubYearly        string `envconfig:"STRIPE_PRICE_CLUB_YEARLY"`
	StripePricePremiumMonthly    string `envconfig:"STRIPE_PRICE_PREMIUM_MONTHLY"`
	StripePricePremiumYearly     string `envconfig:"STRIPE_PRICE_PREMIUM_YEARLY"`
	SignedURLServiceAccountEmail string `envconfig:"SIGNED_URL_SERVICE_ACCOUNT_EMAIL"`

	AllowedOrigins []string `ignored:"true"`
}

func Load() Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	// FIREBASE_PROJECT_ID または GOOGLE_CLOUD_PROJECT を読む
	if cfg.ProjectID == "" {
		cfg.ProjectID = cfg.FallbackProjectID
	}
	if cfg.StorageBucket == "" && cfg.ProjectID != "" {
		cfg.StorageBucket = cfg.ProjectID + ".appspot.com"
	}

	for _, o := range strings.Split(cfg.Origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}
