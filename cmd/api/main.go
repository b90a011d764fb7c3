package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawclub/backend/internal/config"
	"pawclub/backend/internal/domain/affiliation"
	"pawclub/backend/internal/domain/booking"
	"pawclub/backend/internal/domain/channel"
	"pawclub/backend/internal/domain/club"
	"pawclub/backend/internal/domain/educator"
	"pawclub/backend/internal/domain/event"
	"pawclub/backend/internal/domain/favorite"
	"pawclub/backend/internal/domain/field"
	"pawclub/backend/internal/domain/notifications"
	"pawclub/backend/internal/domain/payment"
	"pawclub/backend/internal/domain/promotion"
	"pawclub/backend/internal/domain/rating"
	"pawclub/backend/internal/domain/user"
	"pawclub/backend/internal/firebase"
	"pawclub/backend/internal/handlers"
	apihttp "pawclub/backend/internal/http"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase init failed: %v", err)
	}
	defer clients.Close()

	fs := clients.Firestore

	// Repositories
	userRepo := user.NewRepo(fs)
	educatorRepo := educator.NewRepo(fs)
	clubStore := club.NewFirestoreStore(fs)
	affiliationStore := affiliation.NewFirestoreStore(fs)

	// Services
	clubSvc := club.NewService(clubStore, userRepo)
	affiliationSvc := affiliation.NewService(affiliationStore)
	channelSvc := channel.NewService(fs)
	bookingSvc := booking.NewService(fs)
	notificationsSvc := notifications.NewService(fs)
	eventSvc := event.NewService(fs)
	fieldSvc := field.NewService(fs)
	promotionSvc := promotion.NewService(fs)
	favoriteSvc := favorite.NewService(fs)
	ratingSvc := rating.NewService(fs)

	// Stripe payments (optional - only if configured)
	var paymentSvc *payment.Service
	if cfg.StripeSecretKey != "" {
		paymentSvc = payment.NewService(fs, payment.Config{
			SecretKey:           cfg.StripeSecretKey,
			WebhookSecret:       cfg.StripeWebhookSecret,
			PriceClubMonthly:    cfg.StripePriceClubMonthly,
			PriceClubYearly:     cfg.StripePriceClubYearly,
			PricePremiumMonthly: cfg.StripePricePremiumMonthly,
			PricePremiumYearly:  cfg.StripePricePremiumYearly,
		})
		log.Println("Stripe payments initialized")
	} else {
		log.Println("STRIPE_SECRET_KEY not set, payment features disabled")
	}

	uploads := handlers.NewUploads(cfg, clients)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:              cfg,
		AuthClient:       clients.Auth,
		UserRepo:         userRepo,
		EducatorRepo:     educatorRepo,
		ClubSvc:          clubSvc,
		AffiliationSvc:   affiliationSvc,
		ChannelSvc:       channelSvc,
		BookingSvc:       bookingSvc,
		NotificationsSvc: notificationsSvc,
		EventSvc:         eventSvc,
		FieldSvc:         fieldSvc,
		PromotionSvc:     promotionSvc,
		FavoriteSvc:      favoriteSvc,
		RatingSvc:        ratingSvc,
		PaymentSvc:       paymentSvc,
		Uploads:          uploads,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s)", cfg.Port, cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
}
