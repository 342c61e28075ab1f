package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/facebook"
	"storefront-backend/internal/repository/docstore"
	"storefront-backend/internal/repository/document"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.SetSecret(cfg.JWTSecret)

	ctx := context.Background()

	store, closeStore, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("doc_store", cfg.DocStore).Msg("Failed to open document store")
	}
	defer closeStore()
	log.Info().Str("doc_store", cfg.DocStore).Msg("Document store ready")

	// Repositories
	orderRepo := document.NewOrderRepository(store)
	productRepo := document.NewProductRepository(store)
	settingsRepo := document.NewSettingsRepository(store)

	// Sessions and hot documents; entries carry their own TTLs.
	memCache := cache.NewMemoryCache(30*time.Minute, 10*time.Minute)

	policy := domain.PolicyByName(cfg.StatusTransitions)
	tracker := facebook.NewCAPIClient(facebook.Options{
		PixelID:     cfg.FBPixelID,
		AccessToken: cfg.FBAccessToken,
		APIVersion:  cfg.FBAPIVersion,
	})

	// Usecases
	settingsUC := usecase.NewSettingsUsecase(settingsRepo, memCache, cfg.CacheSettingsTTL)
	catalogUC := usecase.NewCatalogUsecase(productRepo, memCache, cfg.CacheProductTTL, domain.NewSequenceIDGenerator(nil))
	cartUC := usecase.NewCartUsecase(memCache, catalogUC, cfg.CartTTL, cfg.MaxCartQuantity)
	pricingUC := usecase.NewPricingUsecase(settingsUC, cartUC, cfg.PricingBaseCurrency, domain.DefaultRates())
	checkoutUC := usecase.NewCheckoutUsecase(settingsUC)
	var purchaseTracker usecase.PurchaseTracker
	if tracker != nil {
		purchaseTracker = tracker
	}
	orderUC := usecase.NewOrderUsecase(orderRepo, cartUC, settingsUC, policy, purchaseTracker)

	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Cart:         v1.NewCartHandler(cartUC),
		Catalog:      v1.NewCatalogHandler(catalogUC),
		AdminCatalog: v1.NewAdminCatalogHandler(catalogUC),
		CustomOrder:  v1.NewCustomOrderHandler(pricingUC),
		Checkout:     v1.NewCheckoutHandler(checkoutUC, orderUC),
		AdminOrder:   v1.NewAdminOrderHandler(orderUC),
		Settings:     v1.NewSettingsHandler(settingsUC, policy),
	}, middleware.CartSession(cfg.CartTTL, !cfg.IsDevelopment()))

	rateLimiter := middleware.NewRateLimiter(
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("storefront-backend", "1.0.0", cfg.Port)
	log.Info().
		Str("status_transitions", policy.Name()).
		Str("base_currency", cfg.PricingBaseCurrency).
		Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop("storefront-backend")
}
