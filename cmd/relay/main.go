package main

import (
	"fmt"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"outgo/internal/config"
	"outgo/internal/logger"
	"outgo/internal/middleware"
	"outgo/internal/relay"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	publicKey := cfg.VAPIDPublicKey
	privateKey := cfg.VAPIDPrivateKey
	if publicKey == "" || privateKey == "" {
		// Ephemeral keys for local development; subscriptions won't
		// survive a restart anyway, the store is in memory.
		privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
		if err != nil {
			return fmt.Errorf("failed to generate VAPID keys: %w", err)
		}
		log.Warn("VAPID_PUBLIC_KEY/VAPID_PRIVATE_KEY not set, generated an ephemeral pair")
	}

	sender := relay.NewWebpushSender(cfg.VAPIDSubscriber, publicKey, privateKey)
	handler := relay.NewHandler(relay.NewStore(), sender, publicKey)

	if cfg.RelayAPIKey == "" {
		log.Warn("RELAY_API_KEY not set, relay endpoints are unauthenticated")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router, middleware.APIKeyMiddleware(cfg.RelayAPIKey))

	log.Infof("Starting push relay on port %s", cfg.RelayPort)
	return router.Run(":" + cfg.RelayPort)
}
