package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthcare-appointment-service/internal/auth"
	"healthcare-appointment-service/internal/config"
	"healthcare-appointment-service/internal/middleware"
	"healthcare-appointment-service/internal/models"
	"healthcare-appointment-service/internal/routes"
)

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "appointment-service").
		Logger()

	// Load environment variables; a missing .env file is fine in deployments
	// that configure the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config")
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal().Err(err).Msg("error connecting to database")
	}

	verifier := buildVerifier(cfg, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, verifier, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

// buildVerifier assembles the credential verifier: remote delegation to the
// auth service by default, local shared-secret checking when configured,
// and an optional redis cache in front of either.
func buildVerifier(cfg *config.Config, logger zerolog.Logger) auth.Verifier {
	var verifier auth.Verifier
	if cfg.Auth.Mode == "local" {
		verifier = auth.NewLocalVerifier(cfg.Auth.SecretKey)
	} else {
		verifier = auth.NewRemoteVerifier(cfg.Auth.ServiceURL, logger)
	}

	if cfg.Redis.Addr == "" {
		return verifier
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return auth.NewCachedVerifier(verifier, client, cfg.Auth.CacheTTL, logger)
}
