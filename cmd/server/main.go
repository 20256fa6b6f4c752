package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/config"
	"github.com/AnshRaj112/lingua-backend/internal/database"
	"github.com/AnshRaj112/lingua-backend/internal/handlers"
	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/routes"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	mongo, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB",
			zap.Error(err),
			zap.String("hint", "check the connection string, IP allow-list and that the cluster is running"),
		)
	}
	defer mongo.Disconnect()

	users := services.NewMongoUserStore(mongo.DB)
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := users.EnsureUserIndexes(indexCtx); err != nil {
		logger.Warn("failed to ensure user indexes", zap.Error(err))
	}
	cancel()

	redisClient, err := database.ConnectRedis(cfg.RedisURI, logger)
	if err != nil {
		logger.Warn("Redis unavailable, shared rate limiting disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var presence services.PresenceSyncer = services.DisabledPresence{}
	if cfg.StreamEnabled() {
		streamPresence, err := services.NewStreamPresence(cfg.StreamAPIKey, cfg.StreamAPISecret)
		if err != nil {
			logger.Warn("failed to initialize Stream chat client", zap.Error(err))
		} else {
			presence = streamPresence
			logger.Info("Stream chat presence enabled")
		}
	} else {
		logger.Warn("STREAM_API_KEY/STREAM_API_SECRET not set, chat presence sync disabled")
	}

	var uploader services.ProfilePicUploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("failed to initialize Cloudinary", zap.Error(err))
		} else {
			uploader = cld
			logger.Info("Cloudinary uploads enabled")
		}
	} else {
		logger.Warn("Cloudinary credentials not found, profile picture uploads disabled")
	}

	authCfg := cfg.Auth()
	tokens := services.NewTokenIssuer(authCfg.TokenSecret)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.TrustProxy) {
			r.Use(mw)
		}
		logger.Info("production security enabled")
	}
	r.Use(middleware.RateLimit(redisClient, cfg.TrustProxy, logger))

	routes.SetupRoutes(r, routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens, presence, authCfg, logger),
		Chat:    handlers.NewChatHandler(presence, logger),
		Users:   handlers.NewUserHandler(users, uploader, presence, logger),
		Protect: middleware.ProtectRoute(tokens, users, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
