package main

import (
	"context"
	"time"

	"thangka-gallery/config"
	"thangka-gallery/database"
	routes "thangka-gallery/internal/app/http"
	"thangka-gallery/internal/infra/storage"
	"thangka-gallery/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	logging.Init(logging.Config{Level: config.App.LogLevel, Format: config.App.LogFormat})
	database.InitDB()

	store, err := storage.New(config.App)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", config.App.Storage.Driver).Msg("failed to init storage")
	}
	storage.Default = store

	deps := routes.Deps{Store: store}
	if config.App.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.App.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the submit quota fails open, so a late redis is fine
			logging.Warn().Err(err).Str("addr", config.App.RedisAddr).Msg("redis not reachable yet")
		}
		cancel()
		deps.Redis = rdb
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.App.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", logging.CorrelationHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	logging.Info().Str("port", config.App.Port).Msg("server starting")
	if err := r.Run(":" + config.App.Port); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
