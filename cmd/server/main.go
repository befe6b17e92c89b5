package main

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KayiuTommyLI/mjkit-backend/internal/config"
	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/httpapi"
	"github.com/KayiuTommyLI/mjkit-backend/internal/hub"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	client := gameclient.New(cfg.GameServiceURL)

	var store tokens.Store = tokens.NewMemStore()
	if cfg.RedisAddr != "" {
		store = tokens.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.Info("using redis token store", zap.String("addr", cfg.RedisAddr))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, client, store, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, client, store)

	logger.Info("listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("gameService", cfg.GameServiceURL),
	)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
