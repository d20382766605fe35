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

	"recipe-recommender/internal/api"
	"recipe-recommender/internal/core/ai/generation"
	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/catalog"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_api_key", common.MaskSecret(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("session_backend", cfg.Session.Backend),
	)

	store, err := session.NewStore(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer store.Close()

	aiClient := openrouter.NewClient(cfg)
	defer aiClient.Close()
	if !aiClient.Configured() {
		common.LogWarn("OPENROUTER_API_KEY not set, searches will use the built-in catalog")
	}

	orch := recommend.New(
		generation.NewClient(aiClient, cfg.Recipe.BatchSize),
		catalog.Default(),
		recommend.WithBatchSize(cfg.Recipe.BatchSize),
	)

	if cfg.Recipe.SeedCatalog && aiClient.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.OpenRouter.Timeout)
		orch.SeedCatalog(ctx)
		cancel()
	}

	router, cleanup, err := api.SetupRouter(cfg, api.Dependencies{
		Recommender:  orch,
		Sessions:     store,
		Images:       image.NewService(cfg.Recipe.ImageURLTemplate),
		AIConfigured: aiClient.Configured(),
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
