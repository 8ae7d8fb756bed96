package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
	"github.com/newwebie/admin-apontamentos/internal/api/handler"
	"github.com/newwebie/admin-apontamentos/internal/api/router"
	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/service"
	"github.com/newwebie/admin-apontamentos/internal/storage"
	applogger "github.com/newwebie/admin-apontamentos/pkg/logger"
	"github.com/newwebie/admin-apontamentos/pkg/redis"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando aplicação...",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Workbook storage gateway
	var gw storage.Gateway
	switch cfg.Storage.Backend {
	case "sharepoint":
		gw = storage.NewSharePointGateway(&cfg.Storage.SharePoint, logger)
	default:
		gw = storage.NewLocalGateway(cfg.Storage.Local.RootDir)
	}

	// 4. Redis (optional: snapshots and rate limiting degrade without it)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis indisponível, snapshots de grade ficam em memória", zap.Error(err))
		rdb = nil
	}

	// 5. Dependency injection: Repository → Service → Handler
	repo := repository.NewRepository(gw, cfg, rdb, logger)
	svc := service.NewService(repo, logger)
	h := handler.NewHandler(svc)

	// 6. Router
	engine := router.Setup(cfg, h, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("servidor HTTP falhou", zap.Error(err))
		}
	}()

	// 8. Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("sinal de desligamento recebido...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("falha no desligamento do servidor", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("servidor encerrado")
}
