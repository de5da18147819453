package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/integraiot/plataforma/api/handler"
	"github.com/integraiot/plataforma/internal/client"
	"github.com/integraiot/plataforma/internal/config"
	"github.com/integraiot/plataforma/internal/infrastructure/monitor"
	"github.com/integraiot/plataforma/internal/middleware"
	"github.com/integraiot/plataforma/internal/observability"
	"github.com/integraiot/plataforma/internal/router"
	"github.com/integraiot/plataforma/internal/schema"
	"github.com/integraiot/plataforma/internal/services/lifecycle"
	"github.com/integraiot/plataforma/pkg/httpcontext"
	"github.com/integraiot/plataforma/pkg/logger"
	unifiedUC "github.com/integraiot/plataforma/usecase/unified"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Service:  "unified",
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.New("unified")
		metricsServer := metrics.Serve(cfg.Metrics.Addr, zapLogger)
		manager.Register("metrics", func(ctx context.Context) error {
			return metricsServer.Shutdown(ctx)
		})
	}

	registryClient := client.NewRegistryClient(client.Config{
		BaseURL: cfg.Unified.CRMURL,
		Timeout: cfg.Unified.UpstreamTimeout,
	}, metrics, zapLogger)
	sensorClient := client.NewSensorClient(client.Config{
		BaseURL: cfg.Unified.IoTURL,
		Timeout: cfg.Unified.UpstreamTimeout,
	}, metrics, zapLogger)

	gate := schema.NewValidator(cfg.Schemas.Unificado())
	useCase := unifiedUC.New(registryClient, sensorClient, gate, zapLogger)

	mon := monitor.New(cfg.Unified.CRMURL, cfg.Unified.IoTURL, cfg.Unified.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.UnifiedHandlers{
		Unified: apiHandler.NewUnifiedHandler(useCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewUpstreamHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.NewUnified(handlers, middleware.Metrics(metrics))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.UnifiedAddress()))
		if err := server.ListenAndServe(cfg.UnifiedAddress()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
