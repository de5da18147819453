package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/integraiot/plataforma/api/handler"
	"github.com/integraiot/plataforma/internal/config"
	"github.com/integraiot/plataforma/internal/middleware"
	"github.com/integraiot/plataforma/internal/observability"
	"github.com/integraiot/plataforma/internal/router"
	"github.com/integraiot/plataforma/internal/schema"
	"github.com/integraiot/plataforma/internal/services/lifecycle"
	"github.com/integraiot/plataforma/pkg/httpcontext"
	"github.com/integraiot/plataforma/pkg/logger"
	"github.com/integraiot/plataforma/repository/jsonfile"
	sensorUC "github.com/integraiot/plataforma/usecase/sensor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Service:  "sensors",
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
		metrics = observability.New("sensors")
		metricsServer := metrics.Serve(cfg.Metrics.Addr, zapLogger)
		manager.Register("metrics", func(ctx context.Context) error {
			return metricsServer.Shutdown(ctx)
		})
	}

	repo := jsonfile.NewSensorRepository(cfg.Sensor.SensoresFile, cfg.Sensor.LecturasFile)
	sensorSchema := schema.NewValidator(cfg.Schemas.Sensor())
	lecturaSchema := schema.NewValidator(cfg.Schemas.Lectura())
	useCase := sensorUC.New(repo, sensorSchema, lecturaSchema, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.SensorHandlers{
		Sensor: apiHandler.NewSensorHandler(useCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(repo, ctxAdapter, zapLogger),
	}
	r := router.NewSensor(handlers, middleware.Metrics(metrics))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.SensorAddress()))
		if err := server.ListenAndServe(cfg.SensorAddress()); err != nil {
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
