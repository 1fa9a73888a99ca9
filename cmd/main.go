package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"shuddhneer/internal/config"
	httpapi "shuddhneer/internal/http"
	"shuddhneer/internal/insight"
	"shuddhneer/internal/logger"
	"shuddhneer/internal/metrics"
	"shuddhneer/internal/repository"
	"shuddhneer/internal/service"

	_ "shuddhneer/docs"
)

// @title Shuddhneer Orders API
// @version 1.0
// @description Customer and admin portals for packaged water delivery.
// @host localhost:9091
// @BasePath /api/v1
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "shuddhneer"}).Error(context.Background(), "config.load_failed", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "shuddhneer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	// prices go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := repository.NewMemoryStore()
	profiles := repository.NewMemoryProfiles()
	store.SeedProducts(repository.Catalog()...)
	if cfg.Orders.SeedDemoData {
		if err := repository.Seed(store, profiles, time.Now().UTC()); err != nil {
			logg.Error(ctx, "seed.failed", err)
			os.Exit(1)
		}
	}

	var model insight.TextModel
	if cfg.Insight.Enabled() {
		gm, err := insight.NewGeminiModel(ctx, cfg.Insight.APIKey, cfg.Insight.Model)
		if err != nil {
			logg.Error(ctx, "insight.model_init_failed", err)
		} else {
			model = gm
		}
	} else {
		logg.Warn(ctx, "insight.disabled")
	}
	gen := insight.NewGenerator(model, insight.Options{
		Timeout:       cfg.Insight.Timeout,
		SummaryWindow: cfg.Insight.SummaryWindow,
		Logger:        logg,
		Metrics:       m,
	})

	productsSvc := service.NewProductService(store)
	ordersSvc := service.NewOrderService(service.OrderServiceParams{
		Orders:            repository.NewMemoryOrders(store),
		Tx:                repository.NewMemoryTx(store),
		StrictTransitions: cfg.Orders.StrictTransitions,
		Logger:            logg,
		Metrics:           m,
	})

	srv := httpapi.NewServer(httpapi.Services{
		Products: productsSvc,
		Orders:   ordersSvc,
		Carts:    service.NewCartService(store, profiles, ordersSvc, logg),
		Profiles: service.NewProfileService(profiles),
		Insights: service.NewInsightService(ordersSvc, productsSvc, gen),
	}, httpapi.Options{
		Logger:      logg,
		Metrics:     m,
		Gatherer:    reg,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "addr", httpServer.Addr), "http.listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "http.server_failed", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "http.shutdown_failed", err)
	}
	logg.Info(ctx, "http.stopped")
}
