package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/freshcart/pkg/app"
	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/discovery"
	"github.com/example/freshcart/pkg/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront",
		zap.String("name", cfg.Server.Name),
		zap.Int("grpc_port", cfg.Server.Port),
		zap.Int("http_port", cfg.Gateway.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create app", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		if err := a.Tracking.Start(cfg.Server.Address()); err != nil {
			errCh <- fmt.Errorf("tracking server: %w", err)
		}
	}()
	go func() {
		if err := a.Gateway.Start(); err != nil {
			errCh <- fmt.Errorf("gateway: %w", err)
		}
	}()

	// a wildcard bind address is not dialable, advertise loopback instead
	advertise := cfg.Server.Host
	if advertise == "" || advertise == "0.0.0.0" {
		advertise = "localhost"
	}
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: advertise,
		Port: cfg.Server.Port,
	}
	var sd *discovery.ServiceDiscovery
	if cfg.Etcd.Enabled {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger.Named("discovery"))
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}
	if err := a.Gateway.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway shutdown error", zap.Error(err))
	}
	a.Tracking.Stop()
	if err := a.Close(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}

	logger.Info("Storefront stopped")
}
