package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/acme/kubelet-stats-exporter/internal/collector"
	"github.com/acme/kubelet-stats-exporter/internal/config"
	kubeclient "github.com/acme/kubelet-stats-exporter/internal/kube/client"
	"github.com/acme/kubelet-stats-exporter/internal/kube/nodes"
	"github.com/acme/kubelet-stats-exporter/internal/kube/stats"
	"github.com/acme/kubelet-stats-exporter/internal/logging"
	"github.com/acme/kubelet-stats-exporter/internal/server"
	"github.com/acme/kubelet-stats-exporter/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	info := version.Get()
	logger.Info("Starting kubelet stats exporter",
		zap.String("version", info.Version),
		zap.String("gitCommit", info.GitCommit),
		zap.String("buildDate", info.BuildDate),
		zap.String("goVersion", info.GoVersion),
		zap.String("addr", cfg.Server.Addr),
	)

	factory, err := kubeclient.NewFactory(logger, kubeclient.ClientMode(cfg.Kubernetes.Mode), cfg.Kubernetes.KubeconfigPath)
	if err != nil {
		logger.Fatal("Failed to create Kubernetes client", zap.Error(err))
	}

	if err := factory.ValidateConnection(); err != nil {
		logger.Fatal("Failed to validate Kubernetes connection", zap.Error(err))
	}

	fetcher, err := stats.NewFetcher(logger, factory.RESTConfig(), stats.Options{
		Timeout:     cfg.KubeletTimeout(),
		TokenFile:   cfg.Kubelet.TokenFile,
		CAFile:      cfg.Kubelet.CAFile,
		InsecureTLS: cfg.Kubelet.InsecureTLS,
	})
	if err != nil {
		logger.Fatal("Failed to create summary stats fetcher", zap.Error(err))
	}

	nodeLister := nodes.NewLister(logger, factory.Client())

	coll := collector.New(logger, nodeLister, fetcher)
	prometheus.MustRegister(coll)

	srv := server.NewServer(logger, cfg, factory.Client())

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited")
}
