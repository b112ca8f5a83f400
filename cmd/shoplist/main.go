package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"shoplist/internal/cacheproxy"
	"shoplist/internal/database"
	"shoplist/internal/logging"
	"shoplist/internal/server"
	"shoplist/internal/syncer"
)

type config struct {
	Port         string        `env:"SHOPLIST_PORT" envDefault:"8080"`
	ProxyPort    string        `env:"SHOPLIST_PROXY_PORT" envDefault:"8081"`
	DBPath       string        `env:"SHOPLIST_DB_PATH" envDefault:"shoplist.db"`
	LogLevel     string        `env:"SHOPLIST_LOG_LEVEL" envDefault:"info"`
	SyncInterval time.Duration `env:"SHOPLIST_SYNC_INTERVAL" envDefault:"1m"`
	PrecacheURLs []string      `env:"SHOPLIST_PRECACHE_URLS" envSeparator:","`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, cfg.DBPath, logger)

	apiServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// The proxy fronts the API server, serving the app shell cache-first and
	// falling back to cached API reads while offline.
	upstream := cacheproxy.NewUpstream("http://localhost:"+cfg.Port, &http.Client{Timeout: 10 * time.Second})
	proxy := cacheproxy.New(upstream, logger, cacheproxy.WithPrecacheURLs(cfg.PrecacheURLs))

	proxyMux := http.NewServeMux()
	proxyMux.Handle("/control/", cacheproxy.ControlHandler(proxy))
	proxyMux.Handle("/", proxy)
	proxyServer := &http.Server{
		Addr:         ":" + cfg.ProxyPort,
		Handler:      proxyMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sync := syncer.New(func(ctx context.Context) error {
		// Local-first: the scheduled pass just revalidates the proxy's API
		// cache so reads after a reconnect see fresh data.
		proxy.ConnectivityChanged(true)
		return nil
	}, cfg.SyncInterval, logger)
	sync.OnConnectivityChange(proxy.ConnectivityChanged)

	go func() {
		fmt.Printf("shoplist API at http://localhost:%s\n", cfg.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	ctx := context.Background()
	if len(cfg.PrecacheURLs) > 0 {
		installCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := proxy.Install(installCtx); err != nil {
			logger.Error("proxy install failed", "error", err)
		}
		cancel()
	}
	proxy.Activate()

	go func() {
		fmt.Printf("shoplist proxy at http://localhost:%s\n", cfg.ProxyPort)
		if err := proxyServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("proxy server error: %v", err)
		}
	}()

	sync.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	sync.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := proxyServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("proxy shutdown error", "error", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
