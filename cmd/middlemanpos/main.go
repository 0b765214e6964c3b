// Package main boots the middlemanPOS HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justindrp/middlemanPOS/internal/cart"
	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/config"
	httpapi "github.com/justindrp/middlemanPOS/internal/http"
	"github.com/justindrp/middlemanPOS/internal/kvstore"
	"github.com/justindrp/middlemanPOS/internal/ledger"
	"github.com/justindrp/middlemanPOS/internal/obs"
	"github.com/justindrp/middlemanPOS/internal/session"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	kv, err := kvstore.NewFileStore(cfg.DataDir)
	if err != nil {
		obs.Logger.Error("storage_init_failed", "error", err)
		os.Exit(1)
	}

	cat := catalog.New(kv)
	if err := cat.Load(); err != nil {
		obs.Logger.Warn("catalog_starting_empty", "error", err)
	}
	led := ledger.New(kv)
	if err := led.Load(); err != nil {
		obs.Logger.Warn("ledger_starting_empty", "error", err)
	}
	ct := cart.New(cat, led)
	ses := session.New()

	app := httpapi.NewApp(cfg, cat, ct, led, ses)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
