package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dancehub-storefront/internal/cart"
	"dancehub-storefront/internal/config"
	"dancehub-storefront/internal/db"
	"dancehub-storefront/internal/guestcart"
	"dancehub-storefront/internal/httpserver"
	"dancehub-storefront/internal/kv"
	"dancehub-storefront/internal/notify"
	"dancehub-storefront/internal/plan"
	"dancehub-storefront/internal/reconcile"
	"dancehub-storefront/internal/remotecart"
	customerrepo "dancehub-storefront/internal/repository/customer"
	resourcerepo "dancehub-storefront/internal/repository/resource"
	tokenrepo "dancehub-storefront/internal/repository/token"
	customersvc "dancehub-storefront/internal/service/customer"
	guestsvc "dancehub-storefront/internal/service/guest"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	guestKV, err := guestCartKV(ctx, cfg, dbpool)
	if err != nil {
		logger.Fatalf("init guest cart backend %q: %v", cfg.GuestCartBackend, err)
	}

	notifier := notify.NewLog(logger)
	guestStore := guestcart.New(guestKV, notifier, logger, cfg.PlaceholderHost)
	remoteCart := remotecart.New(cfg.CartAPIURL)
	cartService := cart.New(guestStore, remoteCart, notifier, logger)
	reconcileEngine := reconcile.New(guestStore, remoteCart, notifier, logger)

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	resourceRepo := resourcerepo.NewPostgres(dbpool, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)
	guestService := guestsvc.New(tokenRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc:  customerService,
		GuestSvc:     guestService,
		CartSvc:      cartService,
		Reconciler:   reconcileEngine,
		ResourceRepo: resourceRepo,
		Gate:         plan.NewGate(cfg.UpgradeURL),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func guestCartKV(ctx context.Context, cfg config.Config, dbpool *pgxpool.Pool) (kv.Store, error) {
	switch cfg.GuestCartBackend {
	case "postgres":
		return kv.NewPostgres(dbpool), nil
	case "redis":
		client, err := db.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return kv.NewRedis(client), nil
	case "memory":
		return kv.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.GuestCartBackend)
}
