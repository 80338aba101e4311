package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gtech/internal/config"
	httpapi "gtech/internal/http"
	"gtech/internal/kv"
	"gtech/internal/pincode"
	"gtech/internal/remote"
	"gtech/internal/repository"
	"gtech/internal/service"
)

// app holds the wired services for one backend mode.
type app struct {
	services httpapi.Services
	closers  []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func openStore(c config.StorageConfig) (kv.Store, error) {
	switch c.Driver {
	case config.DriverMemory:
		return kv.NewMemory(), nil
	case config.DriverSQLite:
		return kv.OpenSQLite(c.Path)
	}
	return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
}

// backend is the set of repositories one mode provides.
type backend struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	tx       repository.TxManager
	cart     repository.CartRepository
	payments repository.PaymentGateway
}

func localBackend(cfg *config.Config, store kv.Store) backend {
	ls := repository.NewLocalStore(store, repository.WithDemoPassword(cfg.Auth.DemoPassword))
	return backend{
		products: ls,
		orders:   repository.NewLocalOrders(ls),
		users:    repository.NewLocalUsers(ls),
		tx:       repository.NewLocalTx(ls),
	}
}

func remoteBackend(cfg *config.Config, session *service.Session, log *zap.Logger) (backend, *remote.Client) {
	client := remote.NewClient(cfg.Backend.APIURL,
		remote.WithTimeout(cfg.GetBackendTimeout()),
		remote.WithToken(session.Token),
		remote.WithUnauthorizedHook(func(ctx context.Context) {
			log.Warn("backend rejected token, signing out")
			if err := session.Clear(ctx); err != nil {
				log.Error("failed to clear session", zap.Error(err))
			}
		}),
		remote.WithLogger(log.Named("remote")),
	)
	return backend{
		products: remote.NewProducts(client),
		orders:   remote.NewOrders(client),
		users:    remote.NewUsers(client),
		tx:       repository.NewSerialTx(),
		cart:     remote.NewCart(client),
		payments: remote.NewPayments(client),
	}, client
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a := &app{closers: []func() error{store.Close}}
	session := service.NewSession(store)

	var b backend
	switch cfg.Backend.Mode {
	case config.ModeRemote:
		var client *remote.Client
		b, client = remoteBackend(cfg, session, log)
		a.closers = append(a.closers, func() error { client.Close(); return nil })
	default:
		b = localBackend(cfg, store)
	}

	orders := service.NewOrderService(b.products, b.orders, b.tx,
		service.WithDeliveryETA(cfg.GetDeliveryETA()),
		service.WithTransitionEnforcement(cfg.Orders.EnforceTransitions),
		service.WithOrderLogger(log.Named("orders")),
	)
	a.services = httpapi.Services{
		Auth:     service.NewAuthService(b.users, session, log.Named("auth")),
		Products: service.NewProductService(b.products),
		Orders:   orders,
		Cart:     service.NewCartService(session, b.products, b.cart, log.Named("cart")),
		Checkout: service.NewCheckoutService(session, b.products, orders, b.payments, log.Named("checkout")),
	}
	if cfg.Pincode.Enabled {
		a.services.Pincode = pincode.NewClient(cfg.Pincode.BaseURL, cfg.GetPincodeTimeout(), log.Named("pincode"))
	}
	log.Info("store ready",
		zap.String("mode", cfg.Backend.Mode),
		zap.String("storage", cfg.Storage.Driver),
	)
	return a, nil
}
