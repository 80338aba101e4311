package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "gtech/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := httpapi.NewServer(a.services, logger.Named("http"), httpapi.WithAdminToken(cfg.Server.AdminToken))
		if cfg.Server.AdminToken == "" {
			logger.Info("operator routes disabled; set server.admin_token to enable")
		}
		httpServer := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Engine(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}
