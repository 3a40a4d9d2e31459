package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/internal/view"
	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the briefing page and JSON endpoints",
		Long: `Serves the briefing form over HTTP.

Routes, relative to server.base_path:
  GET|POST /              the briefing page
  GET      /api/cnpj/{n}  registry lookup
  GET      /api/mask      input masks
  GET      /openapi.json  API description`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler, err := a.handler()
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
			}
			return a.serve(ctx, ln, handler)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) handler() (http.Handler, error) {
	schema, err := form.DefaultSchema()
	if err != nil {
		return nil, err
	}
	themeCfg, err := view.SelectTheme(view.NewManifestSelector(), a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewRenderer(schema, themeCfg, a.cfg.Templates.Dir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	mux := http.NewServeMux()
	routes, err := web.RegisterRoutes(mux, a.cfg.Server.BasePath,
		web.WithSchema(schema),
		web.WithRenderer(renderer),
		web.WithLooker(a.newLooker()),
		web.WithComposer(a.newComposer()),
		web.WithLogger(a.logger.Named("web")),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("routes registered",
		zap.String("page", routes.Page),
		zap.String("lookup", routes.Lookup),
		zap.String("mask", routes.Mask),
		zap.String("openapi", routes.OpenAPI),
	)
	return mux, nil
}

func (a *app) serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("briefing server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a.logger.Info("briefing server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
