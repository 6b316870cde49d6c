// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tigerwill90/routef"
	"github.com/tigerwill90/routef/middleware"
	"github.com/tigerwill90/routef/routefdebug"
)

func serveCmd(table *string) *cobra.Command {
	var (
		addr    string
		debug   bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP",
		Long: `Serve the route table over HTTP. Metrics are exposed on /metrics, and
with --debug, /debug/* responds with the request and router information.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			mws := []routef.MiddlewareFunc{
				middleware.Prometheus(middleware.WithRegistry(reg)),
			}
			if tracing {
				mws = append(mws, middleware.OpenTelemetry())
			}

			app, err := loadRouter(*table, routef.WithPrettyLogs(), routef.WithMiddleware(mws...))
			if err != nil {
				return err
			}

			endpoints := []routef.Endpoint{
				routef.GET(routef.Route("/metrics", routef.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))),
			}
			if debug {
				endpoints = append(endpoints, routef.Routef("/debug/%s", func(routef.Args) routef.HandlerFunc {
					return routefdebug.DebugHandler()
				}))
			}

			// Anything not handled by the admin endpoints is dispatched to the route table.
			r, err := routef.New(app.Handle, endpoints)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", slog.String("addr", addr), slog.Int("routes", app.Len()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err = <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().BoolVar(&debug, "debug", false, "Expose the /debug/* handler")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Open an OpenTelemetry span per request with the global tracer provider")

	return cmd
}
