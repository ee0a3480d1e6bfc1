// Package main is the entry point for the neighborhood map browser.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/neighborhood-map/internal/catalog"
	"github.com/pkordes/neighborhood-map/internal/config"
	"github.com/pkordes/neighborhood-map/internal/handler"
	"github.com/pkordes/neighborhood-map/internal/mapview"
	"github.com/pkordes/neighborhood-map/internal/middleware"
	"github.com/pkordes/neighborhood-map/internal/service"
	"github.com/pkordes/neighborhood-map/internal/venue"
	"github.com/pkordes/neighborhood-map/internal/web"
)

// maxRequestBody caps JSON request bodies. The largest is a query string.
const maxRequestBody = 64 << 10

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Map --------------------------------------------------------------
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load place catalog", "error", err)
		os.Exit(1)
	}

	scene, err := mapview.New(mapview.Options{Center: cfg.MapCenter, Zoom: cfg.MapZoom})
	if err != nil {
		// Nothing is drawn and no lookups are attempted.
		slog.Error("failed to initialize map", "error", err)
		os.Exit(1)
	}

	venues, err := newLookuper(cfg)
	if err != nil {
		slog.Error("failed to create venue provider", "provider", cfg.VenueProvider, "error", err)
		os.Exit(1)
	}

	svc := service.NewBrowserService(cat, scene, venues, service.Options{
		BounceDuration: cfg.BounceDuration,
		LookupTimeout:  cfg.LookupTimeout,
		Logger:         logger,
	})
	defer svc.Close()

	if err := svc.Init(); err != nil {
		slog.Error("failed to populate map", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	r.Get("/", web.PageHandler())
	r.Get("/openapi.yaml", web.OpenAPIHandler())
	r.Mount("/", handler.NewServer(svc).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "provider", venues.Name(), "places", cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		// In-flight requests get up to 15 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		svc.Close()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newLookuper builds the venue provider selected by VENUE_PROVIDER.
func newLookuper(cfg config.Config) (service.Lookuper, error) {
	if cfg.VenueProvider == config.ProviderGoogle {
		return venue.NewGooglePlaces(cfg.GoogleMapsAPIKey)
	}
	return venue.NewFoursquare(venue.FoursquareConfig{
		Endpoint:     cfg.FoursquareEndpoint,
		ClientID:     cfg.FoursquareClientID,
		ClientSecret: cfg.FoursquareClientSecret,
		Version:      cfg.FoursquareAPIVersion,
	}), nil
}
