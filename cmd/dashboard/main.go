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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	camerasclient "github.com/zanzhit/camera_dashboard/internal/client/cameras"
	"github.com/zanzhit/camera_dashboard/internal/config"
	authhandler "github.com/zanzhit/camera_dashboard/internal/http-server/handlers/auth"
	camerashandler "github.com/zanzhit/camera_dashboard/internal/http-server/handlers/cameras"
	detectionshandler "github.com/zanzhit/camera_dashboard/internal/http-server/handlers/detections"
	layouthandler "github.com/zanzhit/camera_dashboard/internal/http-server/handlers/layout"
	authmiddleware "github.com/zanzhit/camera_dashboard/internal/http-server/middleware/auth"
	"github.com/zanzhit/camera_dashboard/internal/http-server/middleware/logger"
	jwtlib "github.com/zanzhit/camera_dashboard/internal/lib/jwt"
	"github.com/zanzhit/camera_dashboard/internal/lib/rtsp"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
	"github.com/zanzhit/camera_dashboard/internal/metrics"
	"github.com/zanzhit/camera_dashboard/internal/registry"
	authservice "github.com/zanzhit/camera_dashboard/internal/services/auth"
	cameraservice "github.com/zanzhit/camera_dashboard/internal/services/cameras"
	detectionservice "github.com/zanzhit/camera_dashboard/internal/services/detections"
	"github.com/zanzhit/camera_dashboard/internal/storage/postgres"
	authstorage "github.com/zanzhit/camera_dashboard/internal/storage/postgres/auth"
	camerastorage "github.com/zanzhit/camera_dashboard/internal/storage/postgres/cameras"
	detectionstorage "github.com/zanzhit/camera_dashboard/internal/storage/postgres/detections"
	redisstorage "github.com/zanzhit/camera_dashboard/internal/storage/redis"
	"github.com/zanzhit/camera_dashboard/internal/storage/redis/sessions"
	"github.com/zanzhit/camera_dashboard/internal/stream"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	serviceSubject  = "camera-dashboard"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting camera dashboard",
		slog.String("env", cfg.Env),
		slog.String("address", cfg.HTTPServer.Address),
		slog.String("registry_source", cfg.Registry.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DB)
	if err != nil {
		log.Error("failed to init postgres", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := redisstorage.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to init redis", sl.Err(err))
		os.Exit(1)
	}
	defer rdb.Close()

	authStorage := authstorage.New(db)
	cameraStorage := camerastorage.New(db)
	detectionStorage := detectionstorage.New(db)
	sessionStorage := sessions.New(rdb)

	reg := registry.New()

	var tokens stream.TokenSource = jwtlib.ServiceTokens{Subject: serviceSubject, TTL: cfg.TokenTTL, Secret: cfg.Secret}
	if cfg.Stream.AuthToken != "" {
		tokens = stream.StaticToken(cfg.Stream.AuthToken)
	}

	streams := stream.New(log, cfg.Stream, reg, tokens)

	var source registry.CameraSource = cameraStorage
	if cfg.Registry.Source == config.SourceHTTP {
		source = camerasclient.New(cfg.Registry.UpstreamURL, cfg.Registry.UpstreamToken, cfg.Registry.Timeout)
	}

	loader := registry.NewLoader(log, reg, source, streams)

	var prober cameraservice.Prober
	if cfg.Probe.Enabled {
		prober = rtsp.Prober{}
	}

	authService := authservice.New(log, authStorage, authStorage, sessionStorage, cfg.TokenTTL, cfg.Secret)
	cameraService := cameraservice.New(log, cameraStorage, reg, streams, loader, prober)
	detectionService := detectionservice.New(log, detectionStorage)

	if err := authService.CreateInitialAdmin(); err != nil {
		log.Error("failed to create initial admin", sl.Err(err))
	}

	authHandler := authhandler.New(log, authService)
	cameraHandler := camerashandler.New(log, cameraService)
	detectionHandler := detectionshandler.New(log, detectionService)
	layoutHandler := layouthandler.New(log)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(metrics.NewCollector(reg, streams))

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.RegisterNewUser)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/layout", layoutHandler.Layout)
		r.Get("/layout/presets", layoutHandler.Presets)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.JWTAuth(log, authService))

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/cameras", cameraHandler.Cameras)
			r.Post("/cameras", cameraHandler.SaveCamera)
			r.With(authmiddleware.AdminRequired).Post("/cameras/reload", cameraHandler.Reload)
			r.Post("/cameras/{id}/connect", cameraHandler.Connect)
			r.Post("/cameras/{id}/disconnect", cameraHandler.Disconnect)
			r.Get("/cameras/{id}/frame", cameraHandler.Frame)

			r.Get("/detections", detectionHandler.Errors)
			r.Get("/detections/images", detectionHandler.Images)
		})
	})

	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Registry.Timeout)
		defer cancel()

		loader.Load(loadCtx)
	}()

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop()
		}
	}()

	log.Info("server started")

	<-ctx.Done()

	log.Info("stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	streams.Teardown()

	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
