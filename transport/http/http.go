package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"taskapp/config"
	"taskapp/infras/kafka"
	"taskapp/infras/otel"
	"taskapp/infras/postgres"
	"taskapp/shared/constant"
	"taskapp/transport/http/middleware"
	"taskapp/transport/http/response"
	"taskapp/transport/http/router"
	"time"

	_ "taskapp/docs"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware
	DB         *postgres.Connection
	Kafka      kafka.Client
	Otel       otel.Otel

	state   atomic.Int32
	once    sync.Once
	handler http.Handler
	server  *http.Server
}

func New(
	cfg *config.Config,
	r router.Router,
	mw middleware.AppMiddleware,
	db *postgres.Connection,
	events kafka.Client,
	otl otel.Otel,
) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: mw,
		DB:         db,
		Kafka:      events,
		Otel:       otl,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

// Serve blocks until the server stops. SIGINT and SIGTERM start a graceful shutdown.
func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:         net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:      h.handler,
		ReadTimeout:  time.Duration(h.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(h.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	done := make(chan struct{})

	h.setupGracefulShutdown(done)

	log.Info().Str("host", h.Config.Server.Host).Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// ServeHTTP lets the server be mounted as a plain handler, e.g. by a serverless entry point.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()

	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.setState(ServerStateReady)
	})
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(h.serverState)
	mux.Use(chiMiddleware.Recoverer)
	mux.Use(h.Middleware.RequestID)
	mux.Use(h.Middleware.AccessLog)
	mux.Use(h.Middleware.Tracing)
	mux.Use(h.Middleware.RateLimit())

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	if h.Config.Server.Env != constant.ServerEnvProduction {
		mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	h.Router.SetupRoutes(mux)

	h.handler = mux
}

// serverState rejects every request once shutdown has begun.
func (h *HTTP) serverState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.State() != ServerStateReady {
			response.WithPreparingShutdown(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) setupGracefulShutdown(done chan struct{}) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, done)
}

func (h *HTTP) respondToSigterm(sig chan os.Signal, done chan struct{}) {
	<-sig

	defer close(done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.setState(ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

		log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

		h.setState(ServerStateInCleanupPeriod)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	if err := h.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to flush task events")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	if err := h.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connections")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
