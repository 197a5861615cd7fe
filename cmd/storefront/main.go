package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/DANCANKARANI/e-commerce/internal/cartsync"
	"github.com/DANCANKARANI/e-commerce/internal/checkout"
	"github.com/DANCANKARANI/e-commerce/internal/config"
	h "github.com/DANCANKARANI/e-commerce/internal/http"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
	"github.com/DANCANKARANI/e-commerce/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr).With().Str("service", "storefront").Logger()

	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// every remote collaborator gets its own circuit breaker behind one
	// instrumented transport
	newHTTPClient := func(name string) *http.Client {
		return &http.Client{
			Transport: otelhttp.NewTransport(remote.NewBreakerTransport(name, http.DefaultTransport)),
		}
	}

	cartAPI := remote.NewCartClient(cfg.CartAPIBaseURL, newHTTPClient("cart-api"), cfg.RemoteTimeout)
	orderAPI := remote.NewOrderClient(cfg.OrderAPIBaseURL, newHTTPClient("order-api"), cfg.RemoteTimeout)
	paymentAPI := remote.NewPaymentClient(cfg.PaymentAPIBaseURL, cfg.AccountReference, newHTTPClient("payment-api"), cfg.RemoteTimeout)

	sessions := session.NewManager(func() *session.State {
		store := cartsync.NewStore(cartAPI)
		return &session.State{
			Cart:     store,
			Checkout: checkout.NewFlow(store, orderAPI, paymentAPI),
		}
	})
	mirror := session.NewMirrorStore(redisClient)

	go func() {
		ticker := time.NewTicker(cfg.SessionSweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			if dropped := sessions.Evict(cfg.SessionMaxIdle); dropped > 0 {
				log.Info().Int("sessions", dropped).Msg("evicted idle sessions")
			}
		}
	}()

	cartHandler := h.NewCartHandler(sessions, mirror)
	checkoutHandler := h.NewCheckoutHandler(sessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	r.Use(middleware.Compress(5))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(h.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{line_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{line_id}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/", checkoutHandler.Begin)
			r.Post("/address", checkoutHandler.SubmitAddress)
			r.Post("/payment", checkoutHandler.ConfirmPayment)
			r.Post("/reset", checkoutHandler.Reset)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
