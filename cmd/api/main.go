// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/membership"
	"libris/internal/notification"
	"libris/internal/platform/auth"
	"libris/internal/platform/clock"
	"libris/internal/platform/config"
	"libris/internal/platform/db"
	"libris/internal/platform/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, "libris-api", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}
	defer shutdownTelemetry(context.Background())

	conn, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer cache.Close()
	}

	items := catalog.NewSQLItemStore(conn)
	members := membership.NewSQLMemberStore(conn)
	loans := circulation.NewSQLLoanStore(conn)
	clk := clock.System{}

	catalogSvc := catalog.NewService(items, cache)
	membershipSvc := membership.NewService(members, loans)
	circulationSvc := circulation.NewService(items, members, loans, clk)

	hub := notification.NewHub(loans, items, members, clk)
	hub.Subscribe(notification.NewEmailSink(cfg.Notification.EmailDomain))
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Drain()
		hub.Subscribe(notification.NewNATSSink(nc, cfg.NATS.Subject))
	}

	sessions := auth.NewService([]byte(cfg.Auth.JWTSecret))

	router := newRouter(sessions,
		catalog.NewHandler(catalogSvc),
		membership.NewHandler(membershipSvc),
		circulation.NewHandler(circulationSvc),
		notification.NewHandler(hub),
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("libris API listening on %s (mode=%s, db=%s)", cfg.HTTP.Addr, cfg.Mode, cfg.DB.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// newRouter mounts every endpoint under /api/v1. Mutating endpoints
// sit behind the admin session middleware.
func newRouter(sessions *auth.Service,
	catalogH *catalog.Handler,
	membershipH *membership.Handler,
	circulationH *circulation.Handler,
	notificationH *notification.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admin/login", sessions.HandleLogin)

		catalogH.Routes(r)
		membershipH.Routes(r)
		circulationH.Routes(r)

		r.Group(func(r chi.Router) {
			r.Use(sessions.Middleware)
			catalogH.AdminRoutes(r)
			membershipH.AdminRoutes(r)
			circulationH.AdminRoutes(r)
			notificationH.AdminRoutes(r)
		})
	})

	return r
}
