// Command server runs the Nomad Treasures admin API. With no configuration
// it serves the seeded in-memory marketplace; DB_DSN switches to Postgres
// (running embedded migrations on boot) and REDIS_ADDR moves session and
// reset tokens into Redis.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	adminauth "github.com/nomadtreasures/adminauth"
	"github.com/nomadtreasures/adminauth/internal/config"
	"github.com/nomadtreasures/adminauth/internal/httpapi"
	"github.com/nomadtreasures/adminauth/internal/mailer"
	"github.com/nomadtreasures/adminauth/internal/migrations"
	"github.com/nomadtreasures/adminauth/internal/store"
	"github.com/nomadtreasures/adminauth/internal/telemetry"
	"github.com/nomadtreasures/adminauth/password"
)

func main() {
	cfg := config.Load()

	shutdownTelemetry := telemetry.Setup("adminauth")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	authCfg := adminauth.DefaultConfig()
	authCfg.Session.TokenTTL = cfg.TokenTTL
	authCfg.Session.SweepInterval = cfg.SweepInterval
	authCfg.PasswordReset.ResetTTL = cfg.ResetTTL

	marketplace, cleanup, err := openStore(cfg, authCfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer cleanup()

	builder := adminauth.New().
		WithConfig(authCfg).
		WithUserProvider(store.NewUserProvider(marketplace)).
		WithMailer(&mailer.LogMailer{BaseURL: "http://localhost:" + cfg.Port}).
		WithAuditSink(adminauth.NewJSONWriterSink(os.Stdout))

	if cfg.RedisAddr != "" {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	defer engine.Close()

	handler := httpapi.NewHandler(engine, marketplace, cfg)
	root := otelhttp.NewHandler(httpapi.LoggingMiddleware(handler.Routes()), "adminauth")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("admin API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openStore(cfg config.Config, authCfg adminauth.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		mem := store.NewMemoryStore()
		hasher, err := password.NewHasher(password.Config(authCfg.Password))
		if err != nil {
			return nil, nil, err
		}
		if err := store.SeedDemo(mem, hasher); err != nil {
			return nil, nil, err
		}
		log.Print("using seeded in-memory marketplace store")
		return mem, func() {}, nil
	}

	if err := migrate(cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return goose.UpContext(ctx, db, ".")
}
