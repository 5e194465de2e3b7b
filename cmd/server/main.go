package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pulsehq/pulse/modules/account"
	"github.com/pulsehq/pulse/pkg/auth"
	"github.com/pulsehq/pulse/pkg/config"
	"github.com/pulsehq/pulse/pkg/httpserver"
	"github.com/pulsehq/pulse/pkg/logger"
	"github.com/pulsehq/pulse/pkg/mongo"
	"github.com/pulsehq/pulse/pkg/redis"
	"github.com/pulsehq/pulse/pkg/session"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`       // Env selects logger output: json for production, text otherwise.
	SessionStore string `env:"SESSION_STORE" envDefault:"mongo"`       // SessionStore selects the session backend: mongo or redis.
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"0"`             // BcryptCost overrides the password hashing cost; zero keeps the default.
	ServiceName  string `env:"SERVICE_NAME" envDefault:"pulse-server"` // ServiceName tags every log record.
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)
	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)
	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, appCfg.ServiceName))

	db, err := mongo.ConnectDatabase(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("mongo connection failed: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongo client", logger.Error(err))
		}
	}()
	readiness := auth.ReadinessCheck(mongo.Healthcheck(db.Client()))

	userStore := auth.NewMongoUserStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user index setup failed: %w", err)
	}

	sessionStore, err := newSessionStore(ctx, appCfg, db, log)
	if err != nil {
		return err
	}

	sessions := session.NewManager(sessionStore,
		session.WithDefaultLifetimeDays(sessionCfg.TimeoutDays),
		session.WithLogger(log),
	)

	sweeper := session.NewSweeper(sessions, session.WithSweeperLogger(log))
	sweeper.Start(ctx)
	defer sweeper.Stop()

	passwords := auth.NewPasswordService(userStore,
		auth.WithPasswordLogger(log),
		auth.WithBcryptCost(appCfg.BcryptCost),
	)

	accountSvc := account.NewService(passwords, sessions, userStore,
		account.WithReadiness(readiness),
		account.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Mount("/api/auth", accountSvc.Handle())

	log.Info("starting http server",
		"addr", httpCfg.Addr,
		"session_store", appCfg.SessionStore,
		"environment", appCfg.Env,
	)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// newSessionStore picks the session backend. Mongo is the default; Redis is
// opt-in for deployments that want session churn off the primary database.
func newSessionStore(ctx context.Context, cfg appConfig, db *mongodriver.Database, log *slog.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case "", "mongo":
		store := session.NewMongoStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("session index setup failed: %w", err)
		}
		return store, nil
	case "redis":
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info("using redis session store")
		return session.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
