package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	authmod "github.com/dmitrymomot/authkit/modules/auth"
	usermod "github.com/dmitrymomot/authkit/modules/user"
	"github.com/dmitrymomot/authkit/pgstore"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/email"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/metrics"
	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/pkg/ratelimit"
	"github.com/dmitrymomot/authkit/pkg/rbac"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/pkg/upload"
	"github.com/dmitrymomot/authkit/svc/auth"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	ResetBaseURL string `env:"RESET_BASE_URL" envDefault:"http://localhost:8080/reset-password"`

	GlobalRateLimit  int           `env:"RATE_LIMIT_GLOBAL" envDefault:"100"`
	AuthRateLimit    int           `env:"RATE_LIMIT_AUTH" envDefault:"5"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	UseRedisLimiter  bool          `env:"RATE_LIMIT_USE_REDIS" envDefault:"false"`

	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/files/"`
	UseS3Uploads  bool   `env:"UPLOAD_USE_S3" envDefault:"false"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	appCfg := config.MustLoad[appConfig]()

	logOpts := []logger.Option{}
	if appCfg.Environment == "development" {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	log := logger.New("authkit", logOpts...)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, config.MustLoad[pg.Config]())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgstore.Migrations(), log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	store := pgstore.NewUserStore(pool)

	tokens, err := jwt.New(config.MustLoad[jwt.Config]())
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	mailer, err := buildMailer(log)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	storage, err := buildStorage(ctx, appCfg)
	if err != nil {
		return fmt.Errorf("init upload storage: %w", err)
	}

	authSvc := auth.NewService(store, password.New(password.DefaultCost), tokens, mailer,
		auth.WithLogger(log),
		auth.WithMetrics(collector),
		auth.WithResetBaseURL(appCfg.ResetBaseURL),
	)

	globalLimiter, authLimiter, limiterClose, err := buildLimiters(ctx, appCfg)
	if err != nil {
		return fmt.Errorf("init rate limiters: %w", err)
	}
	defer limiterClose()

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware(collector))
	router.Use(ratelimit.Middleware(globalLimiter, ratelimit.ByClientIP("global"),
		ratelimit.WithRejectionHook(func(*http.Request) { collector.RecordRateLimitRejection("global") }),
	))

	router.Get("/health", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))
	router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	router.Mount("/", authmod.Router(authSvc,
		authmod.WithLogger(log),
		authmod.WithLimiter(ratelimit.Middleware(authLimiter, ratelimit.ByClientIP("auth"),
			ratelimit.WithRejectionHook(func(*http.Request) { collector.RecordRateLimitRejection("auth") }),
		)),
	))
	router.Mount("/users", usermod.Router(store, tokens, storage, usermod.WithLogger(log)))

	// Deleting accounts is the only admin surface so far; keep the role
	// constant referenced here so misconfigured tokens fail loudly in dev.
	log.InfoContext(ctx, "server configured",
		"environment", appCfg.Environment,
		"admin_role", rbac.RoleAdmin.String(),
	)

	srv := httpserver.New(config.MustLoad[httpserver.Config](), log)
	return srv.Run(ctx, router)
}

// buildMailer returns the Postmark sender when tokens are configured and
// the log-only sender otherwise, so development needs no mail account.
func buildMailer(log *slog.Logger) (email.Sender, error) {
	cfg, err := config.Load[email.Config]()
	if err != nil || cfg.PostmarkServerToken == "" {
		log.Warn("postmark not configured, using dev email sender")
		return email.NewDevSender(log), nil
	}
	return email.NewPostmarkSender(cfg)
}

func buildStorage(ctx context.Context, appCfg appConfig) (upload.Storage, error) {
	if appCfg.UseS3Uploads {
		return upload.NewS3Storage(ctx, config.MustLoad[upload.S3Config]())
	}
	return upload.NewLocalStorage(appCfg.UploadDir, appCfg.UploadBaseURL)
}

// buildLimiters picks the Redis store when configured so limits hold
// across replicas, falling back to the in-process store.
func buildLimiters(ctx context.Context, appCfg appConfig) (global, authLim ratelimit.Limiter, closeFn func(), err error) {
	var store ratelimit.Store
	closeFn = func() {}

	if appCfg.UseRedisLimiter {
		client, err := redis.Connect(ctx, config.MustLoad[redis.Config]())
		if err != nil {
			return nil, nil, nil, err
		}
		store = ratelimit.NewRedisStore(client)
		closeFn = func() { _ = client.Close() }
	} else {
		memStore := ratelimit.NewMemoryStore()
		store = memStore
		closeFn = func() { _ = memStore.Close() }
	}

	global, err = ratelimit.NewFixedWindow(store, appCfg.GlobalRateLimit, appCfg.RateLimitWindow)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	authLim, err = ratelimit.NewFixedWindow(store, appCfg.AuthRateLimit, appCfg.RateLimitWindow)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return global, authLim, closeFn, nil
}
