// Package server initializes and runs the todo API server. It validates the
// configuration, opens the configured store, builds the services and serves
// HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/config"
	"github.com/dmitrijs2005/todoapi/internal/server/httpapi"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/memory"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/dmitrijs2005/todoapi/internal/telemetry"
)

// tracerShutdownTimeout bounds the final span flush.
const tracerShutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	server  *httpapi.Server
	closers []func() error
}

// NewApp validates c and builds every component. Any error here is a
// startup failure.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(c.HashCost)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewTokenIssuer(c.SecretKey, c.TokenTTL)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}

	shutdownTracer, err := telemetry.Init(ctx, telemetry.Config{Endpoint: c.OTLPEndpoint}, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		return shutdownTracer(ctx)
	})

	repos, err := app.openStore(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	us, err := services.NewUserService(repos, hasher, issuer, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	ts := services.NewTodoService(repos, logger)
	authn := auth.NewAuthenticator(issuer, repos.Tokens(), repos.Users(), logger)

	gin.SetMode(c.GinMode)
	router := httpapi.NewRouter(&httpapi.Handler{
		Users:  us,
		Todos:  ts,
		Auth:   authn,
		Logger: logger,
	}, c.AllowedOrigins())

	// The router renames each span to its route once gin has matched it.
	handler := otelhttp.NewHandler(router, "todoapi",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
	)

	app.server = httpapi.NewServer(c.HTTPAddr, handler, logger, c.ShutdownTimeout)
	return app, nil
}

// openStore returns the in-memory store when no DSN is configured, and a
// migrated PostgreSQL store otherwise, optionally with tokens in Redis.
func (app *App) openStore(ctx context.Context) (repomanager.RepositoryManager, error) {
	c := app.config
	if c.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, using in-memory store")
		return memory.NewStore(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	var opts []repomanager.Option
	if c.TokenBackend == config.TokenBackendRedis {
		redisOpts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		app.closers = append(app.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping error: %w", err)
		}
		opts = append(opts, repomanager.WithTokenRepository(tokens.NewRedisRepository(rdb, c.TokenTTL)))
	}

	m := repomanager.NewPostgresRepositoryManager(db, opts...)
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return m, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the store connections.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	app.close()
	app.logger.Info(ctx, "App stopped")
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		z.Sync()
	}
	return err
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i]()
	}
	app.closers = nil
}
