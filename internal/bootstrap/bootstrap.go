// Package bootstrap builds the application graph from configuration. Both
// the HTTP server and the admin CLI start here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"smartgriev/backend/internal/api"
	"smartgriev/backend/internal/api/handler"
	"smartgriev/backend/internal/auth"
	"smartgriev/backend/internal/complaint"
	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/idgen"
	"smartgriev/backend/internal/localization"
	"smartgriev/backend/internal/metrics"
	"smartgriev/backend/internal/nlp"
	"smartgriev/backend/internal/notification"
	"smartgriev/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Store   storage.Storage
	Metrics *metrics.Metrics

	Classifier    *nlp.KeywordClassifier
	Complaints    *complaint.Service
	Notifications *notification.Service
	Auth          *auth.Service
}

// New connects to the configured backends, migrates the schema, seeds the
// departments on first start and assembles the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	if cfg.Redis.Enabled() {
		rdb, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.Redis = rdb
	}

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := OpenDatabase(cfg.DB)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.DB = db
		svc := storage.NewStorageService(db, app.Redis)
		if err := svc.Migrate(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Store = svc
	default:
		mem := storage.NewMemoryStorage()
		mem.Redis = app.Redis
		app.Store = mem
	}

	if err := SeedDepartments(ctx, app.Store, false); err != nil {
		app.Close()
		return nil, err
	}
	departments, err := app.Store.GetDepartments(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	app.Classifier = nlp.NewKeywordClassifier(RulesFromDepartments(departments), nlp.DefaultDepartment)

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		app.Close()
		return nil, err
	}

	counter, err := newCounter(cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}
	ids := idgen.NewGenerator(cfg.IDPrefix, counter, nil)

	var policy complaint.TransitionPolicy = complaint.OpenPolicy{}
	if cfg.StrictTransitions {
		policy = complaint.NewStrictPolicy()
	}

	app.Complaints = complaint.NewService(app.Store, app.Classifier, ids,
		complaint.WithLogger(logger.Named("complaint")),
		complaint.WithMetrics(app.Metrics),
		complaint.WithLocalizer(localizer),
		complaint.WithPolicy(policy),
	)
	app.Notifications = notification.NewService(app.Store)
	app.Auth = auth.NewService(
		auth.NewLocalProvider(app.Store, cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer),
		app.Store,
		logger.Named("auth"),
	)

	logger.Info("application initialised",
		zap.String("driver", cfg.DatabaseDriver),
		zap.String("sequence_backend", cfg.SequenceBackend),
		zap.Bool("redis", app.Redis != nil),
		zap.Bool("strict_transitions", cfg.StrictTransitions),
		zap.Int("departments", len(departments)),
	)
	return app, nil
}

func newCounter(cfg *config.Config, app *App) (idgen.Counter, error) {
	prefix := cfg.IDPrefix
	seed := func(ctx context.Context, year int) (int64, error) {
		return idgen.LastSequence(ctx, app.Store, prefix, year)
	}

	switch cfg.SequenceBackend {
	case config.SequenceRedis:
		if app.Redis == nil {
			return nil, errors.New("sequence backend redis requires REDIS_ADDR")
		}
		return storage.NewRedisCounter(app.Redis, seed), nil
	case config.SequencePostgres:
		if app.DB == nil {
			return nil, errors.New("sequence backend postgres requires DATABASE_DRIVER=postgres")
		}
		return storage.NewSQLCounter(app.DB, seed), nil
	default:
		return idgen.NewScanCounter(app.Store, prefix), nil
	}
}

// OpenDatabase connects to PostgreSQL with constraint errors translated to
// gorm sentinels.
func OpenDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}
	return db, nil
}

func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect Redis: %w", err)
	}
	return rdb, nil
}

// Router builds the HTTP handler for the app.
func (a *App) Router() *gin.Engine {
	h := handler.NewHandler(a.Complaints, a.Notifications, a.Auth, a.Classifier, a.Store, a.Logger.Named("http"))
	return api.NewRouter(api.RouterConfig{
		Handler:       h,
		Authenticator: a.Auth,
		Metrics:       a.Metrics,
		Logger:        a.Logger.Named("http"),
		CORSOrigins:   a.Config.CORSOrigins,
	})
}

// Server wraps Router in an http.Server with the usual timeouts.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:           ":" + a.Config.Port,
		Handler:        a.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("failed to close Redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
