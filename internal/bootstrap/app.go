package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/health"
	"agri-backend/internal/irrigation"
	"agri-backend/internal/profiles"
	"agri-backend/internal/recommend"
	"agri-backend/internal/rulesource"
	"agri-backend/internal/shared/auth"
	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/server"
	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/storage/db"
	"agri-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Engine            *recommend.Engine
	Sensors           *irrigation.Simulator
	Pumps             *irrigation.PumpBoard
	ProfilesRepo      profiles.Repo
	ProfilesService   *profiles.Service
	HealthHandler     *health.Handler
	RecommendHandler  *recommend.Handler
	IrrigationHandler *irrigation.Handler
	ProfilesHandler   *profiles.Handler
}

// Build prepares dependencies and the router. It does not start the sensor
// simulator; call RunBackground for that.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	engine, err := rulesource.LoadEngine(ctx, cfg.RulesFile, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if cfg.RulesFile != "" {
		telemetry.Info("bootstrap.rules.loaded", map[string]any{
			"source": cfg.RulesFile,
			"rules":  engine.Table().RuleCount(),
		})
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Env == "production")
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Engine:  engine,
		Sensors: irrigation.NewSimulator(cfg.SensorInterval, uint64(time.Now().UnixNano())),
		Pumps:   irrigation.NewPumpBoard(),
	}
	if sqlDB != nil {
		app.ProfilesRepo = &profiles.PGRepo{DB: sqlDB}
	} else {
		app.ProfilesRepo = profiles.NewMemoryRepo()
	}
	app.ProfilesService = profiles.NewService(app.ProfilesRepo)

	app.HealthHandler = health.NewHandler(health.NewService(sqlDB, cfg.DB.PingTimeout))
	app.RecommendHandler = recommend.NewHandler(engine)
	app.IrrigationHandler = irrigation.NewHandler(app.Sensors, app.Pumps)
	app.ProfilesHandler = profiles.NewHandler(app.ProfilesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Verifier: verifier,
		Limiter:  middleware.NewRateLimiter(nil),
		Handlers: []server.RouteRegistrar{
			app.HealthHandler,
			app.RecommendHandler,
			app.IrrigationHandler,
			app.ProfilesHandler,
		},
	})
	return app, nil
}

// RunBackground starts the sensor simulator until ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	go func() {
		_ = a.Sensors.Run(ctx)
	}()
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	opts := db.OptionsFrom(cfg.DB)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts.ForLambda())
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"error": err})
			if sqlDB != nil && !db.IsLambdaRuntime() {
				_ = sqlDB.Close()
			}
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}
