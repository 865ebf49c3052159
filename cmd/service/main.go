package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropDatabas3/rescuetrack/internal/blob"
	"github.com/dropDatabas3/rescuetrack/internal/cache"
	"github.com/dropDatabas3/rescuetrack/internal/config"
	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/events"
	httpx "github.com/dropDatabas3/rescuetrack/internal/http"
	"github.com/dropDatabas3/rescuetrack/internal/http/controllers"
	authsvc "github.com/dropDatabas3/rescuetrack/internal/http/services/auth"
	casessvc "github.com/dropDatabas3/rescuetrack/internal/http/services/cases"
	collabsvc "github.com/dropDatabas3/rescuetrack/internal/http/services/collaboration"
	photossvc "github.com/dropDatabas3/rescuetrack/internal/http/services/photos"
	jwtx "github.com/dropDatabas3/rescuetrack/internal/jwt"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/rate"
	"github.com/dropDatabas3/rescuetrack/internal/store/memory"
	"github.com/dropDatabas3/rescuetrack/internal/store/pg"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvOnly    = flag.Bool("env", false, "usar SOLO env (y .env si se pasa -env-file)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
	)
	flag.Parse()

	if *flagEnvFile != "" && (fileExists(*flagEnvFile) || *flagEnvOnly) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	var cfg *config.Config
	var err error
	if *flagEnvOnly {
		cfg, err = config.FromEnv()
	} else {
		cfgPath := *flagConfigPath
		if cfgPath == "" {
			cfgPath = os.Getenv("CONFIG_PATH")
		}
		if cfgPath == "" {
			if fileExists("configs/config.yaml") {
				cfgPath = "configs/config.yaml"
			} else {
				cfgPath = "configs/config.example.yaml"
			}
		}
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.Log.Env,
		Level:       cfg.Log.Level,
		ServiceName: "rescuetrack",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───── Storage ─────
	var (
		store  repository.Store
		pinger controllers.Pinger
		poolFn func() *pgxpool.Pool
	)
	if strings.EqualFold(cfg.Storage.Driver, "postgres") {
		pgStore, err := pg.Connect(ctx, pg.Config{
			DSN:          cfg.Storage.DSN,
			MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		})
		if err != nil {
			log.Fatalf("pg connect: %v", err)
		}
		defer pgStore.Close()

		if cfg.Flags.Migrate {
			if err := pgStore.RunMigrations(ctx, "migrations/postgres"); err != nil {
				log.Fatalf("migrations: %v", err)
			}
		}
		store = pgStore
		pinger = pgStore
		poolFn = pgStore.Pool
	} else {
		logger.L().Warn("storage: driver memory, los datos no sobreviven un reinicio")
		store = memory.New()
	}

	// ───── JWT ─────
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.SigningSeed, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("jwt issuer: %v", err)
	}

	// ───── Rate limiter ─────
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if strings.EqualFold(cfg.Cache.Kind, "redis") {
			rc := rdb.NewClient(&rdb.Options{
				Addr: cfg.Cache.Redis.Addr,
				DB:   cfg.Cache.Redis.DB,
			})
			defer func() { _ = rc.Close() }()
			limiter = rate.NewRedisLimiter(rc, cfg.Cache.Redis.Prefix+"rl:")
		} else {
			limiter = rate.NewMemoryLimiter()
		}
	}

	// ───── Blob storage ─────
	var blobs blob.Store
	if strings.EqualFold(cfg.Blob.Kind, "s3") {
		blobs, err = blob.NewS3Store(ctx, blob.S3Config{
			Region:       cfg.Blob.S3.Region,
			Bucket:       cfg.Blob.S3.Bucket,
			BaseEndpoint: cfg.Blob.S3.Endpoint,
			AccessKey:    cfg.Blob.S3.AccessKey,
			SecretKey:    cfg.Blob.S3.SecretKey,
			PublicURL:    cfg.Blob.S3.PublicURL,
		})
		if err != nil {
			log.Fatalf("blob s3: %v", err)
		}
	} else {
		blobs = blob.NewMemoryStore()
	}

	// ───── Cache (agregados públicos) ─────
	cacheClient, err := cache.New(cache.Config{
		Driver: cfg.Cache.Kind,
		Addr:   cfg.Cache.Redis.Addr,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Redis.Prefix + "cache",
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	defer func() { _ = cacheClient.Close() }()

	// ───── Event hub ─────
	hub := events.Init()
	defer events.Shutdown()

	// ───── Services / controllers ─────
	authService := authsvc.New(authsvc.Deps{
		Store:      store,
		Issuer:     issuer,
		RefreshTTL: cfg.RefreshTTL(),
	})
	casesService := casessvc.New(casessvc.Deps{Store: store, Dispatcher: hub, Cache: cacheClient})
	collabService := collabsvc.New(collabsvc.Deps{Store: store})
	photosService := photossvc.New(photossvc.Deps{Store: store, Blobs: blobs})

	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{DBPool: poolFn})
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	handler := httpx.NewRouter(httpx.RouterDeps{
		Issuer:         issuer,
		Limiter:        limiter,
		Auth:           controllers.NewAuthController(authService),
		Cases:          controllers.NewCasesController(casesService),
		Collaboration:  controllers.NewCollaborationController(collabService),
		Photos:         controllers.NewPhotosController(photosService),
		Realtime:       controllers.NewRealtimeController(hub),
		Health:         controllers.NewHealthController(pinger),
		Metrics:        metricsHandler,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	// Barrido periódico de refresh tokens vencidos
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := authService.SweepExpired(ctx); err != nil {
					logger.L().Warn("token sweep failed", zap.Error(err))
				} else if n > 0 {
					logger.L().Info("token sweep", zap.Int64("removed", n))
				}
			}
		}
	}()

	logger.L().Info("service up",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("blob", cfg.Blob.Kind),
		zap.Bool("rate_limit", limiter != nil),
	)

	srv := httpx.NewServer(cfg.Server.Addr, handler)
	if err := srv.Start(ctx, cfg.ShutdownTimeout()); err != nil {
		log.Fatalf("http: %v", err)
	}
}
