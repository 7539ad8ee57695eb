package main

import (
	"context"
	"log"
	"net/http"
	"time"

	staticactivity "famiverse/internal/adapter/activity/static"
	httpadapter "famiverse/internal/adapter/http"
	gormjournal "famiverse/internal/adapter/journal/gorm"
	metricsinmem "famiverse/internal/adapter/metrics/inmemory"
	"famiverse/internal/adapter/metrics/prom"
	"famiverse/internal/adapter/sched/redisq"
	redisstore "famiverse/internal/adapter/store/redis"
	statictraits "famiverse/internal/adapter/traits/static"
	"famiverse/internal/app/care"
	"famiverse/internal/app/evolution"
	"famiverse/internal/app/familiars"
	"famiverse/internal/app/mutation"
	"famiverse/internal/app/ports"
	"famiverse/internal/app/replay"
	"famiverse/internal/domain/familiar"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type config struct {
	ListenAddr    string        `env:"FAMIVERSE_LISTEN_ADDR" envDefault:":8080"`
	MetricsAddr   string        `env:"FAMIVERSE_METRICS_ADDR" envDefault:":9090"`
	RedisAddr     string        `env:"FAMIVERSE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"FAMIVERSE_REDIS_PASSWORD"`
	DBDSN         string        `env:"FAMIVERSE_DB_DSN,required"`
	MigrationsDir string        `env:"FAMIVERSE_MIGRATIONS_DIR" envDefault:"./migrations"`
	CareCooldown  time.Duration `env:"FAMIVERSE_CARE_COOLDOWN" envDefault:"5m"`
	ActivityRoot  string        `env:"FAMIVERSE_ACTIVITY_ROOT"`
	TraitCatalog  string        `env:"FAMIVERSE_TRAIT_CATALOG"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := gormjournal.OpenPostgres(cfg.DBDSN)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}
	if err := gormjournal.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	journal := gormjournal.NewEventRepo(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("ping redis", zap.Error(err))
	}

	store := redisstore.New(rdb, logger)
	familiarStore := redisstore.NewFamiliarStore(store)
	cooldownStore := redisstore.NewCooldownStore(store)
	sessionStore := redisstore.NewSessionStore(store)

	kpiRecorder := metricsinmem.NewRecorder()
	promRecorder := prom.NewRecorder(prometheus.DefaultRegisterer)
	metrics := fanoutMetrics{kpiRecorder, promRecorder}

	var activity ports.ActivityProvider
	if cfg.ActivityRoot != "" {
		activity = staticactivity.Provider{Root: cfg.ActivityRoot}
	}
	var traits ports.TraitOptionProvider
	if cfg.TraitCatalog != "" {
		traits = statictraits.Provider{Path: cfg.TraitCatalog}
	}

	familiarsUC := familiars.UseCase{
		Store:   familiarStore,
		Journal: journal,
		Metrics: metrics,
		Log:     logger,
	}
	careUC := care.UseCase{
		Familiars: familiarsUC,
		Store:     familiarStore,
		Cooldowns: cooldownStore,
		Journal:   journal,
		Metrics:   metrics,
		Log:       logger,
		Cooldown:  cfg.CareCooldown,
	}
	mutationUC := mutation.UseCase{
		Store:    familiarStore,
		Sessions: sessionStore,
		Journal:  journal,
		Metrics:  metrics,
		Activity: activity,
		Traits:   traits,
		Log:      logger,
	}

	sched := redisq.New(rdb, logger)
	cycles := evolution.Cycles{
		Sched:     sched,
		Store:     familiarStore,
		Familiars: familiarsUC,
		Care:      careUC,
		Mutations: mutationUC,
		Journal:   journal,
		Metrics:   metrics,
		Log:       logger,
	}
	sched.Register(evolution.JobEvolutionCycle, cycles.OnEvolutionCycle)
	sched.Register(evolution.JobCareDecay, cycles.OnCareDecay)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	go serveMetrics(cfg.MetricsAddr, logger)

	h := httpadapter.Handler{
		FamiliarsUC: familiarsUC,
		CareUC:      careUC,
		MutationUC:  mutationUC,
		ReplayUC:    replay.UseCase{Events: journal},
		Cycles:      cycles,
		KPI:         kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.ListenAddr))
	s.Use(httpadapter.CORSMiddleware())
	h.RegisterRoutes(s)

	logger.Info("famiverse server listening", zap.String("addr", cfg.ListenAddr))
	s.Spin()
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", zap.Error(err))
	}
}

// fanoutMetrics forwards each recording to every backing recorder.
type fanoutMetrics []ports.Metrics

func (f fanoutMetrics) RecordCareAction(action familiar.CareAction, ok bool) {
	for _, m := range f {
		m.RecordCareAction(action, ok)
	}
}

func (f fanoutMetrics) RecordMutation(t familiar.MutationType) {
	for _, m := range f {
		m.RecordMutation(t)
	}
}

func (f fanoutMetrics) RecordCycle() {
	for _, m := range f {
		m.RecordCycle()
	}
}

func (f fanoutMetrics) RecordRemoval() {
	for _, m := range f {
		m.RecordRemoval()
	}
}
