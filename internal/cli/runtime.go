package cli

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"student-app/internal/app"
	"student-app/internal/config"
	"student-app/internal/infra/memory"
	pgsource "student-app/internal/infra/postgres"
	rediscache "student-app/internal/infra/redis"
	"student-app/internal/infra/remote"
	"student-app/internal/infra/sqlite"
	"student-app/internal/logger"
)

// runtime holds the wired dependencies of one command invocation.
type runtime struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *sqlite.Store
	service *app.LearningService
	closers []func()
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.dbPath != "" {
		cfg.Store.Path = opts.dbPath
	}
	if opts.port != "" {
		cfg.Server.Port = opts.port
	}
	return cfg, nil
}

func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: logger.Setup(cfg.Log.Level, cfg.Log.Format)}

	rt.store, err = sqlite.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = rt.store.Close() })

	var source app.ModuleSource
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		source = pgsource.NewModuleSource(pool)
	case cfg.Remote.BaseURL != "":
		source = remote.NewClient(cfg.Remote.BaseURL, config.TTLDuration(cfg.Remote.Timeout, 15*time.Second))
	}

	progressTTL := config.TTLDuration(cfg.Progress.TTL, time.Minute)
	var progress app.ProgressRepository
	var sessions app.SessionRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		progress = rediscache.NewProgressCache(client, rt.store, progressTTL)
		sessions = rediscache.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		progress = memory.NewProgressCache(rt.store, progressTTL)
		sessions = memory.NewSessionStore()
	}

	rt.service = app.NewLearningService(rt.store, source, progress, sessions, rt.log)
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
