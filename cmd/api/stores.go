package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crucial707/blog-api/internal/config"
	"github.com/crucial707/blog-api/internal/db"
	"github.com/crucial707/blog-api/internal/memstore"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/redis/go-redis/v9"
)

// openStores connects the configured record and session backends. The
// returned close func releases whatever was opened.
func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	var (
		st      stores
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Warn("close backend", "error", err)
			}
		}
	}

	switch cfg.StoreBackend {
	case "memory":
		st = memoryStores()
		slog.Info("using in-memory store")

	default:
		if cfg.DBAutoMigrate {
			version, err := db.Migrate(cfg.DatabaseURL())
			if err != nil {
				return stores{}, nil, err
			}
			slog.Info("database schema ready", "version", version)
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL(), db.Options{
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
		})
		if err != nil {
			return stores{}, nil, err
		}
		closers = append(closers, database.Close)
		st.Users = repo.NewUserRepo(database)
		st.Articles = repo.NewArticleRepo(database)
		st.Comments = repo.NewCommentRepo(database)
		st.Sessions = repo.NewSessionRepo(database)
		st.Backends = append(st.Backends, database)
		slog.Info("connected to postgres", "host", cfg.DBHost, "db", cfg.DBName)
	}

	if cfg.SessionBackend == "redis" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			closeAll()
			return stores{}, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		closers = append(closers, rdb.Close)
		sessions := repo.NewRedisSessionStore(rdb)
		if err := sessions.PingContext(ctx); err != nil {
			closeAll()
			return stores{}, nil, fmt.Errorf("ping redis: %w", err)
		}
		st.Sessions = sessions
		st.Backends = append(st.Backends, sessions)
		slog.Info("sessions stored in redis", "addr", opts.Addr)
	}

	return st, closeAll, nil
}

// memoryStores serves everything from one in-process memstore.DB.
func memoryStores() stores {
	mem := memstore.New()
	return stores{
		Users:    mem.Users(),
		Articles: mem.Articles(),
		Comments: mem.Comments(),
		Sessions: mem.Sessions(),
		Backends: []repo.Pinger{mem},
	}
}
