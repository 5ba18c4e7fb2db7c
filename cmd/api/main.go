// Command api serves the blog HTTP API.
//
// @title        Blog API
// @version      1.0
// @description  Registration, cookie sessions and posts with image covers.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkpost/blog-api/internal/api"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/core/service"
	mongodb "github.com/inkpost/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpost/blog-api/internal/infrastructure/db/redis"
	"github.com/inkpost/blog-api/internal/infrastructure/queue"
	"github.com/inkpost/blog-api/internal/infrastructure/storage"
	"github.com/inkpost/blog-api/internal/infrastructure/token"
	"github.com/inkpost/blog-api/internal/pkg/config"
	"github.com/inkpost/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "blog-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	users := mongodb.NewUserRepository(db)
	posts := mongodb.NewPostRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, posts); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	checks := []handler.DependencyCheck{
		{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
		{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}

	covers, coverCheck, err := newCoverStorage(ctx, cfg)
	if err != nil {
		return err
	}
	if coverCheck != nil {
		checks = append(checks, *coverCheck)
	}

	// --- Services ---
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	janitor := queue.NewJanitor(cfg.Uploads.Janitors, covers, logger.For("cover-janitor"))
	janitor.Start(ctx)

	if cfg.DeleteRequiresAuthor {
		log.Info().Msg("DELETE /posts/:id requires the post author")
	} else {
		log.Warn().Msg("DELETE /posts/:id is open to unauthenticated callers; set POSTS_DELETE_REQUIRES_AUTHOR=true to restrict it")
	}

	e := api.NewRouter(api.Dependencies{
		Auth: service.NewAuthService(users, codec, redisdb.NewRevocationList(rdb), logger.For("auth")),
		Posts: service.NewPostService(posts, janitor, logger.For("posts"),
			service.WithDeleteRequiresAuthor(cfg.DeleteRequiresAuthor)),
		Covers:               service.NewCoverService(covers, cfg.Uploads.MaxBytes, logger.For("covers")),
		HealthChecks:         checks,
		FrontendURL:          cfg.FrontendURL,
		CookieSecure:         cfg.Auth.CookieSecure,
		DeleteRequiresAuthor: cfg.DeleteRequiresAuthor,
		MaxUploadBytes:       cfg.Uploads.MaxBytes,
		Logger:               logger.For("http"),
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Uploads.Backend).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// newCoverStorage builds the configured cover backend, plus a readiness check
// when the backend is remote.
func newCoverStorage(ctx context.Context, cfg *config.Config) (ports.CoverStorage, *handler.DependencyCheck, error) {
	if cfg.Uploads.Backend == config.BackendMinio {
		m, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Region:    cfg.Minio.Region,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return m, &handler.DependencyCheck{Name: "minio", Ping: m.Ping}, nil
	}

	l, err := storage.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		return nil, nil, err
	}
	return l, nil, nil
}
