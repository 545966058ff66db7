package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/Solvro/backend-testownik-sub000/internal/config"
	"github.com/Solvro/backend-testownik-sub000/internal/infra/memory"
	"github.com/Solvro/backend-testownik-sub000/internal/infra/notify"
	"github.com/Solvro/backend-testownik-sub000/internal/infra/postgres"
	"github.com/Solvro/backend-testownik-sub000/internal/infra/profile"
	redisinfra "github.com/Solvro/backend-testownik-sub000/internal/infra/redis"
	transport "github.com/Solvro/backend-testownik-sub000/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var (
		sessions app.SessionRepository
		quizzes  app.QuizRepository
		attempts app.AttemptRepository
		reader   app.ProgressReader
		shares   app.ShareRepository
		folders  app.FolderRepository
		assets   app.AssetStore
		atomic   app.Atomic
	)
	if cfg.Postgres.URL != "" {
		db := postgres.NewDB(cfg.Postgres.URL)
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		sessions = postgres.NewSessionRepository(db)
		quizzes = postgres.NewQuizRepository(db)
		attempts = postgres.NewAttemptRepository(db)
		reader = postgres.NewProgressReader(pool)
		shares = postgres.NewShareRepository(db)
		folders = postgres.NewFolderRepository(db)
		assets = postgres.NewAssetStore(db)
		atomic = db
	} else {
		log.Printf("postgres not configured, running on in-memory storage")
		store := memory.NewStore()
		attemptLog := memory.NewAttemptLog(store)
		sessions = memory.NewSessionRepository(store)
		quizzes = memory.NewQuizRepository(store)
		attempts = attemptLog
		reader = attemptLog
		shares = memory.NewShareRepository(store)
		folders = memory.NewFolderRepository(store)
		assets = store
		atomic = store
	}

	var settings app.SettingsProvider
	if cfg.Profile.URL != "" {
		ttl := config.Duration(cfg.Profile.CacheTTL, 5*time.Minute)
		settings = profile.NewCached(profile.NewClient(cfg.Profile.URL), ttl)
	} else {
		settings = memory.NewStaticSettings(cfg.Profile.DefaultMaxRepetitions)
	}

	copyLimit, copyWindow := cfg.CopyQuota()
	var limiter app.RateLimiter
	if redisClient != nil {
		limiter = redisinfra.NewRateLimiter(redisClient, copyLimit, copyWindow)
	} else {
		limiter = memory.NewRateLimiter(copyLimit, copyWindow)
	}

	events := app.NewProgressBroadcaster()
	recorder := app.NewRecorder(sessions, quizzes, attempts, settings, atomic).WithBroadcaster(events)
	projector := app.NewProjector(sessions, reader, quizzes)
	cloner := app.NewCloner(quizzes, assets, limiter, atomic)
	sharer := app.NewSharer(quizzes, shares, notify.NewLogNotifier(), atomic)
	folderSvc := app.NewFolders(folders, atomic)

	api := transport.NewAPI(recorder, projector, cloner, sharer, folderSvc, events)
	handler := api.Handler(transport.RouterConfig{
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		Maintenance: cfg.Maintenance,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
