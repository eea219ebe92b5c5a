package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/agency-project-tracker/internal/config"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/database"
	"github.com/yukikurage/agency-project-tracker/internal/handlers"
	"github.com/yukikurage/agency-project-tracker/internal/jobs"
	"github.com/yukikurage/agency-project-tracker/internal/logger"
	"github.com/yukikurage/agency-project-tracker/internal/middleware"
	"github.com/yukikurage/agency-project-tracker/internal/posts"
	"github.com/yukikurage/agency-project-tracker/internal/repository"
	"github.com/yukikurage/agency-project-tracker/internal/services"
	"go.uber.org/zap"
)

// redisPinger adapts a redis client to the health check interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type storage struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	checks   map[string]database.Pinger
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, appLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
	}

	store, err := openStorage(cfg, appLogger, redisClient)
	if err != nil {
		return err
	}

	// Stores
	feed := services.NewNotificationFeed(constants.MaxNotificationFeedLength, appLogger.Named("notifications"))
	identity, err := services.NewIdentityService(ctx, store.users, feed, appLogger.Named("identity"),
		services.WithPasswordVerification(cfg.VerifyPasswords))
	if err != nil {
		return err
	}
	projects, err := services.NewProjectService(ctx, store.projects, feed, appLogger.Named("projects"))
	if err != nil {
		return err
	}

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	renewalWindow := time.Duration(cfg.RenewalWindowDays) * 24 * time.Hour

	// Background reminders
	scheduler := jobs.NewScheduler(appLogger.Named("jobs"))
	reminders := jobs.NewReminderJob(projects, feed, renewalWindow, appLogger.Named("reminders"))
	if err := scheduler.Schedule(cfg.ReminderSchedule, reminders); err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLogger.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(identity),
		Assignees: handlers.NewAssigneeHandler(identity, projects),
		Projects: handlers.NewProjectHandler(projects, identity, services.NewAIService(cfg.OpenAIAPIKey), handlers.ProjectHandlerConfig{
			ScopeAssigneeToProject: cfg.ScopeAssigneeToProject,
			RenewalWindow:          renewalWindow,
		}),
		Track:         handlers.NewTrackHandler(projects),
		Notifications: handlers.NewNotificationHandler(feed),
		Posts: handlers.NewPostHandler(posts.NewClient(cfg.PostsBaseURL,
			time.Duration(cfg.PostsTimeoutSeconds)*time.Second, appLogger.Named("posts"))),
		Health: handlers.NewHealthHandler(store.checks),
	}, identity, projects)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(cfg *config.Config, appLogger *zap.Logger, redisClient *redis.Client) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StorageDatabase:
		db, err := database.Connect(cfg, appLogger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, appLogger); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &storage{
			users:    repository.NewUserRepository(db),
			projects: repository.NewProjectRepository(db),
			checks:   map[string]database.Pinger{"database": sqlDB},
		}, nil
	case config.StorageRedis:
		return &storage{
			users:    repository.NewRedisUserRepository(redisClient),
			projects: repository.NewRedisProjectRepository(redisClient),
			checks:   map[string]database.Pinger{"redis": redisPinger{client: redisClient}},
		}, nil
	default:
		appLogger.Warn("Using in-memory storage; data is lost on restart")
		return &storage{
			users:    repository.NewMemoryUserRepository(),
			projects: repository.NewMemoryProjectRepository(),
			checks:   map[string]database.Pinger{},
		}, nil
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.SessionStore == config.SessionStoreCookie {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		return store, nil
	}

	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		"", // username (empty for default user)
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, err
	}
	store.Options(options)
	return store, nil
}
