package app

import (
	"context"
	"log"
	"os"
	"time"

	"skillproof/internal/config"
	"skillproof/internal/database"
	dbpostgres "skillproof/internal/database/postgres"
	"skillproof/internal/database/schema"
	"skillproof/internal/delivery/http/handler"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/delivery/http/routes"
	"skillproof/internal/infrastructure/cache"
	"skillproof/internal/pkg/oauth"
	"skillproof/internal/pkg/token"
	"skillproof/internal/repository"
	"skillproof/internal/usecase"
	"skillproof/internal/ws"
)

// Container owns every long-lived dependency: the connection pool, the cache
// client and the websocket hub, plus the fully wired route registry.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Routes *routes.Registry

	logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := schema.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redis := cache.NewRedis(logger)
	hub := ws.NewHub(logger)

	tokens := token.NewHMACService(cfg.Auth.SessionSecret, cfg.Auth.SessionLifetime)
	google := oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)

	userRepo := repository.NewPostgresUserRepository(db)
	challengeRepo := repository.NewPostgresChallengeRepository(db)
	submissionRepo := repository.NewPostgresSubmissionRepository(db)
	interviewRepo := repository.NewPostgresInterviewRepository(db)

	notifier := ws.NewNotifier(hub)

	authUC := usecase.NewAuthUsecase(userRepo, tokens)
	challengeUC := usecase.NewChallengeUsecase(challengeRepo, redis, logger)
	submissionUC := usecase.NewSubmissionUsecase(submissionRepo, notifier)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, notifier)
	dashboardUC := usecase.NewDashboardUsecase(userRepo, challengeRepo, submissionRepo, interviewRepo)

	authMw := middleware.NewAuthMiddleware(tokens, cfg.Auth.CookieName)

	registry := &routes.Registry{
		Auth:        handler.NewAuthHandler(authUC, google, cfg.Auth),
		Challenges:  handler.NewChallengesHandler(challengeUC),
		Submissions: handler.NewSubmissionsHandler(submissionUC),
		Interviews:  handler.NewInterviewsHandler(interviewUC),
		Dashboard:   handler.NewDashboardHandler(dashboardUC),
		Health:      handler.NewHealthHandler(db, redis),
		WS:          ws.NewHandler(hub, logger),
		AuthMw:      authMw,
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redis,
		Hub:    hub,
		Routes: registry,
		logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
