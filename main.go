package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/config"
	"github.com/taskhive-inc/taskhive/pkg/database"
	"github.com/taskhive-inc/taskhive/pkg/handlers"
	"github.com/taskhive-inc/taskhive/pkg/middleware"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", cfg.Database.Host))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime(),
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime(),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	markerRepo := repositories.NewMarkerRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	replyRepo := repositories.NewReplyRepository(db)

	// Auth plumbing
	tokens := auth.NewTokenManager(&cfg.Auth)
	cookies := auth.DeriveCookieSettings(cfg.BaseURL, cfg.CookieDomain)
	authMiddleware := auth.NewMiddleware(tokens, userRepo, logger.Named("auth"))

	// Services
	authService := services.NewAuthService(userRepo, tokens, logger.Named("auth_service"))
	userService := services.NewUserService(userRepo, logger.Named("user_service"))
	projectService := services.NewProjectService(projectRepo, userRepo, logger.Named("project_service"))
	taskService := services.NewTaskService(taskRepo, markerRepo, userRepo, projectRepo, logger.Named("task_service"))
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo, logger.Named("comment_service"))
	replyService := services.NewReplyService(replyRepo, commentRepo, logger.Named("reply_service"))
	overviewService := services.NewOverviewService(userRepo, taskRepo, projectRepo, commentRepo, markerRepo, logger.Named("overview_service"))

	mux := http.NewServeMux()

	// Handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, tokens, cookies, logger.Named("auth_handler")).RegisterRoutes(mux, authMiddleware)
	handlers.NewUsersHandler(userService, overviewService, logger.Named("users_handler")).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectsHandler(projectService, logger.Named("projects_handler")).RegisterRoutes(mux, authMiddleware)
	handlers.NewTasksHandler(taskService, overviewService, logger.Named("tasks_handler")).RegisterRoutes(mux, authMiddleware)
	handlers.NewCommentsHandler(commentService, replyService, logger.Named("comments_handler")).RegisterRoutes(mux, authMiddleware)

	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger.Named("http"))(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)(handler)
	handler = middleware.Recovery(logger)(handler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting taskhive",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
