package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/placementprep/interview-backend/internal/api"
	assessmentapi "github.com/placementprep/interview-backend/internal/api/assessment"
	chatapi "github.com/placementprep/interview-backend/internal/api/chat"
	"github.com/placementprep/interview-backend/internal/config"
	"github.com/placementprep/interview-backend/internal/integration/generation"
	"github.com/placementprep/interview-backend/internal/pkg/formatter"
	"github.com/placementprep/interview-backend/internal/pkg/validator"
	"github.com/placementprep/interview-backend/internal/repository"
	"github.com/placementprep/interview-backend/internal/usecase/assessment"
	"github.com/placementprep/interview-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	assessmentRepo := repository.NewAssessmentPostgres(db)
	interviewRepo := repository.NewInterviewPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize the generation connector (with mock support)
	var assessmentGen assessment.GenerationConnector
	var chatGen chat.GenerationConnector

	if cfg.EnableMocks {
		logger.Info("Using mock generation connector")
		mock := generation.NewMockConnector(logger)
		assessmentGen = mock
		chatGen = mock
	} else {
		logger.Info("Using real generation connector")
		connector := generation.NewConnector(cfg.GenerationCfg, logger)
		assessmentGen = connector
		chatGen = connector
	}

	// Initialize validator and formatters
	requestValidator := validator.New()
	formatters := formatter.NewFactory()
	logger.Info("Validators initialized")

	// Live conversation store with a single background sweeper
	chatStore := chat.NewStore(cfg.ChatSessionTTL, cfg.ChatSlidingExpiry)
	chatStore.Run(cfg.ChatSweepInterval)
	logger.Info("Chat store sweeper started",
		zap.Duration("ttl", cfg.ChatSessionTTL),
		zap.Duration("sweep_interval", cfg.ChatSweepInterval),
		zap.Bool("sliding_expiry", cfg.ChatSlidingExpiry),
	)

	// Initialize use cases
	assessmentUC := assessment.NewUsecase(
		assessmentRepo,
		assessmentGen,
		requestValidator,
		formatters,
		logger,
		cfg.CodingTimeLimit,
	)

	chatUC := chat.NewUsecase(
		interviewRepo,
		chatStore,
		chatGen,
		requestValidator,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	assessmentHandler := assessmentapi.NewHandler(assessmentUC)
	chatHandler := chatapi.NewHandler(chatUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(assessmentHandler, chatHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:    server,
		db:        db,
		chatStore: chatStore,
		logger:    logger,
	}, nil
}
