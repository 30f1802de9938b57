package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/tutor-backend/internal/api"
	authapi "github.com/futig/tutor-backend/internal/api/auth"
	chatapi "github.com/futig/tutor-backend/internal/api/chat"
	classroomapi "github.com/futig/tutor-backend/internal/api/classroom"
	documentapi "github.com/futig/tutor-backend/internal/api/document"
	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/embedding"
	"github.com/futig/tutor-backend/internal/integration/llm"
	"github.com/futig/tutor-backend/internal/integration/objectstorage"
	"github.com/futig/tutor-backend/internal/pkg/auth"
	"github.com/futig/tutor-backend/internal/pkg/formatter"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/futig/tutor-backend/internal/rag/chunker"
	"github.com/futig/tutor-backend/internal/rag/index"
	"github.com/futig/tutor-backend/internal/rag/scope"
	"github.com/futig/tutor-backend/internal/rag/store"
	"github.com/futig/tutor-backend/internal/repository"
	authuc "github.com/futig/tutor-backend/internal/usecase/auth"
	"github.com/futig/tutor-backend/internal/usecase/chat"
	"github.com/futig/tutor-backend/internal/usecase/classroom"
	"github.com/futig/tutor-backend/internal/usecase/document"
	"github.com/futig/tutor-backend/internal/usecase/grading"
	"go.uber.org/zap"
)

// mockEmbeddingDimension matches the default remote embedding model.
const mockEmbeddingDimension = 768

type objectBackend interface {
	store.ObjectStorage
	EnsureBucket(ctx context.Context) error
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	log.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserPostgres(db)
	documentRepo := repository.NewDocumentPostgres(db)
	chatRepo := repository.NewChatPostgres(db)
	classroomRepo := repository.NewClassroomPostgres(db)
	log.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var (
		objects       objectBackend
		embedder      index.Embedder
		registrations []llm.Registration
	)

	if cfg.EnableMocks {
		log.Info("Using mock connectors for external services")
		objects = objectstorage.NewMemoryStorage()
		embedder = embedding.NewMockEmbedder(mockEmbeddingDimension)
		registrations = llm.MockRegistrations(cfg.LLMCfg)
	} else {
		log.Info("Using real connectors for external services")
		minioConnector, err := objectstorage.NewConnector(cfg.ObjectStorageCfg, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("setup object storage: %w", err)
		}
		objects = minioConnector
		embedder = embedding.NewConnector(cfg.EmbeddingCfg, cfg.LLMCfg.HTTPClientConfig)
		registrations = llm.DefaultRegistrations(cfg.LLMCfg, log)
	}

	if err := objects.EnsureBucket(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure object storage bucket: %w", err)
	}

	// Retrieval pipeline
	indexStore := store.New(objects, &cfg.ObjectStorageCfg.Retry)
	quota := store.NewQuota(indexStore, cfg.StorageLimitMB)
	textChunker, err := chunker.New(chunker.Config{
		Size:     cfg.RAGCfg.ChunkSize,
		Overlap:  cfg.RAGCfg.ChunkOverlap,
		Strategy: chunker.Strategy(cfg.RAGCfg.ChunkStrategy),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup chunker: %w", err)
	}
	resolver := scope.NewResolver(indexStore, documentRepo, embedder, cfg.RAGCfg.MaxScopeLoads)
	dispatcher := llm.NewDispatcher(registrations, cfg.LLMCfg.RequestTimeout)
	log.Info("Retrieval pipeline initialized",
		zap.String("chunk_strategy", cfg.RAGCfg.ChunkStrategy),
		zap.Int("top_k", cfg.RAGCfg.TopK),
	)

	// Initialize validators and token service
	requestValidator := validator.New(cfg.FileUploadCfg)
	jwtService := auth.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.Issuer, cfg.AuthCfg.TokenTTL)

	// Initialize use cases
	authUC := authuc.NewUsecase(userRepo, jwtService, log)
	chatUC := chat.NewUsecase(chatRepo, resolver, dispatcher, cfg.RAGCfg.TopK, log)
	documentUC := document.NewUsecase(documentRepo, indexStore, quota, textChunker, embedder, requestValidator, log)
	classroomUC := classroom.NewUsecase(classroomRepo, log)
	gradingUC := grading.NewUsecase(classroomRepo, dispatcher, entity.ProviderID(cfg.GradingProvider), log)
	log.Info("Use cases initialized")

	// Setup API handlers
	handlers := api.Handlers{
		Auth:      authapi.NewHandler(authUC, requestValidator),
		Chat:      chatapi.NewHandler(chatUC, requestValidator, formatter.NewFactory()),
		Document:  documentapi.NewHandler(documentUC, cfg.FileUploadCfg),
		Classroom: classroomapi.NewHandler(classroomUC, gradingUC, requestValidator),
	}
	log.Info("API handlers initialized")

	// Chat and grading wait for the provider, so the request budget follows the LLM timeout.
	requestTimeout := cfg.LLMCfg.RequestTimeout + 30*time.Second

	// Setup router
	router := api.SetupRouter(handlers, jwtService, requestTimeout, log)
	log.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		db:              db,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}, nil
}
