package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mongodb"
	"taskboard/internal/response"
	"taskboard/internal/storage"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Repos     repository.Repositories
	Images    storage.ImageStore
	Tokens    *auth.Tokens
	Ping      func(ctx context.Context) error
	PublicURL string
	MaxUpload int
}

type Server struct {
	Engine *gin.Engine
	Config *config.Config

	logger     *zap.Logger
	images     storage.ImageStore
	closeStore func(ctx context.Context) error
}

func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	images, err := openImageStore(cfg)
	if err != nil {
		_ = st.close(context.Background())
		return nil, err
	}
	logger.Info("Image store ready", zap.String("kind", cfg.ImageStore))

	engine := NewRouter(logger, Deps{
		Repos:     st.repos,
		Images:    images,
		Tokens:    auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiryHours),
		Ping:      st.ping,
		PublicURL: cfg.PublicURL,
		MaxUpload: cfg.MaxUploadMB,
	})

	return &Server{
		Engine:     engine,
		Config:     cfg,
		logger:     logger,
		images:     images,
		closeStore: st.close,
	}, nil
}

type store struct {
	repos repository.Repositories
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("create indexes: %w", err)
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

		return &store{
			repos: mongodb.NewRepositories(db),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: client.Disconnect,
		}, nil

	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		// "pgx" is registered by the gorm postgres driver.
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		st, err := newPostgresStore(sqlDB, repository.Migrate)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to database", zap.String("database", cfg.DBName))
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// newPostgresStore owns sqlDB: it is closed if gorm or the migrations fail.
func newPostgresStore(sqlDB *sql.DB, migrate func(*sql.DB) error) (*store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &store{
		repos: repository.NewGormRepositories(db),
		ping:  sqlDB.PingContext,
		close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openImageStore(cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreLocal:
		return storage.NewLocalStore(cfg.ImageDir)
	case config.ImageStoreHDFS:
		return storage.NewHDFSStore(cfg.HDFSAddr, cfg.HDFSDir)
	}
	return nil, fmt.Errorf("unknown image store %q", cfg.ImageStore)
}

// NewRouter wires middleware, handlers and routes onto a new gin engine.
func NewRouter(logger *zap.Logger, deps Deps) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(cors.Default())

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())

	authHandler := handler.NewAuthHandler(deps.Repos.Credentials, deps.Tokens)
	userHandler := handler.NewUserHandler(deps.Repos.Users, deps.Images, deps.PublicURL, deps.MaxUpload)
	imageHandler := handler.NewImageHandler(deps.Images)
	tagHandler := handler.NewTagHandler(deps.Repos.Tags)
	columnHandler := handler.NewColumnHandler(deps.Repos.Columns)
	taskHandler := handler.NewTaskHandler(deps.Repos.Tasks)

	// Public routes
	r.GET("/healthz", healthz(deps.Ping))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/signup", authHandler.Signup)
	r.POST("/signin", authHandler.Signin)
	r.GET("/images/:name", imageHandler.Get)

	// Protected routes - require an access token
	authorized := r.Group("/")
	authorized.Use(middleware.AccessTokenAuth(deps.Tokens, deps.Repos.Credentials))
	{
		authorized.GET("/users", userHandler.List)
		authorized.GET("/users/:userId", userHandler.GetByID)
		authorized.POST("/users", userHandler.Create)
		authorized.PUT("/users/:userId", userHandler.Update)
		authorized.POST("/users/:userId/image", userHandler.UploadImage)

		authorized.GET("/tags", tagHandler.List)
		authorized.POST("/tags", tagHandler.Create)
		authorized.PUT("/tags/:tagId", tagHandler.Update)

		authorized.GET("/columns", columnHandler.List)
		authorized.POST("/columns", columnHandler.Create)
		authorized.PUT("/columns/:columnId", columnHandler.Update)

		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:taskId", taskHandler.GetByID)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:taskId", taskHandler.Update)
		authorized.POST("/tasks/:taskId/comments", taskHandler.AddComment)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NotFound", "Route not found")
	})
	return r
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "Unavailable", "Store is not reachable")
			return
		}
		response.OK(c, http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := s.images.Close(); err != nil {
		s.logger.Error("Failed to close image store", zap.Error(err))
	}
	if err := s.closeStore(ctx); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
	}

	s.logger.Info("Server exited properly")
}
