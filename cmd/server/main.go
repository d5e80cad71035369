package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/athenaeum/portal/internal/api"
	"github.com/athenaeum/portal/internal/auth"
	"github.com/athenaeum/portal/pkg/portal"
	memoryrepo "github.com/athenaeum/portal/pkg/portal/repo/memory"
	postgresrepo "github.com/athenaeum/portal/pkg/portal/repo/postgres"
	"github.com/athenaeum/portal/pkg/portal/signing"
	"github.com/athenaeum/portal/pkg/portal/storage"
	memorystorage "github.com/athenaeum/portal/pkg/portal/storage/memory"
	s3storage "github.com/athenaeum/portal/pkg/portal/storage/s3"
	"github.com/athenaeum/portal/pkg/portal/upload"
)

type Config struct {
	Server ServerConfig
	DB     DbConfig
	S3     S3Config
	Auth   AuthConfig
}

type ServerConfig struct {
	Port       string `env:"PORTAL_PORT" env-default:"8080"`
	BaseURL    string `env:"PORTAL_BASE_URL" env-default:"http://localhost:8080"`
	UploadDir  string `env:"PORTAL_UPLOAD_DIR" env-default:"/tmp/portal-uploads"`
	CORSOrigin string `env:"PORTAL_CORS_ORIGIN" env-default:""`

	// "postgres" or "memory"; memory is for local development only
	Database string `env:"PORTAL_DATABASE" env-default:"postgres"`
	Storage  string `env:"PORTAL_STORAGE" env-default:"s3"`

	SigningKey string `env:"PORTAL_SIGNING_KEY" env-default:""`
}

type DbConfig struct {
	Port     uint16 `env:"PORTAL_PG_PORT" env-default:"5432"`
	Host     string `env:"PORTAL_PG_HOST" env-default:"localhost"`
	Name     string `env:"PORTAL_PG_NAME" env-default:"portal_db"`
	User     string `env:"PORTAL_PG_USER" env-default:"portal"`
	Password string `env:"PORTAL_PG_PASSWORD" env-default:"pwd"`
	SSLMode  string `env:"PORTAL_PG_SSLMODE" env-default:"disable"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"portal-media"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

type AuthConfig struct {
	JWTSecret     string `env:"PORTAL_JWT_SECRET" env-default:""`
	AdminEmail    string `env:"PORTAL_ADMIN_EMAIL" env-default:""`
	AdminPassword string `env:"PORTAL_ADMIN_PASSWORD" env-default:""`
	AdminName     string `env:"PORTAL_ADMIN_NAME" env-default:"Administrator"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c DbConfig) toMigrateUrl() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("PORTAL_JWT_SECRET must be set")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	var repository portal.Repository
	var users auth.UserStore
	switch cfg.Server.Database {
	case "memory":
		repository = memoryrepo.New()
		users = auth.NewMemoryStore()
		logger.Warn("using in-memory database, data is not persisted")
	default:
		if err := postgresrepo.Migrate(cfg.DB.toMigrateUrl(), logger); err != nil {
			return err
		}
		pool, err := postgresrepo.Connect(ctx, cfg.DB.toDatabaseUrl())
		if err != nil {
			return err
		}
		defer pool.Close()
		repository = postgresrepo.NewWithPool(pool)
		users = postgresrepo.NewUserStore(pool)
		logger.Info("connected to PostgreSQL", "host", cfg.DB.Host, "database", cfg.DB.Name)
	}

	var store storage.BlobStore
	switch cfg.Server.Storage {
	case "memory":
		store = memorystorage.New()
		logger.Warn("using in-memory storage, objects are not persisted")
	default:
		backend, err := s3storage.New(s3storage.Config{
			Region:                 cfg.S3.Region,
			Bucket:                 cfg.S3.BucketName,
			AccessKeyID:            cfg.S3.AccessKeyID,
			SecretAccessKey:        cfg.S3.SecretAccessKey,
			Endpoint:               cfg.S3.Endpoint,
			UsePathStyle:           cfg.S3.UsePathStyle,
			CreateBucketIfNotExist: cfg.S3.CreateBucket,
		})
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		store = backend
	}

	signer := signing.New(signing.WithSecretKey(cfg.Server.SigningKey))
	if !signer.IsEnabled() {
		logger.Warn("no signing key configured, delivery URLs fall back to provider URLs")
	}

	gateway := upload.New(store, signer, upload.WithBaseURL(cfg.Server.BaseURL))

	service, err := portal.New(
		portal.WithRepository(repository),
		portal.WithUploader(gateway),
	)
	if err != nil {
		return err
	}

	gate := auth.NewGate([]byte(cfg.Auth.JWTSecret), users)
	if cfg.Auth.AdminEmail != "" {
		if err := auth.EnsureAdmin(ctx, users, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Service:    service,
		Gate:       gate,
		Store:      store,
		Signer:     signer,
		UploadDir:  cfg.Server.UploadDir,
		CORSOrigin: cfg.Server.CORSOrigin,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("portal server starting", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
