package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/fsx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/jobtrack/pkg/iam/auth"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/Abraxas-365/jobtrack/tracker/annotation/annotationapi"
	"github.com/Abraxas-365/jobtrack/tracker/annotation/annotationinfra"
	"github.com/Abraxas-365/jobtrack/tracker/annotation/annotationsrv"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumeapi"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumeinfra"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumesrv"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config     Config
	AuthConfig auth.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.SignedFileSystem
	Metrics    *prometheus.Registry

	// Session storage; memorySessions is set when sessions are kept in process
	SessionStore   annotation.SessionStore
	memorySessions *annotationinfra.MemorySessionStore

	// Services
	TokenService      auth.TokenService
	ResumeService     *resumesrv.Service
	AnnotationService *annotationsrv.Service

	// API Handlers
	ResumeHandlers     *resumeapi.ResumeHandlers
	AnnotationHandlers *annotationapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	db, err := sqlx.Connect("postgres", c.Config.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.RedisAddr,
		Password: c.Config.RedisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. Session Store
	switch c.Config.SessionStore {
	case "memory":
		c.memorySessions = annotationinfra.NewMemorySessionStore(c.Config.SessionTTL)
		c.SessionStore = c.memorySessions
		logx.Warn("Annotation sessions are kept in memory and are lost on restart")
	default:
		c.SessionStore = annotationinfra.NewRedisSessionStore(c.Redis, c.Config.SessionTTL)
	}

	// 4. File Storage (S3, or in memory when no bucket is configured)
	if c.Config.AWSBucket == "" {
		logx.Warn("AWS_BUCKET is not set, resume files are served from memory")
		c.FileSystem = fsxmem.New("http://localhost:" + c.Config.Port + "/files")
	} else {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(c.Config.AWSRegion))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(cfg), c.Config.AWSBucket, c.Config.StoragePrefix)
	}

	// 5. Metrics Registry
	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 6. Auth Config
	c.AuthConfig = auth.DefaultConfig()
	c.AuthConfig.JWT.Issuer = c.Config.JWTIssuer
	c.AuthConfig.JWT.SecretKey = c.Config.JWTSecret
	if c.AuthConfig.JWT.SecretKey == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		c.AuthConfig.JWT.SecretKey = "super-secret-key-please-change-me-in-production"
	}
}

func (c *Container) initServices() {
	// --- Repositories ---
	resumeRepo := resumeinfra.NewPostgresResumeRepository(c.DB)
	annotationRepo := annotationinfra.NewPostgresAnnotationRepository(c.DB)

	// --- Token Service ---
	c.TokenService = auth.NewJWTService(
		c.AuthConfig.JWT.SecretKey,
		c.AuthConfig.JWT.AccessTokenTTL,
		c.AuthConfig.JWT.Issuer,
	)

	// --- Domain Services ---
	c.ResumeService = resumesrv.NewService(resumeRepo, c.FileSystem, c.Config.SignedURLTTL)
	c.AnnotationService = annotationsrv.NewService(
		c.SessionStore,
		annotationinfra.NewResumeDocumentSource(c.ResumeService),
		annotationRepo,
		annotationsrv.NewMetrics(c.Metrics, c.SessionStore),
		annotation.WithSaveTimeout(c.Config.SaveTimeout),
	)

	// --- Handlers ---
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ResumeService)
	c.AnnotationHandlers = annotationapi.NewHandlers(c.AnnotationService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)
}

// StartBackground starts background maintenance that lives until ctx is done
func (c *Container) StartBackground(ctx context.Context) {
	if c.memorySessions != nil {
		c.memorySessions.StartJanitor(ctx, time.Minute)
	}
}

// Close releases the container's connections
func (c *Container) Close() {
	if err := c.Redis.Close(); err != nil {
		logx.Warnf("Failed to close Redis: %v", err)
	}
	if err := c.DB.Close(); err != nil {
		logx.Warnf("Failed to close database: %v", err)
	}
}
