package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation/annotationapi"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumeapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Config and Initialize Logger
	cfg, err := LoadConfig()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetFormat(cfg.LogFormat)
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	defer logx.Sync()
	logx.Info("Starting JobTrack API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.StartBackground(ctx)

	// 3. Create Fiber App with Config
	app := newApp(container)

	// 4. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

func newApp(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "JobTrack API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Health Check and Metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.Metrics, promhttp.HandlerOpts{})))

	// Local file serving when no bucket is configured
	if mem, ok := container.FileSystem.(*fsxmem.MemFileSystem); ok {
		app.Get("/files/*", memFileHandler(mem))
	}

	// Resumes: /api/resumes
	resumeapi.RegisterRoutes(app, container.ResumeHandlers, container.AuthMiddleware)

	// Annotation editor: /api/annotation-sessions, /api/resumes/:id/annotations
	annotationapi.RegisterRoutes(app, container.AnnotationHandlers, container.AuthMiddleware)

	return app
}

// memFileHandler serves files signed by the in-memory file system until they expire
func memFileHandler(mem *fsxmem.MemFileSystem) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
		if err != nil || time.Now().Unix() > expires {
			return fiber.NewError(fiber.StatusForbidden, "link expired")
		}

		data, err := mem.ReadFile(c.Context(), c.Params("*"))
		if err != nil {
			if errors.Is(err, fsx.ErrNotExist) {
				return fiber.ErrNotFound
			}
			return err
		}

		if name := c.Query("download"); name != "" {
			c.Attachment(name)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(data)
	}
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	// If it's our custom errx.Error
	if e, ok := errx.As(err); ok {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorf("%s %s failed: %s: %v", c.Method(), c.Path(), e.Code, e.Cause)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
