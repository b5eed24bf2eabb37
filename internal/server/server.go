// Package server assembles the HTTP engine shared by both services and runs it
// until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/handler"
	"github.com/noah-isme/course-enrollment-api/internal/middleware"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-enrollment-api/pkg/middleware/requestid"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// Registrar mounts a resource's routes.
type Registrar interface {
	Register(r gin.IRouter)
}

// Options describes one service.
type Options struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *service.MetricsService
	Store        handler.Pinger
	DocsInstance string
	Resources    []Registrar
}

// NewEngine builds the gin engine with the common middleware chain, the
// operational endpoints and every resource under the API prefix.
func NewEngine(opts Options) *gin.Engine {
	cfg := opts.Config
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	handler.NewMetricsHandler(opts.Metrics, opts.Store, opts.Logger).Register(r)

	if cfg.Env != config.EnvProduction && opts.DocsInstance != "" {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(opts.DocsInstance)))
	}

	api := r.Group(cfg.APIPrefix)
	for _, resource := range opts.Resources {
		resource.Register(api)
	}
	return r
}

// Run serves h until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests within the configured shutdown timeout.
func Run(ctx context.Context, cfg *config.Config, h http.Handler, log *zap.Logger) error {
	readHeaderTimeout := cfg.HTTP.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}
	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("server context cancelled, shutting down")
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server shutdown completed")
	return nil
}
