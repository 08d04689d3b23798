package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cropsight/auth-service/internal/config"
	"github.com/cropsight/auth-service/internal/handler"
	"github.com/cropsight/auth-service/internal/mailer"
	"github.com/cropsight/auth-service/internal/oauth"
	"github.com/cropsight/auth-service/internal/repository"
	"github.com/cropsight/auth-service/internal/service"
	"github.com/cropsight/auth-service/internal/utils"
	"github.com/cropsight/auth-service/pkg/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.SessionExpiry.Duration)

	verifier := oauth.NewGoogleVerifier(cfg.Google.UserInfoURL, cfg.Google.Timeout.Duration)

	resetMailer := mailer.NewSMTPMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.ClientURL,
	)

	resetLimiter := newResetLimiter(infra, cfg)
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		jwtManager,
		verifier,
		resetMailer,
		resetLimiter,
		infra.Logger(),
		cfg.Security.BCryptCost,
		cfg.Reset.TokenExpiry.Duration,
		cfg.SMTP.SendTimeout.Duration,
	)

	authHandler := handler.NewAuthHandler(authService, infra.Logger())

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, authHandler, authService, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// newResetLimiter picks the configured rate-limit backend. The window is
// process-local with the memory backend; Redis makes it global across
// instances.
func newResetLimiter(infra Infrastructure, cfg *config.Config) service.ResetRateLimiter {
	limit := cfg.Reset.RateLimitRequests
	window := cfg.Reset.RateLimitWindow.Duration

	if cfg.Reset.LimiterBackend == config.RateLimiterRedis {
		return service.NewRedisRateLimiter(infra.Redis(), limit, window)
	}
	return service.NewMemoryRateLimiter(limit, window)
}

func setupRoutes(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleAuth)
		auth.GET("/me", handler.AuthMiddleware(authService), authHandler.GetMe)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
