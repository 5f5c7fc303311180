package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth-gateway/internal/auth/aggregator"
	"auth-gateway/internal/auth/federation"
	"auth-gateway/internal/auth/handler"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/provider/google"
	"auth-gateway/internal/config"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/middleware"
	"auth-gateway/internal/oauthstate"
	"auth-gateway/internal/token"
)

func setupHTTP(ctx context.Context, cfg *config.Config, log *logger.Logger) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	states := oauthstate.NewRedisStore(infra.Redis.Client)

	agg := aggregator.New(infra.Partitions, issuer, cfg.Fanout.OverallTimeout, log)
	bridge := federation.New(infra.Customer, log)

	googleProvider, err := google.New(
		ctx,
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(googleProvider)

	authHandler := handler.NewHandler(
		agg,
		bridge,
		registry,
		googleProvider.Name(),
		states,
		issuer,
		cfg.FrontendRedirectURL,
		log,
	)

	authMiddleware := middleware.NewAuthMiddleware(issuer)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		principal, _ := middleware.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"userId": principal.SubjectID,
			"role":   principal.Role,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.Redis.Close()
	}, nil
}
