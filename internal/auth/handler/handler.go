package handler

import (
	"github.com/gin-gonic/gin"

	"auth-gateway/internal/auth/aggregator"
	"auth-gateway/internal/auth/federation"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/oauthstate"
	"auth-gateway/internal/token"
)

type Handler struct {
	aggregator   *aggregator.Aggregator
	bridge       *federation.Bridge
	providers    *provider.Registry
	providerName string
	states       oauthstate.Store
	issuer       *token.Issuer
	frontendURL  string
	logger       *logger.Logger
}

func NewHandler(
	aggregator *aggregator.Aggregator,
	bridge *federation.Bridge,
	registry *provider.Registry,
	providerName string,
	states oauthstate.Store,
	issuer *token.Issuer,
	frontendURL string,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		aggregator:   aggregator,
		bridge:       bridge,
		providers:    registry,
		providerName: providerName,
		states:       states,
		issuer:       issuer,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/login", h.Login)
	r.GET("/auth/federated/start", h.FederatedStart)
	r.GET("/auth/federated/callback", h.FederatedCallback)
}
