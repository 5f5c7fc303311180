package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/oauthstate"
)

const (
	errAuthenticationFailed = "authentication_failed"
	errRoleNotEligible      = "role_not_eligible"
)

// FederatedStart begins the OAuth handshake: generates server-side
// state plus a PKCE verifier, stores them for the callback, and
// redirects the browser to the provider.
func (h *Handler) FederatedStart(c *gin.Context) {
	p, err := h.providers.Get(h.providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown oauth provider"})
		return
	}

	hs, err := oauthstate.New()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to start oauth flow"})
		return
	}
	if err := h.states.Save(c.Request.Context(), *hs); err != nil {
		h.logger.Error("failed to store oauth handshake", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to start oauth flow"})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(hs.State, hs.CodeChallenge()))
}

// FederatedCallback finishes the handshake: redeems the state,
// exchanges the code, bridges the identity onto a customer account
// and redirects to the front end with the issued token. Failures
// redirect with a machine-readable error code instead.
func (h *Handler) FederatedCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("provider callback returned error",
			"provider", h.providerName,
			"error", errParam)
		h.redirectError(c, errParam)
		return
	}

	p, err := h.providers.Get(h.providerName)
	if err != nil {
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	hs, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if err != nil || hs == nil {
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, hs.CodeVerifier)
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err.Error())
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	res, err := h.bridge.Resolve(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, auth.ErrRoleNotEligible) {
			h.redirectError(c, errRoleNotEligible)
			return
		}
		h.logger.Error("federated resolution failed", "error", err.Error())
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	signed, err := h.issuer.Issue(res.Account.ID, res.Account.Role, false)
	if err != nil {
		h.logger.Error("token issuance failed", "error", err.Error())
		h.redirectError(c, errAuthenticationFailed)
		return
	}

	h.logger.Info("federated login resolved",
		"user_id", res.Account.ID,
		"created", res.Created)

	q := url.Values{}
	q.Set("token", signed)
	q.Set("userId", res.Account.ID)
	q.Set("role", string(res.Account.Role))
	q.Set("email", res.Account.Email)
	c.Redirect(http.StatusFound, h.frontendURL+"?"+q.Encode())
}

func (h *Handler) redirectError(c *gin.Context, code string) {
	q := url.Values{}
	q.Set("error", code)
	c.Redirect(http.StatusFound, h.frontendURL+"?"+q.Encode())
}
