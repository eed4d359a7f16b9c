package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"conference-app/internal/api/response"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func (h *Handler) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleRedirectURL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (h *Handler) googleEnabled() bool {
	return h.cfg.GoogleClientID != "" && h.cfg.GoogleClientSecret != "" && h.cfg.GoogleRedirectURL != ""
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /admin/auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	if !h.googleEnabled() {
		response.Error(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state, err := randomState()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to generate state")
		return
	}

	c.SetCookie(
		"oauth_state",
		state,
		300, // 5 minutes
		"/",
		"",
		false,
		true, // httpOnly
	)

	url := h.googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /admin/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.googleEnabled() {
		response.Error(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		response.BadRequest(c, "missing code/state")
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		response.BadRequest(c, "invalid oauth state")
		return
	}

	tok, err := h.googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "failed to exchange code")
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		response.Error(c, http.StatusUnauthorized, "missing id_token")
		return
	}

	claims, err := h.verifyGoogleIDToken(c, rawIDToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	if !claims.EmailVerified || !h.isAdminEmail(claims.Email) {
		h.log.Warn().Str("email", claims.Email).Msg("google sign-in refused")
		response.Error(c, http.StatusForbidden, "Access denied")
		return
	}

	tokenString, err := h.issueAppJWT(claims.Email)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not create token")
		return
	}

	redirect := h.cfg.GoogleFrontendRedirect
	if redirect == "" {
		response.Success(c, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+tokenString)
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (h *Handler) verifyGoogleIDToken(c *gin.Context, rawIDToken string) (*googleIDClaims, error) {
	ctx := c.Request.Context()

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: h.cfg.GoogleClientID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}
