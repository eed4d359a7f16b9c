package auth

import (
	"net/http"
	"strings"
	"time"

	"conference-app/internal/api/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	tokenTTL  = 24 * time.Hour
)

type Config struct {
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string
	// AdminEmails may sign in with Google.
	AdminEmails []string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string
}

type Handler struct {
	cfg Config
	log zerolog.Logger
}

func NewHandler(cfg Config, log zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, log: log}
}

// POST /admin/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	if h.cfg.AdminEmail == "" || h.cfg.AdminPasswordHash == "" {
		response.Error(c, http.StatusUnauthorized, "Password login is disabled")
		return
	}
	if !strings.EqualFold(strings.TrimSpace(input.Email), h.cfg.AdminEmail) {
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(input.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issueAppJWT(h.cfg.AdminEmail)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Could not create token")
		return
	}

	h.log.Info().Str("email", h.cfg.AdminEmail).Msg("admin signed in")
	response.Success(c, gin.H{"token": token})
}

func (h *Handler) issueAppJWT(email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": strings.ToLower(email),
		"role":  RoleAdmin,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *Handler) isAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if strings.EqualFold(email, h.cfg.AdminEmail) {
		return true
	}
	for _, e := range h.cfg.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}
