package routes

import (
	"net/http"

	adminapi "conference-app/internal/api/admin"
	"conference-app/internal/api/abstracts"
	authapi "conference-app/internal/api/auth"
	"conference-app/internal/api/payments"
	"conference-app/internal/api/registrations"
	stripewebhooks "conference-app/internal/api/stripewebhook"
	"conference-app/internal/api/transactions"
	"conference-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Registrations *registrations.Handler
	Abstracts     *abstracts.Handler
	Payments      *payments.Handler
	Stripe        *stripewebhooks.Handler
	Transactions  *transactions.Handler
	Admin         *adminapi.Handler
	Auth          *authapi.Handler

	JWTSecret string
	// UploadDir is served under /uploads when documents are kept on local disk.
	UploadDir string
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})
	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}

	// Provider callbacks read the raw body; no sanitizing
	r.POST("/payments/webhook", h.Payments.Webhook)
	r.POST("/payments/webhook/stripe", h.Stripe.StripeWebhook)

	// Credentials are compared verbatim
	r.POST("/admin/login", h.Auth.Login)
	r.GET("/admin/auth/google", h.Auth.GoogleStart)
	r.GET("/admin/auth/google/callback", h.Auth.GoogleCallback)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/registrations", h.Registrations.Create)
	public.GET("/registrations/:id", h.Registrations.Get)
	public.GET("/registrations/email/:email", h.Registrations.GetByEmail)
	public.GET("/registrations/code/:code", h.Registrations.GetByCode)

	public.POST("/abstracts", h.Abstracts.Create)
	public.GET("/abstracts/:id", h.Abstracts.Get)
	public.GET("/abstracts/email/:email", h.Abstracts.ListByEmail)
	public.GET("/abstracts/code/:code", h.Abstracts.GetByCode)
	public.POST("/abstracts/:id/file", h.Abstracts.UploadFile)
	public.PUT("/abstracts/:id/revision", h.Abstracts.Resubmit)

	public.POST("/payments/initiate", h.Payments.Initiate)

	public.GET("/transactions/:id", h.Transactions.Get)
	public.GET("/transactions/:id/receipt", h.Transactions.Receipt)
	public.GET("/transactions/user/:userId", h.Transactions.ListByUser)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.JWTSecret), middleware.RequireRole(authapi.RoleAdmin))
	admin.Use(middleware.SanitizeAndCleanInputMiddleware())
	admin.GET("/registrations", h.Admin.ListRegistrations)
	admin.GET("/registrations/export", h.Admin.ExportRegistrations)
	admin.PUT("/registrations/:id/status", h.Admin.UpdateRegistrationStatus)
	admin.POST("/registrations/:id/remind", h.Admin.SendReminder)
	admin.DELETE("/registrations/:id", h.Admin.DeleteRegistration)

	admin.GET("/abstracts", h.Admin.ListAbstracts)
	admin.PUT("/abstracts/:id/status", h.Admin.UpdateAbstractStatus)
	admin.DELETE("/abstracts/:id", h.Admin.DeleteAbstract)

	admin.GET("/stats", h.Admin.Stats)
}
