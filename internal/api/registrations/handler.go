package registrations

import (
	"conference-app/internal/api/response"
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc *workflow.Service
	log zerolog.Logger
}

func NewHandler(svc *workflow.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// POST /registrations
func (h *Handler) Create(c *gin.Context) {
	var input workflow.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.svc.SubmitRegistration(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Created(c, "Registration submitted successfully", res)
}

// GET /registrations/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	reg, err := h.svc.GetRegistration(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, reg)
}

// GET /registrations/email/:email
func (h *Handler) GetByEmail(c *gin.Context) {
	reg, err := h.svc.GetRegistrationByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, reg)
}

// GET /registrations/code/:code
func (h *Handler) GetByCode(c *gin.Context) {
	reg, err := h.svc.GetRegistrationByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, reg)
}
