package admin

import (
	"bytes"
	"net/http"

	"conference-app/internal/api/response"
	"conference-app/internal/export"
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *workflow.Service
	log zerolog.Logger
}

func NewHandler(svc *workflow.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GET /admin/registrations?status=&paymentStatus=
func (h *Handler) ListRegistrations(c *gin.Context) {
	list, err := h.svc.ListRegistrations(c.Request.Context(), workflow.RegistrationFilter{
		RegistrationStatus: c.Query("status"),
		PaymentStatus:      c.Query("paymentStatus"),
	})
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, list)
}

// GET /admin/abstracts?status=
func (h *Handler) ListAbstracts(c *gin.Context) {
	list, err := h.svc.ListAbstracts(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, list)
}

// PUT /admin/abstracts/:id/status
func (h *Handler) UpdateAbstractStatus(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.svc.UpdateAbstractStatus(c.Request.Context(), id, body.Status, body.Comment)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Abstract status updated", res)
}

// PUT /admin/registrations/:id/status
func (h *Handler) UpdateRegistrationStatus(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		RegistrationStatus string `json:"registrationStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	reg, err := h.svc.UpdateRegistrationStatus(c.Request.Context(), id, body.RegistrationStatus)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Registration status updated", reg)
}

// DELETE /admin/registrations/:id
func (h *Handler) DeleteRegistration(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRegistration(c.Request.Context(), id); err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Registration deleted", nil)
}

// DELETE /admin/abstracts/:id
func (h *Handler) DeleteAbstract(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAbstract(c.Request.Context(), id); err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Abstract deleted", nil)
}

// POST /admin/registrations/:id/remind
func (h *Handler) SendReminder(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.SendPaymentReminder(c.Request.Context(), id); err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Payment reminder sent", nil)
}

// GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, stats)
}

// GET /admin/registrations/export
func (h *Handler) ExportRegistrations(c *gin.Context) {
	regs, err := h.svc.AllRegistrations(c.Request.Context())
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRegistrations(&buf, regs); err != nil {
		h.log.Error().Err(err).Msg("registration export failed")
		response.Error(c, http.StatusInternalServerError, "Failed to build export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
