package transactions

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

// GET /transactions/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.svc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, tx)
}

// GET /transactions/:id/receipt
func (h *Handler) Receipt(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.svc.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, receipt)
}

// GET /transactions/user/:userId?status=
func (h *Handler) ListByUser(c *gin.Context) {
	userID, ok := response.PathID(c, "userId")
	if !ok {
		return
	}
	list, err := h.svc.ListTransactionsByUser(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, list)
}
