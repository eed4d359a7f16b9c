package response

import (
	"errors"
	"net/http"
	"strconv"

	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Envelope is the body of every JSON reply.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func StatusFor(kind workflow.Kind) int {
	switch kind {
	case workflow.KindValidation, workflow.KindAlreadyPaid, workflow.KindInvalidSignature:
		return http.StatusBadRequest
	case workflow.KindNotFound:
		return http.StatusNotFound
	case workflow.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with the status of its kind. Causes are logged, never sent.
func FromError(c *gin.Context, log zerolog.Logger, err error) {
	var we *workflow.Error
	if !errors.As(err, &we) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := StatusFor(we.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	Error(c, status, we.Message)
}

// PathID parses a positive numeric path parameter, replying 400 when it is not one.
func PathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
