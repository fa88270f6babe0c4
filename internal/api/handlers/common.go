package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoodiarize/internal/utils"
)

// APIError is the error body for every failed request. The request id is
// the one assigned by the logging middleware so clients can quote it.
type APIError struct {
	Code      utils.Code `json:"code"`
	Message   string     `json:"message"`
	RequestID string     `json:"request_id,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	reqID := c.GetString("request_id")

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:      ae.Code,
			Message:   ae.Message,
			RequestID: reqID,
		})
		return
	}

	c.JSON(status, APIError{
		Code:      utils.CodeInternal,
		Message:   http.StatusText(status),
		RequestID: reqID,
	})
}
