package utils

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Errors  []*Error    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID,
	})
}

// HandleServiceError maps the error taxonomy to HTTP statuses and renders
// the ordered error record list.
func HandleServiceError(c *gin.Context, err error) {
	traceID := c.GetString("trace_id")
	list := AsErrorList(err)

	code := http.StatusInternalServerError
	if list.HasErrors() {
		switch list.Errors[0].Kind {
		case KindNotFound:
			code = http.StatusNotFound
		case KindUnauthorized:
			code = http.StatusForbidden
		case KindValidationFailed:
			code = http.StatusBadRequest
		case KindCapacityExceeded:
			code = http.StatusConflict
		case KindPaymentError:
			code = http.StatusPaymentRequired
		}
	}

	if code == http.StatusInternalServerError {
		log.Printf("Unknown error: %v", err)
	}

	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: list.Error(),
		TraceID: traceID,
		Errors:  list.Errors,
	})
}
