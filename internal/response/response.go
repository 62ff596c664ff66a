package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, msg string) {
	c.JSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

// RespondAPIError maps an error to the envelope. Typed apierr values keep
// their status and code; anything else is a generic 500 with no internal
// detail leaked to the caller.
func RespondAPIError(c *gin.Context, err error) {
	if ae, ok := apierr.AsError(err); ok {
		msg := publicMessage(ae)
		c.JSON(ae.Status, ErrorEnvelope{
			Error: APIError{Message: msg, Code: ae.Code},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal error"},
	})
}

func AbortAPIError(c *gin.Context, err error) {
	if ae, ok := apierr.AsError(err); ok {
		c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{
			Error: APIError{Message: publicMessage(ae), Code: ae.Code},
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal error"},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// publicMessage keeps upstream/persistence detail out of responses; the full
// error is for logs only.
func publicMessage(ae *apierr.Error) string {
	switch ae.Code {
	case apierr.CodeUpstreamUnavailable:
		return "plan generation is temporarily unavailable"
	case apierr.CodePersistenceFailed:
		return "storage operation failed"
	case apierr.CodeRateLimited:
		return "too many requests, please try again later"
	default:
		return ae.Error()
	}
}
