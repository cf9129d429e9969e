package middlewares

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// ErrorHandler renders the last error recorded on the context. It must be the first
// middleware so that it runs after every other one has returned.
func ErrorHandler(log *slog.Logger, env string) gin.HandlerFunc {
	dev := env == config.EnvDev

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperr.From(c.Errors.Last().Err)
		status := appErr.Status()
		reqID := c.GetString(CtxRequestID)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", clientIP(c),
			"status", status,
			"code", appErr.Code,
			"request_id", reqID,
		}
		if appErr.Err != nil {
			attrs = append(attrs, "error", appErr.Err.Error())
		}

		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request.Context(), "request_failed", attrs...)
		} else {
			log.WarnContext(c.Request.Context(), "request_rejected", attrs...)
		}

		if c.Writer.Written() {
			return
		}

		body := errorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: reqID,
			Details:   appErr.Details,
		}
		if dev && appErr.Kind == apperr.KindInternal && appErr.Err != nil {
			body.Message = appErr.Err.Error()
		}

		c.JSON(status, gin.H{"error": body})
	}
}

// Recovery turns a panic into an internal error rendered by ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		err, ok := rec.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", rec)
		}
		if errors.Is(err, http.ErrAbortHandler) {
			panic(rec)
		}

		abortWith(c, apperr.Internal("Internal server error", err))
	})
}
