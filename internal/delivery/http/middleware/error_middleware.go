package middleware

import (
	"errors"
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "status", appErr.Code, "path", c.FullPath(),
					"request_id", c.GetString("RequestID"), "error", err, "cause", appErr.Err)
			}
			message := appErr.Message
			if appErr.Code == http.StatusInternalServerError {
				message = "An unexpected error occurred. Please try again later."
			}
			response.Error(c, appErr.Code, message, appErr.Details)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("Internal Server Error", "path", c.FullPath(),
			"request_id", c.GetString("RequestID"), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
