// Package response writes the JSON envelopes shared by handlers and middleware.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/hospital-api/internal/apperror"
)

// Error converts err into {success:false, statusCode, message} and aborts
// the request. Internal errors are logged with their cause and reported
// with a generic message.
func Error(c *gin.Context, log *logrus.Logger, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}

	body := gin.H{
		"success":    false,
		"statusCode": appErr.Status,
		"message":    appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}
