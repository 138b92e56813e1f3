// Package response writes JSON error bodies derived from apperr kinds.
package response

import (
	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"commission_tracker/internal/apperr"
)

const internalMessage = "Internal server error"

// Body is the error payload. The frontend reads "detail".
type Body struct {
	Detail string `json:"detail"`
}

func render(c *gin.Context, err error) (int, Body) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		logrus.WithError(err).
			WithField("path", c.FullPath()).
			Error("request failed")
		return apperr.HTTPStatus(apperr.KindInternal), Body{Detail: internalMessage}
	}
	return apperr.HTTPStatus(e.Kind), Body{Detail: e.Message}
}

// Error writes err as a JSON response.
func Error(c *gin.Context, err error) {
	status, body := render(c, err)
	c.JSON(status, body)
}

// Abort writes err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := render(c, err)
	c.AbortWithStatusJSON(status, body)
}

const badRequestMessage = "Invalid request body"

// BadRequest reports a malformed request body. The binding error stays in
// the log.
func BadRequest(c *gin.Context, err error) {
	logrus.WithError(err).
		WithField("path", c.FullPath()).
		Debug("rejected request body")
	Error(c, apperr.New(apperr.KindInvalidArgument, badRequestMessage, err))
}
