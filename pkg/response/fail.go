package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
)

// StatusFor maps an error kind onto an HTTP status code.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as an error envelope and aborts the chain. Internal
// errors are attached to the context for the access log and reported
// with a generic message.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := Error[any](c, status, apperror.Message(err), apperror.KindOf(err).String())
	c.AbortWithStatusJSON(resp.Status, resp)
}
