package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/interface/middleware"
	"github.com/oksasatya/spaceboard/pkg/response"
	"github.com/oksasatya/spaceboard/pkg/validation"
)

func currentUser(c *gin.Context) string { return c.GetString(middleware.CtxUserIDKey) }

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.AbortWithStatusJSON(resp.Status, resp)
		return false
	}
	return true
}

// multipartOverhead is the slack allowed on top of the file limit for part
// headers and boundaries.
const multipartOverhead = 1 << 20

// formFile reads one multipart file field with the request body capped near
// maxBytes, so an oversized upload is refused before it is spooled to disk.
// A non-positive maxBytes leaves the body unbounded.
func formFile(c *gin.Context, field string, maxBytes int64) (*multipart.FileHeader, bool) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	}
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, apperror.Validation("file is too large"))
			return nil, false
		}
		resp := response.Error[any](c, http.StatusBadRequest, "please upload a file", nil)
		c.AbortWithStatusJSON(resp.Status, resp)
		return nil, false
	}
	return fh, true
}

func reply[T any](c *gin.Context, status int, data T, message string) {
	c.JSON(status, response.Success(c, status, data, message, nil))
}

func replyMeta[T any](c *gin.Context, data T, message string, meta any) {
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, data, message, meta))
}

func replyList[T any](c *gin.Context, items []T, message string) {
	c.JSON(http.StatusOK, response.List(c, items, message))
}
