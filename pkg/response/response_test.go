package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.NotFound("issue not found"), http.StatusNotFound, "issue not found"},
		{apperror.Forbidden("not a member"), http.StatusForbidden, "not a member"},
		{apperror.Conflict("email taken"), http.StatusConflict, "email taken"},
		{apperror.Validation("title is required"), http.StatusBadRequest, "title is required"},
		{apperror.Unauthenticated("bad token"), http.StatusUnauthorized, "bad token"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
		{apperror.Internal("load issue", errors.New("boom")), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Set("request_id", "req-1")

			Fail(c, tc.err)

			require.Equal(t, tc.status, rec.Code)
			assert.True(t, c.IsAborted())
			var body APIResponse[any]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.msg, body.Message)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestSuccessDefaultsToOK(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	resp := Success(c, 0, []string{"a"}, "ok", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Success)
}
