package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"snapgram/service"

	"github.com/gin-gonic/gin"
)

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{service.NewValidationError("bad"), http.StatusBadRequest, "bad"},
		{service.NewUnauthorizedError("nope"), http.StatusUnauthorized, "nope"},
		{service.NewForbiddenError("forbidden"), http.StatusForbidden, "forbidden"},
		{service.NewNotFoundError("missing"), http.StatusNotFound, "missing"},
		{service.NewConflictError("taken"), http.StatusConflict, "taken"},
		{service.NewInternalError("boom"), http.StatusInternalServerError, "boom"},
		{errors.New("driver exploded"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteServiceError(c, tc.err, "fallback")

		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"error":"`+tc.body+`"`) {
			t.Fatalf("%v: unexpected body %s", tc.err, w.Body.String())
		}
	}
}
