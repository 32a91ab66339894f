package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		limit int64
		skip  int64
		ok    bool
	}{
		{"", defaultPageLimit, 0, true},
		{"?limit=5&skip=10", 5, 10, true},
		{"?limit=1000", maxPageLimit, 0, true},
		{"?limit=0", 0, 0, false},
		{"?limit=abc", 0, 0, false},
		{"?skip=-1", 0, 0, false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

		limit, skip, ok := pagination(c)
		if ok != tc.ok {
			t.Fatalf("%q: ok = %v, want %v", tc.query, ok, tc.ok)
		}
		if !ok {
			if w.Code != http.StatusBadRequest {
				t.Fatalf("%q: expected 400, got %d", tc.query, w.Code)
			}
			continue
		}
		if limit != tc.limit || skip != tc.skip {
			t.Fatalf("%q: got limit=%d skip=%d", tc.query, limit, skip)
		}
	}
}
