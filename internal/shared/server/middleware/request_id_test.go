package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		inbound  string
		wantSame bool
	}{
		{name: "generated when missing", inbound: ""},
		{name: "inbound reused", inbound: "req-123", wantSame: true},
		{name: "control characters replaced", inbound: "bad\tid"},
		{name: "overlong replaced", inbound: strings.Repeat("a", 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			var seen string
			router.GET("/ping", func(c *gin.Context) {
				seen = RequestIDFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get("X-Request-Id")
			if got == "" || got != seen {
				t.Fatalf("header %q does not match context %q", got, seen)
			}
			if tt.wantSame {
				if got != tt.inbound {
					t.Fatalf("expected inbound id %q, got %q", tt.inbound, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected generated uuid, got %q", got)
			}
		})
	}
}
