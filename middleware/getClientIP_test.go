package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func ipForRequest(headers map[string]string, remoteAddr string) string {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = remoteAddr
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return getClientIP(c)
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			"forwarded chain uses first hop",
			map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			"10.0.0.2:443",
			"203.0.113.7",
		},
		{
			"real ip fallback",
			map[string]string{"X-Real-IP": " 198.51.100.4 "},
			"10.0.0.2:443",
			"198.51.100.4",
		},
		{
			"remote addr strips port",
			nil,
			"192.0.2.9:51234",
			"192.0.2.9",
		},
		{
			"remote addr without port kept as is",
			nil,
			"192.0.2.9",
			"192.0.2.9",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ipForRequest(tc.headers, tc.remoteAddr); got != tc.want {
				t.Errorf("getClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
