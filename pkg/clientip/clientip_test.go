package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"192.0.2.1:1234":          "192.0.2.1",
		"192.0.2.1":               "192.0.2.1",
		" 192.0.2.1:80 ":          "192.0.2.1",
		"[2001:db8::1]:443":       "2001:db8::1",
		"[::ffff:192.0.2.7]:8080": "192.0.2.7",
		"[fe80::1%eth0]:22":       "fe80::1",
		"2001:db8::1":             "2001:db8::1",
		"pipe":                    "pipe",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestRealClientIP_IgnoresForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/feedback", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.10")

	assert.Equal(t, "198.51.100.4", RealClientIP(req))
}
