package metadata

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sunhex/pkg/requestcontext"
)

func TestHandler(t *testing.T) {
	lb := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		trusted    []netip.Prefix
		remoteAddr string
		headers    map[string]string
		wantIP     string
		wantUA     string
	}{
		{
			name:       "forwarded header ignored without trusted proxies",
			remoteAddr: "192.168.1.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1", "User-Agent": "Mozilla/5.0"},
			wantIP:     "192.168.1.1",
			wantUA:     "Mozilla/5.0",
		},
		{
			name:       "forwarded header used from trusted proxy",
			trusted:    lb,
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1", "User-Agent": "curl/8.5.0"},
			wantIP:     "203.0.113.1",
			wantUA:     "curl/8.5.0",
		},
		{
			name:       "spoofed leading hop skipped",
			trusted:    lb,
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.9, 10.0.0.7"},
			wantIP:     "203.0.113.9",
		},
		{
			name:       "untrusted peer with forwarded header",
			trusted:    lb,
			remoteAddr: "198.51.100.4:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			wantIP:     "198.51.100.4",
		},
		{
			name:       "malformed hop falls back to peer",
			trusted:    lb,
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			wantIP:     "10.0.0.1",
		},
		{
			name:       "oversized header ignored",
			trusted:    lb,
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": strings.Repeat("1", MaxForwardedHeaderLength+1)},
			wantIP:     "10.0.0.1",
		},
		{
			name:       "real ip header from trusted proxy",
			trusted:    lb,
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			wantIP:     "203.0.113.50",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: "[2001:db8::1]:443",
			wantIP:     "2001:db8::1",
		},
		{
			name:       "unparseable peer",
			remoteAddr: "garbage",
			wantIP:     UnknownIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIP, gotUA string
			handler := New(tt.trusted).Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotIP = requestcontext.ClientIP(r.Context())
				gotUA = requestcontext.UserAgent(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantIP, gotIP)
			assert.Equal(t, tt.wantUA, gotUA)
		})
	}
}
