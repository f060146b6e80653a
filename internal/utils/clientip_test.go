package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsTrustedProxyIP(t *testing.T) {
	tests := []struct {
		name           string
		ipStr          string
		trustedProxies string
		want           bool
	}{
		{"exact match single IP", "192.168.1.1", "192.168.1.1", true},
		{"no match single IP", "192.168.1.2", "192.168.1.1", false},
		{"CIDR match", "192.168.1.50", "192.168.1.0/24", true},
		{"CIDR no match", "192.168.2.50", "192.168.1.0/24", false},
		{"multiple entries match second", "192.168.1.100", "10.0.0.1,192.168.1.0/24", true},
		{"localhost", "127.0.0.1", "127.0.0.1", true},
		{"empty list", "192.168.1.1", "", false},
		{"invalid IP", "not-an-ip", "192.168.1.0/24", false},
		{"whitespace tolerated", "192.168.1.1", " 192.168.1.1 , 10.0.0.1 ", true},
		{"invalid CIDR skipped", "192.168.1.1", "192.168.1.0/invalid", false},
		{"IPv6 loopback", "::1", "::1", true},
		{"IPv6 CIDR", "fd00::5", "fd00::/8", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTrustedProxyIP(tt.ipStr, tt.trustedProxies); got != tt.want {
				t.Errorf("IsTrustedProxyIP(%q, %q) = %v, want %v", tt.ipStr, tt.trustedProxies, got, tt.want)
			}
		})
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"1.2.3.4:8080", "1.2.3.4"},
		{"1.2.3.4", "1.2.3.4"},
		{"[::1]:8080", "::1"},
		{"[::1]", "::1"},
		{"::1", "::1"},
		{"2001:db8::1", "2001:db8::1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractIP(tt.addr); got != tt.want {
			t.Errorf("ExtractIP(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		trustMode  string
		trusted    string
		want       string
	}{
		{
			name:       "direct connection no headers",
			remoteAddr: "203.0.113.9:51234",
			trustMode:  "auto",
			trusted:    "127.0.0.1",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "127.0.0.1:4000",
			xff:        "1.2.3.4, 127.0.0.1",
			trustMode:  "auto",
			trusted:    "127.0.0.1",
			want:       "1.2.3.4",
		},
		{
			name:       "forwarded header from untrusted peer ignored",
			remoteAddr: "203.0.113.9:51234",
			xff:        "1.2.3.4",
			trustMode:  "auto",
			trusted:    "127.0.0.1",
			want:       "203.0.113.9",
		},
		{
			name:       "trust everything mode",
			remoteAddr: "203.0.113.9:51234",
			xff:        "1.2.3.4",
			trustMode:  "true",
			trusted:    "",
			want:       "1.2.3.4",
		},
		{
			name:       "trust nothing mode",
			remoteAddr: "127.0.0.1:4000",
			xff:        "1.2.3.4",
			trustMode:  "false",
			trusted:    "127.0.0.1",
			want:       "127.0.0.1",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "127.0.0.1:4000",
			xri:        "5.6.7.8",
			trustMode:  "auto",
			trusted:    "127.0.0.1",
			want:       "5.6.7.8",
		},
		{
			name:       "no address at all",
			remoteAddr: "",
			trustMode:  "auto",
			trusted:    "127.0.0.1",
			want:       UnknownClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := ClientIdentifier(req, tt.trustMode, tt.trusted); got != tt.want {
				t.Errorf("ClientIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}
