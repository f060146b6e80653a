package utils

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is the rate-limiting key used when no client address can be
// determined from the request.
const UnknownClient = "unknown"

// IsTrustedProxyIP checks if the given IP address is in the trusted proxy list.
// trustedProxies is a comma-separated string of IPs and CIDR ranges.
// Examples: "127.0.0.1,192.168.1.0/24" or "10.0.0.0/8"
func IsTrustedProxyIP(ipStr string, trustedProxies string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, proxy := range strings.Split(trustedProxies, ",") {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		if strings.Contains(proxy, "/") {
			if ipInCIDR(ip, proxy) {
				return true
			}
		} else {
			proxyIP := net.ParseIP(proxy)
			if proxyIP != nil && ip.Equal(proxyIP) {
				return true
			}
		}
	}

	return false
}

// ipInCIDR checks if an IP is within a CIDR range
func ipInCIDR(ip net.IP, cidr string) bool {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	return ipNet.Contains(ip)
}

// ExtractIP extracts the IP address from a "host:port" string.
// If no port is present, returns the input as-is.
func ExtractIP(addr string) string {
	// IPv6 with port: [::1]:8080
	if strings.HasPrefix(addr, "[") {
		if idx := strings.LastIndex(addr, "]:"); idx != -1 {
			return addr[1:idx]
		}
		return strings.Trim(addr, "[]")
	}

	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		// Multiple colons without brackets = IPv6 without port
		if strings.Count(addr, ":") > 1 {
			return addr
		}
		return addr[:idx]
	}

	return addr
}

// ClientIdentifier derives the rate-limiting key for a request: the first
// X-Forwarded-For value when the peer is a trusted proxy, otherwise the socket
// address, otherwise the "unknown" sentinel.
//
// The identifier is taken from a client-controllable header when proxy headers
// are trusted, so it is an abuse deterrent rather than a security boundary.
// trustProxyHeaders: "true", "false", or "auto" (trust only peers listed in
// trustedProxyIPs).
func ClientIdentifier(r *http.Request, trustProxyHeaders, trustedProxyIPs string) string {
	remoteIP := ExtractIP(r.RemoteAddr)

	shouldTrust := false
	switch trustProxyHeaders {
	case "true":
		shouldTrust = true
	case "false":
		shouldTrust = false
	default: // "auto"
		shouldTrust = IsTrustedProxyIP(remoteIP, trustedProxyIPs)
	}

	if shouldTrust {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// First value in the chain is the original client
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if first != "" {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	if remoteIP == "" {
		return UnknownClient
	}
	return remoteIP
}
