package middleware

import (
	"net/http"
)

// SecurityHeadersMiddleware adds security-related HTTP headers to all responses
// These headers protect against:
// - Clickjacking (X-Frame-Options)
// - MIME sniffing attacks (X-Content-Type-Options)
// - Cross-site scripting (Content-Security-Policy, X-XSS-Protection)
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking: don't allow this page to be embedded in iframes
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME sniffing: browser must respect Content-Type header
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Content Security Policy: restrict what resources can be loaded.
		// The portfolio shell loads its own assets plus Instagram embeds.
		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: https:; " + // portfolio images served from CDN
			"font-src 'self'; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
		w.Header().Set("Content-Security-Policy", csp)

		// XSS Protection: enable browser's XSS filter
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// Referrer Policy: don't send referrer information to external sites
		w.Header().Set("Referrer-Policy", "same-origin")

		// Permissions Policy: disable unnecessary browser features
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
