// Package clientip resolves the best-effort client network address of an
// HTTP request. The result is advisory only: it feeds the security audit
// trail and must never be used for access decisions.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client's IP address, preferring proxy headers over
// the raw remote address:
//
//  1. CF-Connecting-IP (CDN)
//  2. X-Forwarded-For (first valid entry)
//  3. X-Real-IP (reverse proxy)
//  4. RemoteAddr fallback
//
// Returns an empty string when nothing parseable is found.
func FromRequest(r *http.Request) string {
	if ip := normalize(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for entry := range strings.SplitSeq(forwarded, ",") {
			if ip := normalize(entry); ip != "" {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may already be a bare IP.
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize validates an IP string and returns its canonical form, or an
// empty string for unparseable input.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
