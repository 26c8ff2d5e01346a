package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

const maxKeyLength = 64

// KeyFunc derives the rate limit key of a request.
type KeyFunc func(*http.Request) string

// KeyByIP uses the host part of RemoteAddr. Put chi's RealIP middleware
// in front when running behind a proxy.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyByPath uses the method and URL path.
func KeyByPath(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// replaced by a 128-bit SHA-256 prefix.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		key := strings.Join(parts, ":")
		if len(key) > maxKeyLength {
			sum := sha256.Sum256([]byte(key))
			return hex.EncodeToString(sum[:16])
		}
		return key
	}
}
