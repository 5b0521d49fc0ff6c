package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/regvalidate/internal/logging"
)

// APIKeyHeader carries the caller's key on /api routes.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards the validation routes. A request without a key gets 401,
// one with an unknown key 403. An empty key list leaves the routes open.
func APIKeyAuth(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(APIKeyHeader)
			status, code := http.StatusUnauthorized, "AUTH_MISSING_KEY"
			switch {
			case presented == "":
			case !knownKey(presented, keys):
				status, code = http.StatusForbidden, "AUTH_INVALID_KEY"
			default:
				next.ServeHTTP(w, r)
				return
			}
			logging.FromContext(r.Context()).Warn("api key rejected",
				"code", code,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			deny(w, status, code)
		})
	}
}

var denyMessages = map[string]string{
	"AUTH_MISSING_KEY": "missing API key",
	"AUTH_INVALID_KEY": "invalid API key",
}

func deny(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + denyMessages[code] + `","code":"` + code + `"}`))
}

// knownKey checks every configured key so the time taken does not depend on
// which one matched.
func knownKey(presented string, keys []string) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(presented), []byte(k))
	}
	return match == 1
}
