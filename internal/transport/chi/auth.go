package chi

import (
	"net/http"
	"strings"
)

// Probes and scrapers reach these without a key.
var openPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKeyAuth guards the search API with bearer API keys. Blank keys are ignored; with
// none left every request passes. CORS preflights and openPaths are never challenged.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, open := openPaths[r.URL.Path]; open || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if msg := checkAPIKey(r.Header.Get("Authorization"), keys); msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="menurank"`)
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkAPIKey returns the rejection message, "" when the header carries a known key.
// The scheme name is case-insensitive.
func checkAPIKey(header string, keys map[string]struct{}) string {
	if header == "" {
		return "search API key required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "send the search API key as a Bearer token"
	}
	if _, known := keys[strings.TrimSpace(token)]; !known {
		return "unknown search API key"
	}
	return ""
}
