package middleware

import (
	"net/http"

	"github.com/MrEthical07/mediaguard"
)

// RequireDownloadToken checks the token query parameter against the file
// named by the path wildcard param, e.g. "filename" for a route registered
// as "GET /users/audio-download/{filename}". Every failure answers 403.
func RequireDownloadToken(engine *mediaguard.Engine, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			token := r.URL.Query().Get("token")
			filename := r.PathValue(param)
			if token == "" || filename == "" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			if err := engine.AuthorizeDownload(withRequestIP(r), token, filename); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
