package middleware

import (
	"net/http"
	"strings"
)

// CORSAllowedMethods are the methods the browser front-end may use.
var CORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}

// CORS allows exactly one browser origin. Any request header is accepted.
// Preflight (OPTIONS with Access-Control-Request-Method) is answered with 204
// without reaching the router. An empty origin disables the middleware.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	methods := strings.Join(CORSAllowedMethods, ", ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			allowed := r.Header.Get("Origin") == origin
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					w.Header().Set("Access-Control-Allow-Methods", methods)
					w.Header().Set("Access-Control-Allow-Headers", "*")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
