package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware answers preflight requests and sets the allow headers.
// An empty origin list or a "*" entry allows any origin.
type CORSMiddleware struct {
	origins  map[string]struct{}
	allowAll bool
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			m.allowAll = true
		}
		m.origins[o] = struct{}{}
	}
	if len(m.origins) == 0 {
		m.allowAll = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		switch {
		case m.allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := m.origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
