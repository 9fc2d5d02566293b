package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// OriginPolicy decides which browser origins may call the API. Exact origins
// match as given; the suffix admits any subdomain of one host. An empty policy
// admits everything, which is what local development wants.
type OriginPolicy struct {
	exact  []string
	suffix string
}

func NewOriginPolicy(origins []string, suffix string) OriginPolicy {
	exact := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			exact = append(exact, o)
		}
	}
	suffix = strings.TrimSpace(suffix)
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return OriginPolicy{exact: exact, suffix: strings.ToLower(suffix)}
}

func (p OriginPolicy) open() bool {
	return len(p.exact) == 0 && p.suffix == ""
}

// Allowed reports whether origin may connect. Requests without an Origin
// header come from non-browser clients and are let through.
func (p OriginPolicy) Allowed(origin string) bool {
	if origin == "" || p.open() {
		return true
	}
	if slices.Contains(p.exact, origin) {
		return true
	}
	if p.suffix == "" {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return strings.HasSuffix(host, p.suffix) || host == strings.TrimPrefix(p.suffix, ".")
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !s.origins.Allowed(origin) {
			http.Error(w, "forbidden origin", http.StatusForbidden)
			return
		}

		if origin != "" {
			if s.origins.open() {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		}

		// websocket upgrades go straight to the handler
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
