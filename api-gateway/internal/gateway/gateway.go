// Package gateway is the single HTTP ingress in front of core-svc: it terminates auth and
// rate-limiting before reverse-proxying everything else through untouched.
package gateway

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/httpmw"
	"github.com/foodcourt-platform/platform/identity"
	"github.com/foodcourt-platform/platform/ratelimit"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	CoreSvcURL     string
	ProviderSecret string
}

type Gateway struct {
	config  Config
	client  HTTPClient
	limiter *ratelimit.Limiter
}

func NewGateway(config Config, client HTTPClient, limiter *ratelimit.Limiter) *Gateway {
	return &Gateway{config: config, client: client, limiter: limiter}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httpmw.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "api-gateway"})
}

// publicPrefixes are forwarded without a bearer token: the bootstrap session endpoint and the
// provider webhooks, which authenticate by signature instead (spec §6).
var publicPrefixes = []string{
	"/health",
	"/api/auth/session",
	"/api/payments/webhooks/",
}

func isPublic(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireAuth checks the bearer token's signature and freshness before letting the request
// through. It never resolves a Principal — that authorization decision belongs to core-svc,
// which holds the Store and ScopeResolver this gateway deliberately does not.
func (g *Gateway) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			httpmw.WriteError(w, apierr.New(apierr.Unauthenticated, "missing bearer token"))
			return
		}

		env, sig, err := identity.Parse(token)
		if err != nil {
			httpmw.WriteError(w, apierr.Wrap(apierr.Unauthenticated, "malformed session token", err))
			return
		}
		if err := identity.Verify(env, sig, g.config.ProviderSecret); err != nil {
			httpmw.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit keys the fixed-window limiter by principal subject once authenticated, falling
// back to the remote address for the still-anonymous bootstrap path (spec §6).
func (g *Gateway) RateLimit(next http.Handler) http.Handler {
	if g.limiter == nil {
		return next
	}
	return g.limiter.Middleware(rateLimitKey, httpmw.WriteError)(next)
}

func rateLimitKey(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token != "" && token != header {
		if env, _, err := identity.Parse(token); err == nil {
			if subject, ok := env["subject"]; ok {
				return subject
			}
		}
	}
	return r.RemoteAddr
}

func (g *Gateway) ProxyToCore(w http.ResponseWriter, r *http.Request) {
	url := g.config.CoreSvcURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Printf("[api-gateway] failed to build proxied request: %v", err)
		httpmw.WriteError(w, apierr.Wrap(apierr.Internal, "failed to proxy request", err))
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[api-gateway] core-svc unreachable: %v", err)
		httpmw.WriteError(w, apierr.Wrap(apierr.ProviderUnavailable, "core-svc unreachable", err))
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("[api-gateway] failed to stream response body: %v", err)
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.ProxyToCore)
	return g.RateLimit(g.RequireAuth(r))
}
