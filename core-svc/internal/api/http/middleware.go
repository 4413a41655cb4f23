package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/httpmw"
	"github.com/foodcourt-platform/platform/identity"
)

type principalKey struct{}

// RequireAuth resolves the bearer token via the oracle and stashes the principal in the
// request context (spec §6: "Authentication via a single bearer-token header").
func RequireAuth(oracle *identity.Oracle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				httpmw.WriteError(w, apierr.New(apierr.Unauthenticated, "missing bearer token"))
				return
			}

			principal, err := oracle.ResolvePrincipal(r.Context(), token)
			if err != nil {
				httpmw.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFrom(r *http.Request) *identity.Principal {
	p, _ := r.Context().Value(principalKey{}).(*identity.Principal)
	return p
}
