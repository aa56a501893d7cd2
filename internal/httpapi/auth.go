package httpapi

import (
	"context"
	"net/http"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/platform/auth"
)

const (
	HeaderEmployeeID   = "X-Employee-ID"
	HeaderEmployeeRole = "X-Employee-Role"
)

type identityKey struct{}

func identityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// authMiddleware resolves the caller from an HS256 bearer token when secret
// is set, otherwise from gateway-supplied identity headers. Paths in public
// skip authentication.
func authMiddleware(secret string, public map[string]bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if public[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		var (
			id  auth.Identity
			err error
		)
		if secret != "" {
			id, err = auth.FromBearer(r.Header.Get("Authorization"), secret)
		} else {
			id, err = auth.FromHeaders(r.Header.Get(HeaderEmployeeID), r.Header.Get(HeaderEmployeeRole))
		}
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, codeUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
