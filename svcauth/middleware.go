package svcauth

import (
	"context"
	"net/http"
	"strings"
)

// TokenInfo identifies the calling service on guarded requests.
type TokenInfo struct {
	ServiceName string
	ClientID    string
}

type tokenInfoContextKey struct{}

// TokenInfoFromContext recovers the caller identity placed by RequireServiceToken.
func TokenInfoFromContext(ctx context.Context) (TokenInfo, bool) {
	info, ok := ctx.Value(tokenInfoContextKey{}).(TokenInfo)
	return info, ok
}

// RequireServiceToken guards inbound routes that only cooperating services
// may call. It validates the bearer token via introspection and exposes the
// caller identity through the request context.
func RequireServiceToken(service *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if service == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			info := service.Introspect(token)
			if !info.Active {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), tokenInfoContextKey{}, TokenInfo{
				ServiceName: info.ServiceName,
				ClientID:    info.ClientID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
