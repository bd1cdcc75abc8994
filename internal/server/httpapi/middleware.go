package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/anovikov/journalvault/internal/server/auth"
	"github.com/anovikov/journalvault/internal/server/services"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	roleKey   ctxKey = "role"
)

// authenticate extracts the bearer token and stores the (userID, role) pair
// in the request context. Requests without a valid token are rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, role, err := auth.GetUserFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestingUser(r *http.Request) (string, string) {
	userID, _ := r.Context().Value(userIDKey).(string)
	role, _ := r.Context().Value(roleKey).(string)
	return userID, role
}

// requestInfo captures the transport context recorded on audit rows.
func requestInfo(r *http.Request) services.RequestInfo {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	_, role := requestingUser(r)
	return services.RequestInfo{
		Source:    "http",
		Role:      role,
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
