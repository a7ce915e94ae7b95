// Package identity resolves the acting user for a request and carries it in
// the request context.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// WithUser returns a copy of ctx carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUser, userID)
}

// UserFromContext returns the acting user id or "" if none was attached.
func UserFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUser).(string); ok {
		return v
	}
	return ""
}

// Resolver maps request credentials to a user id.
// Requests without a bearer token act as the default user.
type Resolver struct {
	defaultUser string
	secret      []byte
}

func NewResolver(defaultUser, secret string) *Resolver {
	return &Resolver{defaultUser: defaultUser, secret: []byte(secret)}
}

var errBadToken = errors.New("invalid bearer token")

// Resolve returns the user id for r.
func (res *Resolver) Resolve(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if len(res.secret) == 0 || !strings.HasPrefix(h, "Bearer ") {
		return res.defaultUser, nil
	}
	token, err := jwt.Parse(strings.TrimPrefix(h, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		return res.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errBadToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errBadToken
	}
	return sub, nil
}

// Middleware attaches the resolved user to the request context and rejects
// requests carrying an invalid token.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := res.Resolve(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// IssueToken signs a short-lived HS256 token for userID. Used by tests and
// operators to act as a specific user.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
