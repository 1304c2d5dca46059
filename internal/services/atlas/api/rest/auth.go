package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ravencote/lorekeep/internal/platform/requestctx"
)

// bearerPrefix is matched case-insensitively per RFC 6750.
const bearerPrefix = "bearer "

// authenticate resolves the caller identity from a bearer token and stores it
// on the request context. Requests without a token pass through anonymously;
// the engine turns missing identity into an unauthenticated failure, which
// keeps "no caller" distinct from "caller lacks permission". A present but
// invalid token is rejected here.
func authenticate(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			writeErrorStatus(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unsupported authorization scheme")
			return
		}
		userID, err := subjectFromToken(secret, strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			writeErrorStatus(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithUserID(r.Context(), userID)))
	})
}

// subjectFromToken verifies an HS256 token and returns its subject claim.
func subjectFromToken(secret []byte, token string) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("token secret is not configured")
	}
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return "", fmt.Errorf("token is not valid")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}
	return subject, nil
}
