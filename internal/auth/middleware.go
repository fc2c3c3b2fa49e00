// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
)

// TokenCookieName is the cookie consulted when no Authorization header is sent.
const TokenCookieName = "token"

// 401 messages.
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidCredentials = "Invalid authentication credentials"
)

type contextKey struct{}

// ContextWithClaims attaches claims to ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}

// Authenticate rejects requests without a valid token and stores the
// claims on the request context for the handlers behind it.
func Authenticate(jwtManager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, MsgNotAuthenticated, nil)
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
				w.Header().Set("WWW-Authenticate", "Bearer")
				middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, MsgInvalidCredentials, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// extractToken reads "Authorization: Bearer <token>" or the token cookie.
// A malformed Authorization header counts as no token.
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
