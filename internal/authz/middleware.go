// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package authz

import (
	"net/http"
	"strings"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/metrics"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
)

// APIPrefix is stripped from request paths before enforcement.
const APIPrefix = "/api/v1"

// MsgForbidden is the 403 message.
const MsgForbidden = "Insufficient privileges"

// Authorize checks the authenticated role against the policy. It must run
// behind auth.Authenticate; a request without claims is rejected with 401.
func Authorize(enforcer *Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, auth.MsgNotAuthenticated, nil)
				return
			}

			object := ObjectForPath(r.URL.Path)
			action := methodToAction(r.Method)

			allowed, err := enforcer.Enforce(claims.Role, object, action)
			if err != nil {
				metrics.RecordAuthzDecision(claims.Role, "error")
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, "Internal server error", nil)
				return
			}

			if !allowed {
				metrics.RecordAuthzDecision(claims.Role, "deny")
				logging.Ctx(r.Context()).Info().
					Str("user", claims.Username()).
					Str("role", claims.Role).
					Str("object", object).
					Str("action", action).
					Msg("Access denied")
				middleware.WriteError(w, http.StatusForbidden, middleware.CodeForbidden, MsgForbidden, nil)
				return
			}

			metrics.RecordAuthzDecision(claims.Role, "allow")
			next.ServeHTTP(w, r)
		})
	}
}

// ObjectForPath maps a request path to a policy object.
func ObjectForPath(path string) string {
	if rest, ok := strings.CutPrefix(path, APIPrefix); ok && (rest == "" || rest[0] == '/') {
		path = rest
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
