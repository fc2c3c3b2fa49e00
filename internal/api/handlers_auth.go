// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/auth"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/middleware"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUserExists         = "User already exists"
	msgWeakPassword       = "Password does not meet the policy"
)

// dummyHash is compared against when the user does not exist.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("not-a-real-password")
	return h
})

// Login handles POST /auth/login. The token is returned in the body and
// also set as an HttpOnly cookie for browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.deps.Store.GetUserByUsername(r.Context(), req.Username)
	switch {
	case errors.Is(err, database.ErrUserNotFound):
		// Burn a hash comparison so unknown users take as long as bad passwords.
		auth.VerifyPassword(dummyHash(), req.Password)
		h.loginFailed(w, r, req.Username)
		return
	case err != nil:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}
	if !auth.VerifyPassword(user.HashedPassword, req.Password) {
		h.loginFailed(w, r, req.Username)
		return
	}

	token, err := h.deps.JWT.GenerateToken(user.Username, user.Role)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}

	ttl := h.deps.JWT.TTL()
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.deps.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	logging.Ctx(r.Context()).Info().Str("user", user.Username).Str("role", user.Role).Msg("login succeeded")
	middleware.WriteSuccess(w, http.StatusOK, models.Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
	})
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, username string) {
	logging.Ctx(r.Context()).Info().Str("user", username).Msg("login failed")
	w.Header().Set("WWW-Authenticate", "Bearer")
	middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, msgInvalidCredentials, nil)
}

// Register handles POST /auth/register. New accounts are viewers.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if issues := auth.PasswordIssues(req.Password); len(issues) > 0 {
		middleware.WriteAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    middleware.CodeValidation,
			Message: msgWeakPassword,
			Details: map[string]interface{}{"issues": issues},
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}

	user, err := h.deps.Store.CreateUser(r.Context(), req.Username, hashed, models.RoleViewer)
	switch {
	case errors.Is(err, database.ErrUserExists):
		middleware.WriteError(w, http.StatusConflict, middleware.CodeConflict, msgUserExists, nil)
		return
	case err != nil:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, msgInternal, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user", user.Username).Msg("account registered")
	middleware.WriteSuccess(w, http.StatusCreated, map[string]string{"status": "created"})
}
