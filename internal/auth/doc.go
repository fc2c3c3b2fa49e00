// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package auth provides token authentication and password handling.

Key Components:

  - JWTManager: HS256 access tokens carrying the username as subject and
    the account role
  - HashPassword / VerifyPassword: bcrypt with cost 12
  - PasswordIssues: the registration password policy
  - Authenticate: middleware that resolves the bearer token (or the "token"
    cookie) into Claims on the request context

Authentication Flow:

	POST /auth/login {username, password}
	    -> VerifyPassword against the stored hash
	    -> GenerateToken(username, role)
	    <- {access_token, token_type: "bearer", expires_in}

	GET /reports  Authorization: Bearer <token>
	    -> Authenticate: 401 "Not authenticated" without a token,
	       401 "Invalid authentication credentials" for a bad one
	    -> authz.Authorize decides on the role

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	r.With(auth.Authenticate(jwtManager)).Get("/reports", h.ListReports)
*/
package auth
