// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package auth

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

var (
	lowerRe  = regexp.MustCompile(`[a-z]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[^\w\s]`)
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordIssues lists every policy rule password breaks, in a fixed order.
// An empty result means the password is acceptable.
func PasswordIssues(password string) []string {
	var issues []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		issues = append(issues, fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
	}
	if !lowerRe.MatchString(password) {
		issues = append(issues, "Password must include a lowercase letter.")
	}
	if !upperRe.MatchString(password) {
		issues = append(issues, "Password must include an uppercase letter.")
	}
	if !digitRe.MatchString(password) {
		issues = append(issues, "Password must include a number.")
	}
	if !symbolRe.MatchString(password) {
		issues = append(issues, "Password must include a symbol.")
	}
	return issues
}
