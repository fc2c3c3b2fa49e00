// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "test-secret-key", AccessMinutes: 60})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		wantErr bool
	}{
		{"valid", config.SecurityConfig{JWTSecret: "s", AccessMinutes: 15}, false},
		{"empty secret", config.SecurityConfig{AccessMinutes: 15}, true},
		{"zero lifetime", config.SecurityConfig{JWTSecret: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewJWTManager(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewJWTManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && m.TTL() != time.Duration(tt.cfg.AccessMinutes)*time.Minute {
				t.Errorf("TTL() = %v", m.TTL())
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.GenerateToken("alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username() != "alice" {
		t.Errorf("Username() = %q, want alice", claims.Username())
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("Expected exp and iat claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("Token lifetime = %v, want 1h", got)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken("bob", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "another-secret", AccessMinutes: 60})
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.GenerateToken("mallory", "admin")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "mallory"},
	})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "admin"})
	noSubjectToken, err := noSubject.SignedString([]byte("test-secret-key"))
	if err != nil {
		t.Fatal(err)
	}

	good, _ := m.GenerateToken("alice", "admin")
	sig := strings.LastIndex(good, ".") + 1
	flipped := byte('A')
	if good[sig] == 'A' {
		flipped = 'B'
	}
	tampered := good[:sig] + string(flipped) + good[sig+1:]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"alg none", noneToken},
		{"missing subject", noSubjectToken},
		{"tampered signature", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken(%q) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestTokenHasThreeSegments(t *testing.T) {
	t.Parallel()

	token, err := newTestManager(t).GenerateToken("alice", "viewer")
	if err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d segments, want 3", len(parts))
	}
}
