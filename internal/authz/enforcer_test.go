// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{"admin", "/reports", ActionWrite, true},
		{"worker", "/reports", ActionWrite, true},
		{"viewer", "/reports", ActionWrite, false},
		{"admin", "/reports", ActionRead, true},
		{"worker", "/reports", ActionRead, false},
		{"viewer", "/reports", ActionRead, false},
		{"admin", "/reports/queue", ActionWrite, true},
		{"worker", "/reports/queue", ActionWrite, false},
		{"admin", "/admin/metrics", ActionRead, true},
		{"admin", "/admin/refresh", ActionWrite, true},
		{"worker", "/admin/metrics", ActionRead, false},
		{"viewer", "/admin/metrics", ActionRead, false},
		{"admin", "/ai/summary", ActionWrite, true},
		{"viewer", "/ai/summary", ActionWrite, true},
		{"worker", "/ai/summary", ActionWrite, false},
		{"admin", "/series/1", ActionDelete, false},
		{"", "/reports", ActionWrite, false},
		{"root", "/reports", ActionRead, false},
	}

	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%q, %q, %q) error = %v", tt.role, tt.object, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestPolicyFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, viewer, /reports, read\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := NewEnforcer(&EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	if ok, _ := e.Enforce("viewer", "/reports", ActionRead); !ok {
		t.Error("Expected file policy to allow viewer to read reports")
	}
	if ok, _ := e.Enforce("admin", "/reports", ActionRead); ok {
		t.Error("Expected file policy to replace the embedded one")
	}
}

func TestLoadEmbeddedPolicyRejectsMalformedLine(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := loadEmbeddedPolicy(e.enforcer, "p, admin, /x\n"); err == nil {
		t.Error("Expected an error for a short policy line")
	}
}
