// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package authz

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/models"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer("")
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	return e
}

func TestEnforcer_DefaultPolicy(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{models.RoleUser, ObjectMovies, ActionRead, true},
		{models.RoleUser, ObjectMovies, ActionWrite, false},
		{models.RoleUser, ObjectRatings, ActionWrite, true},
		{models.RoleUser, ObjectRatings, ActionDelete, true},
		{models.RoleUser, ObjectRecommendations, ActionRead, true},
		{models.RoleAdmin, ObjectMovies, ActionWrite, true},
		{models.RoleAdmin, ObjectRatings, ActionWrite, true},
		{models.RoleAdmin, ObjectRecommendations, ActionRead, true},
		{"guest", ObjectMovies, ActionRead, false},
		{"", ObjectRatings, ActionWrite, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.object+"/"+tt.action, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}

	roles, err := e.GetRolesForRole(models.RoleAdmin)
	if err != nil || len(roles) != 1 || roles[0] != models.RoleUser {
		t.Errorf("admin inherits = %v, %v", roles, err)
	}
	if len(e.GetPolicy()) != 4 {
		t.Errorf("policy rules = %d, want 4", len(e.GetPolicy()))
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, user, movies, write\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewEnforcer(path)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if ok, _ := e.Enforce(models.RoleUser, ObjectMovies, ActionWrite); !ok {
		t.Error("policy file should grant user movie writes")
	}
	if ok, _ := e.Enforce(models.RoleUser, ObjectRatings, ActionWrite); ok {
		t.Error("policy file replaces the embedded policy")
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	t.Parallel()

	e := newTestEnforcer(t)
	if err := loadEmbeddedPolicy(e.enforcer, "p, only, two"); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestMiddleware_Authorize(t *testing.T) {
	t.Parallel()

	var gotStatus int
	writeErr := func(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
		gotStatus = status
		http.Error(w, code+": "+message, status)
	}
	mw := NewMiddleware(newTestEnforcer(t), writeErr)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := mw.Authorize(ObjectMovies, ActionWrite)(ok)

	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{"admin", &auth.Claims{UserID: 1, Role: models.RoleAdmin}, http.StatusNoContent},
		{"user", &auth.Claims{UserID: 2, Role: models.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus = 0
			req := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusNoContent && gotStatus != tt.want {
				t.Errorf("error writer status = %d, want %d", gotStatus, tt.want)
			}
		})
	}
}
