package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/database"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/store"
)

func setupMembers(t *testing.T) (*store.MemberStore, *model.Member, string) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f, err := store.NewFamilyStore(db).Create("Lin")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	ms := store.NewMemberStore(db)
	m, err := ms.Create(f.ID, "Xiaoming", model.RoleChild, "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	token, hash, err := auth.NewToken(m.ID)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if err := ms.SetTokenHash(m.ID, hash); err != nil {
		t.Fatalf("set token: %v", err)
	}
	return ms, m, token
}

func TestRequireAuthMissingToken(t *testing.T) {
	ms, _, _ := setupMembers(t)

	handler := RequireAuth(ms)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}
}

func TestRequireAuthWrongSecret(t *testing.T) {
	ms, m, _ := setupMembers(t)

	handler := RequireAuth(ms)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	for _, header := range []string{"Bearer " + m.ID + ".not-the-secret", "Basic abc", "Bearer garbage"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: status = %d, want %d", header, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	ms, m, token := setupMembers(t)

	var got auth.AuthContext
	handler := RequireAuth(ms)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.MemberID != m.ID || got.FamilyID != m.FamilyID || got.Role != model.RoleChild {
		t.Errorf("auth context = %+v", got)
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	ms, _, token := setupMembers(t)

	handler := RequireAuth(ms)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireParent(t *testing.T) {
	handler := RequireParent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		role model.Role
		want int
	}{
		{"parent", model.RoleParent, http.StatusOK},
		{"child", model.RoleChild, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{MemberID: "m", FamilyID: "f", Role: tt.role}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("no auth: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
