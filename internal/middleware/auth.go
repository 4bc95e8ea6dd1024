package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/store"
)

// bearer reads the token from the Authorization header. Browsers cannot set
// headers on a websocket upgrade, so a token query parameter is accepted too.
func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireAuth resolves the bearer token to a member and populates AuthContext.
func RequireAuth(members *store.MemberStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID, secret, err := auth.ParseToken(bearer(r))
			if err != nil {
				unauthorized(w)
				return
			}

			hash, err := members.TokenHash(memberID)
			if err != nil || hash == "" || !auth.VerifySecret(hash, secret) {
				unauthorized(w)
				return
			}

			member, err := members.GetByID(memberID)
			if err != nil || member == nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{
				MemberID: member.ID,
				FamilyID: member.FamilyID,
				Role:     member.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireParent rejects requests from anyone but a parent.
func RequireParent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok || ac.Role != model.RoleParent {
			writeError(w, http.StatusForbidden, "parent role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="starcoin"`)
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
