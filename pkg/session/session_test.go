package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

func TestKVStoreRoundTrip(t *testing.T) {
	st, err := storage.NewSQLite(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer st.Close()

	store := session.NewStore(st)
	want := session.Session{Token: "t1", Role: model.RoleAdmin, Username: "alice"}
	if err := store.Set(want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, key := range []string{session.KeyToken, session.KeyRole, session.KeyUsername} {
		if _, ok, _ := st.Get(key); ok {
			t.Errorf("Clear left %q behind", key)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := map[string]struct {
		stored  map[string]string
		wantErr error
	}{
		"nothing stored": {
			stored:  nil,
			wantErr: session.ErrNoSession,
		},
		"token without role": {
			stored:  map[string]string{session.KeyToken: "t1"},
			wantErr: session.ErrNoSession,
		},
		"role without token": {
			stored:  map[string]string{session.KeyRole: "ADMIN"},
			wantErr: session.ErrNoSession,
		},
		"user role": {
			stored:  map[string]string{session.KeyToken: "t1", session.KeyRole: "USER"},
			wantErr: session.ErrNotAdmin,
		},
		"lowercase admin is not ADMIN": {
			stored:  map[string]string{session.KeyToken: "t1", session.KeyRole: "admin"},
			wantErr: session.ErrNotAdmin,
		},
		"admin": {
			stored:  map[string]string{session.KeyToken: "t1", session.KeyRole: "ADMIN", session.KeyUsername: "root"},
			wantErr: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			st := storage.NewMemory()
			for k, v := range tc.stored {
				_ = st.Set(k, v)
			}

			s, err := session.RequireAdmin(session.NewStore(st))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("RequireAdmin err = %v, want %v", err, tc.wantErr)
			}
			if err == nil && s.Username != "root" {
				t.Errorf("RequireAdmin username = %q, want root", s.Username)
			}
		})
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	claims := session.Claims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	got, ok := session.ExpiresAt(token)
	if !ok {
		t.Fatal("ExpiresAt: expected exp claim")
	}
	if !got.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", got, exp)
	}

	parsed, err := session.ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if parsed.Subject != "alice" || parsed.Role != "ADMIN" {
		t.Errorf("ParseClaims = %+v", parsed)
	}
}

func TestExpiresAtOpaqueToken(t *testing.T) {
	if _, ok := session.ExpiresAt("not-a-jwt"); ok {
		t.Fatal("ExpiresAt: expected no expiry for opaque token")
	}
}
