package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/api"
	"github.com/prattikkk/Incubyte/internal/config"
	"github.com/prattikkk/Incubyte/internal/models"
	"github.com/prattikkk/Incubyte/internal/session"
)

type authFixture struct {
	auth   *AuthService
	sweets *SweetService
	store  *session.Store
}

// newAuthFixture wires the real client stack (store as the client's token
// source) against a handler standing in for the backend.
func newAuthFixture(t *testing.T, handler http.HandlerFunc) authFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewFileStorage(filepath.Join(t.TempDir(), "session.json")), zerolog.Nop())
	client := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, store, zerolog.Nop())

	return authFixture{
		auth:   NewAuthService(client, store, zerolog.Nop()),
		sweets: NewSweetService(client, zerolog.Nop()),
		store:  store,
	}
}

func TestAuthService_LoginThenPurchaseCarriesBearer(t *testing.T) {
	var purchaseAuth string
	fx := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var creds map[string]string
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if creds["username"] != "alice" || creds["password"] != "secret123" {
				t.Errorf("login body = %v, want alice/secret123", creds)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"username":  "alice",
				"roles":     []string{"ROLE_USER"},
				"token":     "abc",
				"expiresAt": time.Now().Add(time.Hour).Format(time.RFC3339),
			})
		case "/api/sweets/42/purchase":
			purchaseAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"id":42,"name":"Ladoo","category":"Indian","price":2.5,"quantity":9}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	sess, err := fx.auth.Login(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(sess.Roles) != 1 || sess.Roles[0] != models.RoleUser {
		t.Errorf("Roles = %v, want [ROLE_USER]", sess.Roles)
	}

	if _, err := fx.sweets.Purchase(context.Background(), 42, 1); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if purchaseAuth != "Bearer abc" {
		t.Errorf("purchase Authorization = %q, want %q", purchaseAuth, "Bearer abc")
	}
}

func TestAuthService_LoginFailureLeavesPriorSession(t *testing.T) {
	fx := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password"}`))
	})

	prior := models.Session{
		Username:  "bob",
		Roles:     []string{models.RoleUser},
		Token:     "prior-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := fx.store.Set(prior); err != nil {
		t.Fatalf("Set prior session: %v", err)
	}

	_, err := fx.auth.Login(context.Background(), "bob", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	current, ok := fx.store.Current()
	if !ok || current.Token != "prior-token" {
		t.Errorf("prior session should survive a failed login, got %v, %v", current, ok)
	}
}

func TestAuthService_LoginValidatesInputLocally(t *testing.T) {
	fx := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("blank credentials must not reach the backend")
	})

	if _, err := fx.auth.Login(context.Background(), "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, ok := fx.store.Current(); ok {
		t.Error("store should stay anonymous")
	}
}

func TestAuthService_LoginUnreachableBackend(t *testing.T) {
	store := session.NewStore(session.NewFileStorage(filepath.Join(t.TempDir(), "session.json")), zerolog.Nop())
	client := api.New(config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, store, zerolog.Nop())
	auth := NewAuthService(client, store, zerolog.Nop())

	_, err := auth.Login(context.Background(), "alice", "secret123")
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("transport failure should not read as bad credentials: %v", err)
	}
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	fx := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	sess := models.Session{Username: "alice", Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := fx.store.Set(sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := fx.auth.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := fx.auth.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if _, ok := fx.store.Token(); ok {
		t.Error("no token should remain after logout")
	}
}

func TestAuthService_RegisterMapsBackendRejection(t *testing.T) {
	fx := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"username already taken"}`))
	})

	err := fx.auth.Register(context.Background(), "alice", "alice@example.com", "secret123")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
