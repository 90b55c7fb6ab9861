package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/stockroom/internal/catalog"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return token
}

func loginResponse(token string) *catalog.LoginResponse {
	return &catalog.LoginResponse{
		ID:          1,
		Username:    "emilys",
		Email:       "emily@example.com",
		FirstName:   "Emily",
		LastName:    "Johnson",
		AccessToken: token,
	}
}

func TestBegin_RememberedSessionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.toml")
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	store := NewStore(path, nil)
	sess, err := store.Begin(loginResponse(signedToken(t, exp)), true)
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if sess.DisplayName != "Emily Johnson" || !sess.ExpiresAt.Equal(exp) {
		t.Fatalf("session = %#v, want Emily Johnson expiring %v", sess, exp)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %v, want 0600", perm)
	}

	restored, ok := NewStore(path, nil).Restore()
	if !ok {
		t.Fatalf("Restore returned no session")
	}
	if restored.Username != "emilys" || !restored.Remembered || restored.AccessToken != sess.AccessToken {
		t.Fatalf("restored = %#v, want remembered emilys", restored)
	}
}

func TestBegin_NotRememberedRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := NewStore(path, nil)
	if _, err := store.Begin(loginResponse("opaque-token"), true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}

	if _, err := store.Begin(loginResponse("opaque-token"), false); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file should be removed, stat err = %v", err)
	}
	if _, ok := store.Current(); !ok {
		t.Fatalf("in-memory session should remain")
	}
}

func TestBegin_RejectsMissingToken(t *testing.T) {
	store := NewStore("", nil)
	if _, err := store.Begin(&catalog.LoginResponse{Username: "x"}, false); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if _, err := store.Begin(nil, false); err == nil {
		t.Fatalf("expected error for nil response")
	}
}

func TestRestore_ExpiredSessionIsRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := NewStore(path, nil)
	if _, err := store.Begin(loginResponse(signedToken(t, time.Now().Add(-time.Minute))), true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}

	if _, ok := NewStore(path, nil).Restore(); ok {
		t.Fatalf("expired session should not restore")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expired session file should be removed, stat err = %v", err)
	}
}

func TestBegin_WritesExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := NewStore(path, nil)
	if _, err := store.Begin(loginResponse(signedToken(t, time.Now().Add(time.Hour))), true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "expires_at") {
		t.Fatalf("session file missing expires_at:\n%s", data)
	}
	sess, ok := NewStore(path, nil).Restore()
	if !ok || sess.ExpiresAt.IsZero() {
		t.Fatalf("Restore = %+v, %v; want session with expiry", sess, ok)
	}
}

func TestRestore_ExpiryReadFromToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	token := signedToken(t, time.Now().Add(-time.Minute))
	body := "username = \"emilys\"\naccess_token = \"" + token + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok := NewStore(path, nil).Restore(); ok {
		t.Fatalf("session with an expired token should not restore")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expired session file should be removed, stat err = %v", err)
	}
}

func TestRestore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("username = \"x\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok := NewStore(path, nil).Restore(); ok {
		t.Fatalf("session without token should not restore")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("malformed file should be removed")
	}
}

func TestRestore_MissingFileAndNoPath(t *testing.T) {
	if _, ok := NewStore(filepath.Join(t.TempDir(), "none.toml"), nil).Restore(); ok {
		t.Fatalf("missing file should not restore")
	}
	if _, ok := NewStore("", nil).Restore(); ok {
		t.Fatalf("empty path should not restore")
	}
}

func TestEnd_ClearsMemoryAndDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	store := NewStore(path, nil)
	if _, err := store.Begin(loginResponse("opaque-token"), true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	store.End()
	if _, ok := store.Current(); ok {
		t.Fatalf("Current should be empty after End")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file should be removed after End")
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	if got := TokenExpiry(signedToken(t, exp)); !got.Equal(exp) {
		t.Fatalf("TokenExpiry = %v, want %v", got, exp)
	}
	if got := TokenExpiry(signedToken(t, time.Time{})); !got.IsZero() {
		t.Fatalf("TokenExpiry without exp = %v, want zero", got)
	}
	if got := TokenExpiry("not-a-jwt"); !got.IsZero() {
		t.Fatalf("TokenExpiry for opaque token = %v, want zero", got)
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	if (Session{}).Expired(now) {
		t.Fatalf("session without expiry should never expire")
	}
	if !(Session{ExpiresAt: now.Add(-time.Second)}).Expired(now) {
		t.Fatalf("past expiry should be expired")
	}
	if (Session{ExpiresAt: now.Add(time.Second)}).Expired(now) {
		t.Fatalf("future expiry should not be expired")
	}
}

func TestRestore_LogsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if _, err := NewStore(path, nil).Begin(loginResponse(signedToken(t, time.Now().Add(time.Hour))), true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	if _, ok := NewStore(path, zap.New(core)).Restore(); !ok {
		t.Fatalf("session should restore")
	}
	if got := logs.FilterMessage("Session restored").Len(); got != 1 {
		t.Fatalf("Session restored logged %d times, want 1", got)
	}
}
