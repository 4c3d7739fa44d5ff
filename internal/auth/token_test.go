package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testManager(accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManager("test-secret", "pocket-ledger", accessTTL, refreshTTL)
}

// TestIssueAndVerifyPair проверяет выпуск и проверку пары токенов.
func TestIssueAndVerifyPair(t *testing.T) {
	m := testManager(time.Minute, time.Hour)
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := m.IssuePair(userID, refreshID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := m.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Kind != KindAccess {
		t.Fatalf("expected access kind, got %s", claims.Kind)
	}

	refreshClaims, err := m.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshClaims.ID != refreshID.String() {
		t.Fatalf("expected token id %s, got %s", refreshID, refreshClaims.ID)
	}
}

// TestVerifyRejectsWrongKind проверяет, что refresh-токен не проходит как
// access и наоборот.
func TestVerifyRejectsWrongKind(t *testing.T) {
	m := testManager(time.Minute, time.Hour)

	pair, err := m.IssuePair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to fail access verification")
	}
	if _, err := m.VerifyRefresh(pair.AccessToken); err == nil {
		t.Fatal("expected access token to fail refresh verification")
	}
}

// TestVerifyRejectsExpired проверяет отбраковку просроченного токена.
func TestVerifyRejectsExpired(t *testing.T) {
	m := testManager(-time.Minute, time.Hour)

	pair, err := m.IssuePair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

// TestVerifyRejectsForeignSecret проверяет отбраковку чужой подписи.
func TestVerifyRejectsForeignSecret(t *testing.T) {
	pair, err := testManager(time.Minute, time.Hour).IssuePair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewTokenManager("other-secret", "pocket-ledger", time.Minute, time.Hour)
	if _, err := other.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected a token signed with another secret to be rejected")
	}
}

// TestBearerToken проверяет разбор заголовка Authorization.
func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer   spaced  ", "spaced", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"Bearerabc", "", false},
	}

	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: expected (%q, %v), got (%q, %v)", tc.header, tc.token, tc.ok, token, ok)
		}
	}
}

// TestFingerprintMatches проверяет отпечатки refresh-токенов.
func TestFingerprintMatches(t *testing.T) {
	fingerprint := FingerprintToken("raw-token")
	if len(fingerprint) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(fingerprint))
	}
	if !FingerprintMatches(fingerprint, "raw-token") {
		t.Fatal("expected fingerprint to match its token")
	}
	if FingerprintMatches(fingerprint, "other-token") {
		t.Fatal("expected a different token to mismatch")
	}
}

// TestPasswordRoundtrip проверяет хэширование и проверку пароля.
func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ComparePassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
}
