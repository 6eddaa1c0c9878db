// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("entregas2025")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("entregas2025", hash)
	if err != nil || !ok {
		t.Fatalf("expected password to verify, ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong-password1", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	weak := ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32}
	oldHash, err := hashWithParams("entregas2025", weak)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, newHash, err := VerifyPasswordWithRehash("entregas2025", oldHash)
	if err != nil || !ok {
		t.Fatalf("expected verify, ok=%v err=%v", ok, err)
	}
	if newHash == "" {
		t.Fatal("expected rehash for outdated parameters")
	}

	ok, newHash, err = VerifyPasswordWithRehash("entregas2025", newHash)
	if err != nil || !ok || newHash != "" {
		t.Fatalf("current hash should not rehash: ok=%v new=%q err=%v", ok, newHash, err)
	}
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything1", nil)
	if ok || newHash != "" || err != nil {
		t.Fatalf("nil hash must never verify: ok=%v new=%q err=%v", ok, newHash, err)
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "$bcrypt$nope"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestPasswordHasLettersAndDigits(t *testing.T) {
	cases := map[string]bool{
		"abcdef":   false,
		"123456":   false,
		"abc123":   true,
		"Baru2025": true,
	}
	for pw, want := range cases {
		if got := PasswordHasLettersAndDigits(pw); got != want {
			t.Errorf("PasswordHasLettersAndDigits(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestCompareTokenHash(t *testing.T) {
	token, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !CompareTokenHash(token, HashToken(token)) {
		t.Fatal("expected token to match its own hash")
	}
	if CompareTokenHash(token+"x", HashToken(token)) {
		t.Fatal("expected mismatch for altered token")
	}
}
