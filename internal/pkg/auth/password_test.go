package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("presensia-admin")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "presensia-admin" {
		t.Fatal("hash equals the plaintext")
	}

	if !CheckPassword(hash, "presensia-admin") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Error("malformed hash accepted")
	}
}
