package auth

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", 1)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %s, want user-1", claims.Subject)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", 1)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if _, err := ValidateJWT(token, "other-secret"); err == nil {
		t.Fatal("ValidateJWT accepted a token signed with a different secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("hunter3", hash) {
		t.Fatal("wrong password accepted")
	}
}
