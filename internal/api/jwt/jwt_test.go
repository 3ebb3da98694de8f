package jwt

import (
	"testing"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(42, "ada@example.org")
	if err != nil {
		t.Fatalf("GenerateJWT error = %v", err)
	}
	userId, email, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken error = %v", err)
	}
	if userId != 42 {
		t.Errorf("userId = %d, want 42", userId)
	}
	if email != "ada@example.org" {
		t.Errorf("email = %q, want ada@example.org", email)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken accepted garbage")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(7, "grace@example.org")
	if err != nil {
		t.Fatalf("GenerateJWT error = %v", err)
	}
	t.Setenv("JWT_SECRET", "other-secret")
	if _, _, err := ValidateToken(token); err == nil {
		t.Error("ValidateToken accepted token signed with another secret")
	}
}
