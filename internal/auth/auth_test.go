package auth

import (
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	token, err := s.Sign("editor@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "editor@example.com" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a", time.Hour).Sign("u", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSigner("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	s := NewSigner("test-secret", -time.Minute)
	token, err := s.Sign("u", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Verify(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	if _, err := s.Verify("not.a.token"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"Bearer   spaced  ", "spaced", true},
		{"Bearer ", "", false},
		{"Basic abc123", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		token, ok := ExtractBearer(c.header)
		if token != c.token || ok != c.ok {
			t.Errorf("ExtractBearer(%q) = %q, %v; want %q, %v", c.header, token, ok, c.token, c.ok)
		}
	}
}
