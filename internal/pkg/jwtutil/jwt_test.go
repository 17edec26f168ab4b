package jwtutil

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour, 12, "mali", "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 12 || claims.Username != "mali" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _ := GenerateToken("secret", time.Hour, 1, "a", "user")
	expired, _ := GenerateToken("secret", -time.Minute, 1, "a", "user")
	anonymous, _ := GenerateToken("secret", time.Hour, 0, "a", "user")

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other", token: good},
		{name: "expired", secret: "secret", token: expired},
		{name: "garbage", secret: "secret", token: "a.b.c"},
		{name: "no user", secret: "secret", token: anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
