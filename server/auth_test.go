package main

import (
	"errors"
	"strings"
	"testing"
)

func TestRegisterLoginValidate(t *testing.T) {
	db := openTestDB(t)
	a := NewAuth(db)

	id, token, err := a.Register("  ace  ", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	gotID, claims, err := a.ValidateToken(token)
	if err != nil || gotID != id || claims.Username != "ace" || claims.Guest {
		t.Errorf("token did not round trip: id=%d claims=%+v err=%v", gotID, claims, err)
	}

	loginID, _, err := a.Login("ace", "secret", "1.2.3.4")
	if err != nil || loginID != id {
		t.Errorf("login: id=%d err=%v", loginID, err)
	}
	if _, _, err := a.Login("ace", "wrong", "1.2.3.4"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
	if _, _, err := a.Login("nobody", "secret", "1.2.3.4"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	a := NewAuth(openTestDB(t))

	if _, _, err := a.Register("a", "secret"); err == nil {
		t.Error("short username should fail")
	}
	if _, _, err := a.Register(strings.Repeat("x", maxUsernameLen+1), "secret"); err == nil {
		t.Error("long username should fail")
	}
	if _, _, err := a.Register("pilot", "abc"); err == nil {
		t.Error("short password should fail")
	}
	a.Register("pilot", "secret")
	if _, _, err := a.Register("pilot", "secret"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestGuestCannotLogIn(t *testing.T) {
	a := NewAuth(openTestDB(t))
	id, name, token, err := a.Guest()
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	if !strings.HasPrefix(name, "Guest_") {
		t.Errorf("unexpected guest name %q", name)
	}
	gotID, claims, err := a.ValidateToken(token)
	if err != nil || gotID != id || !claims.Guest {
		t.Errorf("guest token: id=%d claims=%+v err=%v", gotID, claims, err)
	}
	if _, _, err := a.Login(name, "", "ip"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("guest without password must not log in, got %v", err)
	}
}

func TestTokenTamperingRejected(t *testing.T) {
	a := NewAuth(openTestDB(t))
	_, token, _ := a.Register("pilot", "secret")

	for _, bad := range []string{"", "garbage", token + "x", token[:len(token)-2]} {
		if _, _, err := a.ValidateToken(bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%q: expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestSecretSurvivesRestart(t *testing.T) {
	db := openTestDB(t)
	_, token, _ := NewAuth(db).Register("pilot", "secret")
	if _, _, err := NewAuth(db).ValidateToken(token); err != nil {
		t.Errorf("token should validate after restart: %v", err)
	}
	if _, _, err := NewAuth(openTestDB(t)).ValidateToken(token); err == nil {
		t.Error("token must not validate against another server's secret")
	}
}

func TestLoginRateLimit(t *testing.T) {
	a := NewAuth(openTestDB(t))
	for i := 0; i < maxLoginAttempts; i++ {
		if _, _, err := a.Login("nobody", "x", "9.9.9.9"); errors.Is(err, ErrRateLimited) {
			t.Fatalf("attempt %d limited too early", i+1)
		}
	}
	if _, _, err := a.Login("nobody", "x", "9.9.9.9"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if _, _, err := a.Login("nobody", "x", "8.8.8.8"); errors.Is(err, ErrRateLimited) {
		t.Error("other addresses should not be limited")
	}
}
