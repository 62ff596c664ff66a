package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/repos"
	"github.com/muhajirhq/muhajir-backend/internal/requestdata"
)

const testJWTSecret = "unit-test-secret"

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	return NewAuthService(db, log, repos.NewUserRepo(db, log), repos.NewUserTokenRepo(db, log), testJWTSecret, time.Hour, 24*time.Hour)
}

func TestRegisterUserValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "no_at_sign", email: "not-an-email", password: "longenough"},
		{name: "short_password", email: "a@b.com", password: "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(ctx, tc.email, tc.password)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			apiErr, ok := apierr.AsError(err)
			if !ok || apiErr.Code != apierr.CodeInvalidRequest {
				t.Fatalf("err=%v, want %s", err, apierr.CodeInvalidRequest)
			}
		})
	}
}

func TestRegisterUserNormalizesAndRejectsDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "  Fatima@Example.COM ", "secret123")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "fatima@example.com" {
		t.Fatalf("email=%q, want lowercased trimmed form", user.Email)
	}
	if user.DisplayName != "fatima" {
		t.Fatalf("display name=%q, want local part of email", user.DisplayName)
	}
	if user.Password == "secret123" {
		t.Fatalf("password stored in plaintext")
	}

	_, err = svc.RegisterUser(ctx, "fatima@example.com", "othersecret")
	if err == nil {
		t.Fatalf("expected duplicate email rejection")
	}
}

func TestLoginIssuesVerifiableSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.RegisterUser(ctx, "omar@example.com", "secret123")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	user, token, err := svc.LoginUser(ctx, "omar@example.com", "secret123")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("login returned wrong user")
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		t.Fatalf("token pair incomplete: %+v", token)
	}

	verifiedCtx, err := svc.SetContextFromToken(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(verifiedCtx)
	if rd == nil || rd.UserID != registered.ID {
		t.Fatalf("verified identity=%v, want user %s", rd, registered.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "omar@example.com", "secret123"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong_password", email: "omar@example.com", password: "wrongpass"},
		{name: "unknown_email", email: "ghost@example.com", password: "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.LoginUser(ctx, tc.email, tc.password)
			if err == nil {
				t.Fatalf("expected login failure")
			}
			// Unknown email and wrong password are indistinguishable to the caller.
			apiErr, ok := apierr.AsError(err)
			if !ok || apiErr.Code != apierr.CodeInvalidRequest {
				t.Fatalf("err=%v, want %s", err, apierr.CodeInvalidRequest)
			}
		})
	}
}

func TestReloginRevokesPreviousSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "omar@example.com", "secret123"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	_, firstToken, err := svc.LoginUser(ctx, "omar@example.com", "secret123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, secondToken, err := svc.LoginUser(ctx, "omar@example.com", "secret123")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if _, err := svc.SetContextFromToken(ctx, firstToken.AccessToken); err == nil {
		t.Fatalf("first session should be revoked after re-login")
	}
	if _, err := svc.SetContextFromToken(ctx, secondToken.AccessToken); err != nil {
		t.Fatalf("second session should verify: %v", err)
	}
}

func TestSetContextFromTokenRejectsForgedTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "omar@example.com", "secret123"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "omar@example.com", "secret123"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	// Well-formed claims, wrong key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forgedString, err := forged.SignedString([]byte("attacker-key"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong_signature", token: forgedString},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SetContextFromToken(ctx, tc.token); err == nil {
				t.Fatalf("expected rejection for %q", tc.name)
			}
		})
	}
}

func TestSetContextFromTokenRejectsUnstoredSignedToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	// Correctly signed, but no matching session row: must be treated as revoked.
	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := signed.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.SetContextFromToken(ctx, tokenString); err == nil {
		t.Fatalf("signed token without a session row must not verify")
	}
}
