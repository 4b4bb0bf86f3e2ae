package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prep-ai/interview-service/internal/validator"
)

func newTestAuthService() (AuthService, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewAuthService(repo, slog.Default(), validator.New(), "test-secret", time.Hour)
	return svc, repo
}

func TestAuthServiceRegister(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Dana",
		Email:    "Dana@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "dana@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}

	_, err = svc.Register(ctx, &RegisterRequest{
		Name:     "Other",
		Email:    "dana@example.com",
		Password: "another-pass",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register error = %v, want ErrEmailTaken", err)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "short",
	})
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthServiceParseToken(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	userID, err := svc.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if userID != resp.User.ID {
		t.Errorf("ParseToken() = %d, want %d", userID, resp.User.ID)
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(newFakeRepo(), slog.Default(), validator.New(), "other-secret", time.Hour)
		otherResp, err := other.Register(ctx, &RegisterRequest{
			Name:     "Eve",
			Email:    "eve@example.com",
			Password: "password123",
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if _, err := svc.ParseToken(otherResp.Token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestAuthServiceVerify(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Verify(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if user.Email != "dana@example.com" {
		t.Errorf("Verify() email = %q", user.Email)
	}

	if _, err := svc.Verify(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}
