package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Erin Founder",
		Email:    "Erin@Example.com",
		Password: "correct-horse",
		Role:     RoleEntrepreneur,
		Bio:      "building things",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "erin@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID || authed.Role != RoleEntrepreneur {
		t.Fatalf("unexpected user: %+v", authed)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "erin@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected authentication failure")
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "short", Role: RoleInvestor}); err == nil {
		t.Fatal("expected short password rejection")
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "long-enough", Role: "admin"}); err == nil {
		t.Fatal("expected unknown role rejection")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	input := RegisterInput{Name: "Ivan", Email: "ivan@example.com", Password: "long-enough", Role: RoleInvestor}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
