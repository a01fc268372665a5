package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/circle-app/circle-server/internal/domain"
)

func newAccountFixture(t *testing.T, users ...domain.User) (*AccountUsecase, *mockUserRepo, *mockLimiter) {
	t.Helper()
	repo := newMockUserRepo(users...)
	limiter := newMockLimiter(3)
	uc := NewAccountUsecase(repo, newMockThreadRepo(), mockIssuer{}, limiter, &mockBlobStore{}).
		WithHashCost(bcrypt.MinCost)
	return uc, repo, limiter
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return string(h)
}

func TestAccountRegister(t *testing.T) {
	uc, repo, _ := newAccountFixture(t)

	session, err := uc.Register(context.Background(), RegisterInput{
		FullName: "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.User.Email != "alice@example.com" || session.User.Username != "alice" {
		t.Fatalf("unexpected user %+v", session.User)
	}
	if session.Token != "token-"+session.User.ID {
		t.Fatalf("unexpected token %s", session.Token)
	}
	stored := repo.byID[session.User.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("password not hashed correctly")
	}
}

func TestAccountRegisterDuplicateEmail(t *testing.T) {
	uc, _, _ := newAccountFixture(t, domain.User{ID: "u1", Email: "alice@example.com", Username: "alice"})

	_, err := uc.Register(context.Background(), RegisterInput{
		FullName: "Other",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestAccountRegisterUsernameCollision(t *testing.T) {
	uc, _, _ := newAccountFixture(t, domain.User{ID: "u1", Email: "alice@other.com", Username: "alice"})

	session, err := uc.Register(context.Background(), RegisterInput{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.User.Username == "alice" {
		t.Fatalf("expected a suffixed username")
	}
}

func TestAccountRegisterValidation(t *testing.T) {
	uc, _, _ := newAccountFixture(t)

	cases := []RegisterInput{
		{FullName: "", Email: "a@b.c", Password: "secret123"},
		{FullName: "A", Email: "not-an-email", Password: "secret123"},
		{FullName: "A", Email: "a@b.c", Password: "123"},
	}
	for _, c := range cases {
		if _, err := uc.Register(context.Background(), c); domain.KindOf(err) != domain.KindValidation {
			t.Fatalf("expected validation for %+v got %v", c, err)
		}
	}
}

func TestAccountLogin(t *testing.T) {
	user := domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", PasswordHash: hashed(t, "secret123")}
	uc, _, _ := newAccountFixture(t, user)

	for _, identifier := range []string{"alice@example.com", "alice"} {
		session, err := uc.Login(context.Background(), identifier, "secret123", "127.0.0.1")
		if err != nil {
			t.Fatalf("login with %s failed: %v", identifier, err)
		}
		if session.User.ID != "u1" || session.Token == "" {
			t.Fatalf("unexpected session %+v", session)
		}
	}
}

func TestAccountLoginFailuresAreIndistinguishable(t *testing.T) {
	user := domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", PasswordHash: hashed(t, "secret123")}
	uc, _, _ := newAccountFixture(t, user)

	_, unknown := uc.Login(context.Background(), "nobody@example.com", "secret123", "ip")
	_, wrong := uc.Login(context.Background(), "alice@example.com", "wrong-pass", "ip")

	if !errors.Is(unknown, domain.ErrInvalidCredentials) || !errors.Is(wrong, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials got %v / %v", unknown, wrong)
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("messages differ: %q vs %q", unknown.Error(), wrong.Error())
	}
}

func TestAccountLoginRateLimited(t *testing.T) {
	user := domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", PasswordHash: hashed(t, "secret123")}
	uc, _, limiter := newAccountFixture(t, user)

	for range limiter.max {
		_, _ = uc.Login(context.Background(), "alice", "wrong-pass", "ip")
	}

	_, err := uc.Login(context.Background(), "alice", "secret123", "ip")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limited got %v", err)
	}

	if _, err := uc.Login(context.Background(), "alice", "secret123", "other-ip"); err != nil {
		t.Fatalf("other client should not be limited: %v", err)
	}
}

func TestAccountUpdateProfile(t *testing.T) {
	uc, repo, _ := newAccountFixture(t, domain.User{ID: "u1", Username: "alice", FullName: "Alice"})
	me := domain.Identity{ID: "u1"}

	name := "Alice Liddell"
	user, err := uc.UpdateProfile(context.Background(), me, ProfileInput{FullName: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.FullName != name {
		t.Fatalf("expected %s got %s", name, user.FullName)
	}

	blank := " "
	_, err = uc.UpdateProfile(context.Background(), me, ProfileInput{Username: &blank})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation got %v", err)
	}

	if _, err := uc.UpdateProfile(context.Background(), me, ProfileInput{}); err != nil {
		t.Fatalf("empty update failed: %v", err)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("empty update should not reach the store")
	}
}

func TestAccountUpdateProfileRejectsEmailAsUsername(t *testing.T) {
	uc, repo, _ := newAccountFixture(t, domain.User{ID: "u1", Username: "mallory"})

	squatted := "victim@example.com"
	_, err := uc.UpdateProfile(context.Background(), domain.Identity{ID: "u1"}, ProfileInput{Username: &squatted})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("rejected update should not reach the store")
	}
}

func TestAccountLoginLogsFailedReset(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	user := domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", PasswordHash: hashed(t, "secret123")}
	uc, _, limiter := newAccountFixture(t, user)
	limiter.successErr = errStoreDown

	if _, err := uc.Login(context.Background(), "alice", "secret123", "ip"); err != nil {
		t.Fatalf("login should not fail on a limiter reset error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "failed to reset login attempts") || !strings.Contains(out, "store down") {
		t.Fatalf("expected a warning in the log got %q", out)
	}
}
