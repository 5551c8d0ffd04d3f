package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(u)
	r.nextID++
	copy.ID = fmt.Sprintf("%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) TouchLastAccess(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastAccess = &at
	return nil
}

func (r *stubUserRepo) seed(t *testing.T, name, email, password, role string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if !active {
		u.Active = false
		if _, err := r.Update(context.Background(), u); err != nil {
			t.Fatalf("seed user update: %v", err)
		}
	}
	return u
}

type stubThrottle struct {
	failures map[string]int
	resets   map[string]int
	max      int
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), resets: make(map[string]int), max: max}
}

func (t *stubThrottle) TooMany(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.max, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets[email]++
	t.failures[email] = 0
	return nil
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.seed(t, "Alice", "alice@campneus.com", "s3cret", "admin", true)
	throttle := newStubThrottle(5)
	svc := NewAuthService(repo, throttle, "jwt-secret", time.Hour, zerolog.Nop())

	token, got, err := svc.Login(context.Background(), "alice@campneus.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user: %+v", got)
	}
	if throttle.resets["alice@campneus.com"] != 1 {
		t.Fatalf("expected throttle reset on success")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("jwt-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "admin" || claims["user_id"] != user.ID || claims["email"] != user.Email {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(t, "Bob", "bob@campneus.com", "goodpass", "standard", true)
	throttle := newStubThrottle(5)
	svc := NewAuthService(repo, throttle, "jwt-secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "bob@campneus.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures["bob@campneus.com"] != 1 {
		t.Fatalf("expected failure recorded")
	}
}

func TestAuthService_Login_UnknownAccountLooksLikeWrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "ghost@campneus.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(t, "Carol", "carol@campneus.com", "s3cret", "manager", false)
	svc := NewAuthService(repo, newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	// correct password, still rejected
	if _, _, err := svc.Login(context.Background(), "carol@campneus.com", "s3cret"); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(t, "Dave", "dave@campneus.com", "goodpass", "standard", true)
	throttle := newStubThrottle(3)
	svc := NewAuthService(repo, throttle, "jwt-secret", time.Hour, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Login(context.Background(), "dave@campneus.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// budget exhausted: even the correct password is rejected
	if _, _, err := svc.Login(context.Background(), "dave@campneus.com", "goodpass"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

type stubAccessRecorder struct {
	events []ports.AccessEvent
}

func (s *stubAccessRecorder) RecordAccess(e ports.AccessEvent) {
	s.events = append(s.events, e)
}

func TestAuthService_Login_RecordsAccess(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.seed(t, "Eve", "eve@campneus.com", "s3cret", "standard", true)
	recorder := &stubAccessRecorder{}
	svc := NewAuthService(repo, newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop()).
		WithAccessRecorder(recorder)

	if _, _, err := svc.Login(context.Background(), "eve@campneus.com", "s3cret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(recorder.events) != 1 || recorder.events[0].UserID != user.ID {
		t.Fatalf("expected one access event for %s, got %+v", user.ID, recorder.events)
	}

	// failed logins leave no trace
	_, _, _ = svc.Login(context.Background(), "eve@campneus.com", "wrong")
	if len(recorder.events) != 1 {
		t.Fatalf("failed login must not record access: %+v", recorder.events)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), nil, "jwt-secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@b.c", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.seed(t, "Alice", "alice@campneus.com", "old-secret", "admin", true)
	svc := NewAuthService(repo, newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), user.ID, "old-secret", "brand-new-secret"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-secret")) != nil {
		t.Fatalf("stored hash does not match the new password")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-secret")) == nil {
		t.Fatalf("old password still matches after rotation")
	}
	if stored.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not stamped")
	}

	// the new password works for login, the old one does not
	if _, _, err := svc.Login(context.Background(), "alice@campneus.com", "brand-new-secret"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@campneus.com", "old-secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials with old password, got %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.seed(t, "Bob", "bob@campneus.com", "right-one", "standard", true)
	svc := NewAuthService(repo, newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong-one", "whatever-new"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("right-one")) != nil {
		t.Fatalf("password must stay unchanged after a failed attempt")
	}
}

func TestAuthService_ChangePassword_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.seed(t, "Carol", "carol@campneus.com", "pass-word", "manager", false)
	svc := NewAuthService(repo, newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), user.ID, "pass-word", "another-pass"); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_ChangePassword_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubThrottle(5), "jwt-secret", time.Hour, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), "404", "current", "new-password"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
