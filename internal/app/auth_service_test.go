package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"color-quiz-service/internal/infra/memory"
	"color-quiz-service/internal/infra/token"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaultAdminLoginThenRegister(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	created, err := auth.EnsureDefaultAdmin(ctx)
	if err != nil || !created {
		t.Fatalf("expected default admin to be seeded, got %v %v", created, err)
	}

	login, err := auth.Login(ctx, domain.DefaultAdminEmail, domain.DefaultAdminPassword)
	if err != nil {
		t.Fatalf("default login: %v", err)
	}
	if !login.IsDefaultAdmin || login.Token == "" {
		t.Fatalf("expected default admin token, got %+v", login)
	}
	defaultAdmin, err := auth.Authenticate(ctx, login.Token)
	if err != nil || !defaultAdmin.IsDefault() {
		t.Fatalf("expected default token to authenticate, got %+v %v", defaultAdmin, err)
	}

	reg, err := auth.Register(ctx, " Owner@Example.com ", "s3cret!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.IsDefaultAdmin {
		t.Fatalf("registered admin is not the default")
	}

	state, _ := auth.CheckDefaultAdmin(ctx)
	if state.DefaultExists || !state.OtherAdminExists {
		t.Fatalf("unexpected state after registration: %+v", state)
	}

	owner, err := auth.Authenticate(ctx, reg.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	profile, err := auth.Me(ctx, owner.ID)
	if err != nil || profile.Email != "owner@example.com" || profile.IsDefaultAdmin {
		t.Fatalf("unexpected profile: %+v %v", profile, err)
	}

	if _, err := auth.Authenticate(ctx, login.Token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected default admin token to die with the account, got %v", err)
	}
	if _, err := auth.Login(ctx, domain.DefaultAdminEmail, domain.DefaultAdminPassword); !errors.Is(err, domain.ErrDefaultLoginDisabled) {
		t.Fatalf("expected default login disabled, got %v", err)
	}
	if _, err := auth.Login(ctx, "owner@example.com", "s3cret!"); err != nil {
		t.Fatalf("regular login: %v", err)
	}
}

func TestRegisterWhenAdminExistsDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	auth, admins := newTestAuth(t)
	_, _ = auth.EnsureDefaultAdmin(ctx)
	if _, err := auth.Register(ctx, "first@example.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// the default record is gone by now, so the missing-default check answers first
	_, err := auth.Register(ctx, "second@example.com", "password2")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := admins.FindAdminByEmail(ctx, "second@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("rejected registration must not be stored")
	}
}

func TestRegisterWithoutDefaultAdmin(t *testing.T) {
	auth, _ := newTestAuth(t)
	_, err := auth.Register(context.Background(), "first@example.com", "password1")
	if !errors.Is(err, domain.ErrDefaultAdminMissing) {
		t.Fatalf("expected default admin missing, got %v", err)
	}
}

func TestRegisterReservedEmail(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)
	_, _ = auth.EnsureDefaultAdmin(ctx)
	if _, err := auth.Register(ctx, domain.DefaultAdminEmail, "whatever"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefaultLoginDisabledEvenIfDefaultRecordSurvives(t *testing.T) {
	ctx := context.Background()
	admins := &bothAdminsStore{AdminStore: memory.NewAdminStore()}
	auth := app.NewAuthServiceWithCost(admins, token.NewJWTManager("test-secret", time.Hour), bcrypt.MinCost)
	if _, err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := auth.Login(ctx, domain.DefaultAdminEmail, domain.DefaultAdminPassword); !errors.Is(err, domain.ErrDefaultLoginDisabled) {
		t.Fatalf("expected default login disabled, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)
	_, _ = auth.EnsureDefaultAdmin(ctx)
	_, _ = auth.Register(ctx, "owner@example.com", "right-password")

	_, unknown := auth.Login(ctx, "nobody@example.com", "right-password")
	_, wrong := auth.Login(ctx, "owner@example.com", "wrong-password")
	if !errors.Is(unknown, domain.ErrInvalidCredentials) || !errors.Is(wrong, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v / %v", unknown, wrong)
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("unknown email and wrong password must look the same")
	}
}

func TestDefaultLoginCreatesMissingDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	login, err := auth.Login(ctx, domain.DefaultAdminEmail, domain.DefaultAdminPassword)
	if err != nil || !login.IsDefaultAdmin {
		t.Fatalf("expected default admin to be created on first login, got %+v %v", login, err)
	}
	state, _ := auth.CheckDefaultAdmin(ctx)
	if !state.DefaultExists {
		t.Fatalf("expected default admin record")
	}
}

func TestEnsureDefaultAdminAfterRegistrationIsNoop(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t)
	_, _ = auth.EnsureDefaultAdmin(ctx)
	_, _ = auth.Register(ctx, "owner@example.com", "password1")

	created, err := auth.EnsureDefaultAdmin(ctx)
	if err != nil || created {
		t.Fatalf("default admin must not be recreated, got %v %v", created, err)
	}

	if err := auth.ResetAdmins(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	state, _ := auth.CheckDefaultAdmin(ctx)
	if !state.DefaultExists || state.OtherAdminExists {
		t.Fatalf("expected only the default admin after reset, got %+v", state)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	auth, _ := newTestAuth(t)
	if _, err := auth.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func newTestAuth(t *testing.T) (*app.AuthService, *memory.AdminStore) {
	t.Helper()
	admins := memory.NewAdminStore()
	return app.NewAuthServiceWithCost(admins, token.NewJWTManager("test-secret", time.Hour), bcrypt.MinCost), admins
}

// bothAdminsStore reports a real admin next to a surviving default record.
type bothAdminsStore struct {
	*memory.AdminStore
}

func (s *bothAdminsStore) AdminState(ctx context.Context) (domain.AdminState, error) {
	state, err := s.AdminStore.AdminState(ctx)
	state.OtherAdminExists = true
	return state, err
}
