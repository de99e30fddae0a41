package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"color-quiz-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminRepository stores admin accounts. The two bootstrap transitions are single atomic
// operations of the store so concurrent callers cannot both win.
type AdminRepository interface {
	AdminState(ctx context.Context) (domain.AdminState, error)
	FindAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error)
	FindAdminByID(ctx context.Context, id string) (domain.AdminUser, error)
	// CreateFirstAdmin inserts admin only if no admin exists at all.
	CreateFirstAdmin(ctx context.Context, admin domain.AdminUser) (bool, error)
	// ReplaceDefaultAdmin inserts admin and deletes the default admin in one step. It fails
	// with domain.ErrDefaultAdminMissing or domain.ErrAdminAlreadyExists without writing.
	ReplaceDefaultAdmin(ctx context.Context, admin domain.AdminUser) error
	// ResetAdmins deletes every admin and stores admin as the only one.
	ResetAdmins(ctx context.Context, admin domain.AdminUser) error
}

// TokenManager issues and verifies bearer tokens for admins.
type TokenManager interface {
	IssueToken(admin domain.AdminUser) (string, error)
	// ParseToken returns the admin id carried by a valid token.
	ParseToken(token string) (string, error)
}

// AuthService implements admin registration, login and the default-admin ratchet.
type AuthService struct {
	admins   AdminRepository
	tokens   TokenManager
	hashCost int
	now      func() time.Time
}

func NewAuthService(admins AdminRepository, tokens TokenManager) *AuthService {
	return NewAuthServiceWithCost(admins, tokens, bcrypt.DefaultCost)
}

// NewAuthServiceWithCost lets tests hash with bcrypt.MinCost.
func NewAuthServiceWithCost(admins AdminRepository, tokens TokenManager, cost int) *AuthService {
	return &AuthService{admins: admins, tokens: tokens, hashCost: cost, now: time.Now}
}

// EnsureDefaultAdmin creates the bootstrap account when no admin exists yet.
// It never recreates it after a real admin has registered.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	admin, err := s.newAdmin(domain.DefaultAdminEmail, domain.DefaultAdminPassword)
	if err != nil {
		return false, err
	}
	return s.admins.CreateFirstAdmin(ctx, admin)
}

// ResetAdmins drops every admin and reinstates the default one.
func (s *AuthService) ResetAdmins(ctx context.Context) error {
	admin, err := s.newAdmin(domain.DefaultAdminEmail, domain.DefaultAdminPassword)
	if err != nil {
		return err
	}
	return s.admins.ResetAdmins(ctx, admin)
}

// CheckDefaultAdmin reports the current ratchet state.
func (s *AuthService) CheckDefaultAdmin(ctx context.Context) (domain.AdminState, error) {
	return s.admins.AdminState(ctx)
}

// Register replaces the default admin with a real one.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.AuthToken, error) {
	email = normalizeEmail(email)
	if email == domain.DefaultAdminEmail {
		return domain.AuthToken{}, domain.NewValidationError(domain.InvalidRequest, "email is reserved for the default admin")
	}

	admin, err := s.newAdmin(email, password)
	if err != nil {
		return domain.AuthToken{}, err
	}
	if err := s.admins.ReplaceDefaultAdmin(ctx, admin); err != nil {
		return domain.AuthToken{}, err
	}
	return s.issue(admin)
}

// Login authenticates an admin. The reserved credentials only work until a real admin exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AuthToken, error) {
	email = normalizeEmail(email)
	if email == domain.DefaultAdminEmail && password == domain.DefaultAdminPassword {
		return s.loginDefault(ctx)
	}

	admin, err := s.admins.FindAdminByEmail(ctx, email)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return domain.AuthToken{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.AuthToken{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return domain.AuthToken{}, domain.ErrInvalidCredentials
	}
	if admin.IsDefault() {
		if err := s.requireNoOtherAdmin(ctx); err != nil {
			return domain.AuthToken{}, err
		}
	}
	return s.issue(admin)
}

func (s *AuthService) loginDefault(ctx context.Context) (domain.AuthToken, error) {
	state, err := s.admins.AdminState(ctx)
	if err != nil {
		return domain.AuthToken{}, err
	}
	if state.OtherAdminExists {
		return domain.AuthToken{}, domain.ErrDefaultLoginDisabled
	}
	if !state.DefaultExists {
		if _, err := s.EnsureDefaultAdmin(ctx); err != nil {
			return domain.AuthToken{}, err
		}
	}

	admin, err := s.admins.FindAdminByEmail(ctx, domain.DefaultAdminEmail)
	if errors.Is(err, domain.ErrAdminNotFound) {
		// Lost a race against a registration.
		return domain.AuthToken{}, domain.ErrDefaultLoginDisabled
	}
	if err != nil {
		return domain.AuthToken{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(domain.DefaultAdminPassword)); err != nil {
		return domain.AuthToken{}, domain.ErrInvalidCredentials
	}
	return s.issue(admin)
}

func (s *AuthService) requireNoOtherAdmin(ctx context.Context) error {
	state, err := s.admins.AdminState(ctx)
	if err != nil {
		return err
	}
	if state.OtherAdminExists {
		return domain.ErrDefaultLoginDisabled
	}
	return nil
}

// Authenticate resolves a bearer token to a stored admin.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.AdminUser, error) {
	id, err := s.tokens.ParseToken(token)
	if err != nil {
		return domain.AdminUser{}, domain.ErrInvalidToken
	}
	admin, err := s.admins.FindAdminByID(ctx, id)
	if errors.Is(err, domain.ErrAdminNotFound) {
		// The default admin is deleted on registration; its tokens die with it.
		return domain.AdminUser{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.AdminUser{}, err
	}
	if admin.IsDefault() {
		if err := s.requireNoOtherAdmin(ctx); err != nil {
			return domain.AdminUser{}, domain.ErrInvalidToken
		}
	}
	return admin, nil
}

// Me returns the profile of an authenticated admin.
func (s *AuthService) Me(ctx context.Context, adminID string) (domain.AdminProfile, error) {
	admin, err := s.admins.FindAdminByID(ctx, adminID)
	if err != nil {
		return domain.AdminProfile{}, err
	}
	return domain.AdminProfile{
		ID:             admin.ID,
		Email:          admin.Email,
		CreatedAt:      admin.CreatedAt,
		IsDefaultAdmin: admin.IsDefault(),
	}, nil
}

func (s *AuthService) newAdmin(email, password string) (domain.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return domain.AdminUser{}, domain.NewValidationError(domain.InvalidRequest, "password cannot be hashed: "+err.Error())
	}
	return domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}, nil
}

func (s *AuthService) issue(admin domain.AdminUser) (domain.AuthToken, error) {
	token, err := s.tokens.IssueToken(admin)
	if err != nil {
		return domain.AuthToken{}, err
	}
	return domain.AuthToken{Token: token, IsDefaultAdmin: admin.IsDefault()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
