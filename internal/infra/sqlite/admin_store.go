package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"color-quiz-service/internal/domain"
)

// AdminStore keeps admin accounts. Every bootstrap transition is one immediate
// transaction, which holds the database write lock from its first statement.
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *AdminStore) AdminState(ctx context.Context) (domain.AdminState, error) {
	return adminState(ctx, s.db)
}

func adminState(ctx context.Context, q rowQuerier) (domain.AdminState, error) {
	var state domain.AdminState
	err := q.QueryRowContext(ctx,
		`SELECT
			EXISTS (SELECT 1 FROM admins WHERE email = ?),
			EXISTS (SELECT 1 FROM admins WHERE email <> ?)`,
		domain.DefaultAdminEmail, domain.DefaultAdminEmail,
	).Scan(&state.DefaultExists, &state.OtherAdminExists)
	if err != nil {
		return domain.AdminState{}, domain.StorageError("admin state", err)
	}
	return state, nil
}

func (s *AdminStore) FindAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	return s.findAdmin(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE email = ?`, email)
}

func (s *AdminStore) FindAdminByID(ctx context.Context, id string) (domain.AdminUser, error) {
	return s.findAdmin(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE id = ?`, id)
}

func (s *AdminStore) findAdmin(ctx context.Context, query, arg string) (domain.AdminUser, error) {
	var (
		admin     domain.AdminUser
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdminUser{}, domain.ErrAdminNotFound
	}
	if err != nil {
		return domain.AdminUser{}, domain.StorageError("find admin", err)
	}
	if admin.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.AdminUser{}, err
	}
	return admin, nil
}

func (s *AdminStore) CreateFirstAdmin(ctx context.Context, admin domain.AdminUser) (bool, error) {
	created := false
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM admins)`).Scan(&exists); err != nil {
			return domain.StorageError("count admins", err)
		}
		if exists {
			return nil
		}
		if err := insertAdmin(ctx, tx, admin); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (s *AdminStore) ReplaceDefaultAdmin(ctx context.Context, admin domain.AdminUser) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		state, err := adminState(ctx, tx)
		if err != nil {
			return err
		}
		if !state.DefaultExists {
			return domain.ErrDefaultAdminMissing
		}
		if state.OtherAdminExists {
			return domain.ErrAdminAlreadyExists
		}
		if err := insertAdmin(ctx, tx, admin); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM admins WHERE email = ?`, domain.DefaultAdminEmail); err != nil {
			return domain.StorageError("delete default admin", err)
		}
		return nil
	})
}

func (s *AdminStore) ResetAdmins(ctx context.Context, admin domain.AdminUser) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM admins`); err != nil {
			return domain.StorageError("delete admins", err)
		}
		return insertAdmin(ctx, tx, admin)
	})
}

func insertAdmin(ctx context.Context, tx *sql.Tx, admin domain.AdminUser) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		admin.ID, admin.Email, admin.PasswordHash, formatTime(admin.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return domain.StorageError("insert admin", err)
	}
	return nil
}
