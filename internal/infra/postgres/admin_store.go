package postgres

import (
	"context"
	"errors"

	"color-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AdminStore keeps admin accounts in the admins table. Bootstrap transitions run in a
// transaction holding an advisory lock so concurrent instances serialize on them.
type AdminStore struct {
	pool *pgxpool.Pool
}

func NewAdminStore(pool *pgxpool.Pool) *AdminStore {
	return &AdminStore{pool: pool}
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (s *AdminStore) AdminState(ctx context.Context) (domain.AdminState, error) {
	return adminState(ctx, s.pool)
}

func adminState(ctx context.Context, q querier) (domain.AdminState, error) {
	var state domain.AdminState
	err := q.QueryRow(ctx,
		`SELECT
			EXISTS (SELECT 1 FROM admins WHERE email = $1),
			EXISTS (SELECT 1 FROM admins WHERE email <> $1)`,
		domain.DefaultAdminEmail,
	).Scan(&state.DefaultExists, &state.OtherAdminExists)
	if err != nil {
		return domain.AdminState{}, domain.StorageError("admin state", err)
	}
	return state, nil
}

func (s *AdminStore) FindAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	return s.findAdmin(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE email=$1`, email)
}

func (s *AdminStore) FindAdminByID(ctx context.Context, id string) (domain.AdminUser, error) {
	return s.findAdmin(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE id=$1`, id)
}

func (s *AdminStore) findAdmin(ctx context.Context, sql string, arg string) (domain.AdminUser, error) {
	var admin domain.AdminUser
	err := s.pool.QueryRow(ctx, sql, arg).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AdminUser{}, domain.ErrAdminNotFound
	}
	if err != nil {
		return domain.AdminUser{}, domain.StorageError("find admin", err)
	}
	admin.CreatedAt = admin.CreatedAt.UTC()
	return admin, nil
}

func (s *AdminStore) CreateFirstAdmin(ctx context.Context, admin domain.AdminUser) (bool, error) {
	created := false
	err := withLockedTx(ctx, s.pool, adminsLockKey, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins)`).Scan(&exists); err != nil {
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
	return withLockedTx(ctx, s.pool, adminsLockKey, func(tx pgx.Tx) error {
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
		if _, err := tx.Exec(ctx, `DELETE FROM admins WHERE email=$1`, domain.DefaultAdminEmail); err != nil {
			return domain.StorageError("delete default admin", err)
		}
		return nil
	})
}

func (s *AdminStore) ResetAdmins(ctx context.Context, admin domain.AdminUser) error {
	return withLockedTx(ctx, s.pool, adminsLockKey, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM admins`); err != nil {
			return domain.StorageError("delete admins", err)
		}
		return insertAdmin(ctx, tx, admin)
	})
}

func insertAdmin(ctx context.Context, tx pgx.Tx, admin domain.AdminUser) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return domain.StorageError("insert admin", err)
	}
	return nil
}
