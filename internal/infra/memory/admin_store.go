package memory

import (
	"context"
	"sync"

	"color-quiz-service/internal/domain"
)

// AdminStore is an in-memory implementation of app.AdminRepository. A single mutex makes
// every bootstrap transition one critical section.
type AdminStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.AdminUser
}

func NewAdminStore() *AdminStore {
	return &AdminStore{byEmail: make(map[string]domain.AdminUser)}
}

func (s *AdminStore) AdminState(_ context.Context) (domain.AdminState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked(), nil
}

func (s *AdminStore) FindAdminByEmail(_ context.Context, email string) (domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.byEmail[email]
	if !ok {
		return domain.AdminUser{}, domain.ErrAdminNotFound
	}
	return admin, nil
}

func (s *AdminStore) FindAdminByID(_ context.Context, id string) (domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.byEmail {
		if admin.ID == id {
			return admin, nil
		}
	}
	return domain.AdminUser{}, domain.ErrAdminNotFound
}

func (s *AdminStore) CreateFirstAdmin(_ context.Context, admin domain.AdminUser) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.byEmail) > 0 {
		return false, nil
	}
	s.byEmail[admin.Email] = admin
	return true, nil
}

func (s *AdminStore) ReplaceDefaultAdmin(_ context.Context, admin domain.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateLocked()
	if !state.DefaultExists {
		return domain.ErrDefaultAdminMissing
	}
	if state.OtherAdminExists {
		return domain.ErrAdminAlreadyExists
	}
	if _, taken := s.byEmail[admin.Email]; taken {
		return domain.ErrEmailTaken
	}

	s.byEmail[admin.Email] = admin
	delete(s.byEmail, domain.DefaultAdminEmail)
	return nil
}

func (s *AdminStore) ResetAdmins(_ context.Context, admin domain.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail = map[string]domain.AdminUser{admin.Email: admin}
	return nil
}

func (s *AdminStore) stateLocked() domain.AdminState {
	var state domain.AdminState
	for email := range s.byEmail {
		if email == domain.DefaultAdminEmail {
			state.DefaultExists = true
		} else {
			state.OtherAdminExists = true
		}
	}
	return state
}
