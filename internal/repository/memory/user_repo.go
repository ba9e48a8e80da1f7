package memory

import (
	"context"

	"marathonhub/internal/domain"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users.values() {
		if existing.FirebaseUID == u.FirebaseUID {
			return domain.ErrConflict
		}
	}
	u.ID = r.store.mintID()
	r.store.users.insert(u.ID, *u)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users.get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByExternalID(_ context.Context, firebaseUID string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users.values() {
		if u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
