package memory

import (
	"context"
	"strings"
	"time"

	"marathonhub/internal/domain"
)

type registrationRepository struct {
	store *Store
}

func NewRegistrationRepository(store *Store) domain.RegistrationRepository {
	return &registrationRepository{store: store}
}

func (r *registrationRepository) Create(_ context.Context, reg *domain.Registration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.registrations.values() {
		if existing.UserID == reg.UserID && existing.MarathonID == reg.MarathonID {
			return domain.ErrConflict
		}
	}
	reg.ID = r.store.mintID()
	r.store.registrations.insert(reg.ID, *reg)
	return nil
}

func (r *registrationRepository) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reg, ok := r.store.registrations.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reg, nil
}

func (r *registrationRepository) GetByUserAndMarathon(_ context.Context, userID, marathonID string) (*domain.Registration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, reg := range r.store.registrations.values() {
		if reg.UserID == userID && reg.MarathonID == marathonID {
			return &reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListByUser joins each registration with its marathon by direct lookup.
func (r *registrationRepository) ListByUser(_ context.Context, userID, search string) ([]*domain.RegistrationWithMarathon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	needle := strings.ToLower(search)
	out := make([]*domain.RegistrationWithMarathon, 0)
	for _, reg := range r.store.registrations.values() {
		if reg.UserID != userID {
			continue
		}
		row := &domain.RegistrationWithMarathon{Registration: reg}
		if m, ok := r.store.marathons.get(reg.MarathonID); ok {
			row.Marathon = &m
		}
		if search != "" {
			if row.Marathon == nil || !strings.Contains(strings.ToLower(row.Marathon.Title), needle) {
				continue
			}
		}
		out = append(out, row)
	}
	sortByCreatedAt(out, func(row *domain.RegistrationWithMarathon) time.Time { return row.CreatedAt }, true)
	return out, nil
}

func (r *registrationRepository) Update(_ context.Context, id string, update domain.RegistrationUpdate) (*domain.Registration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reg, ok := r.store.registrations.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	update.Apply(&reg)
	r.store.registrations.insert(id, reg)
	return &reg, nil
}

func (r *registrationRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.registrations.delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteByMarathon(_ context.Context, marathonID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for _, reg := range r.store.registrations.values() {
		if reg.MarathonID == marathonID && r.store.registrations.delete(reg.ID) {
			deleted++
		}
	}
	return deleted, nil
}
