package memory

import (
	"context"
	"time"

	"marathonhub/internal/domain"
)

type marathonRepository struct {
	store *Store
}

func NewMarathonRepository(store *Store) domain.MarathonRepository {
	return &marathonRepository{store: store}
}

func marathonCreatedAt(m *domain.Marathon) time.Time { return m.CreatedAt }

func (r *marathonRepository) Create(_ context.Context, m *domain.Marathon) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m.ID = r.store.mintID()
	r.store.marathons.insert(m.ID, *m)
	return nil
}

func (r *marathonRepository) GetByID(_ context.Context, id string) (*domain.Marathon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.marathons.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *marathonRepository) List(_ context.Context, params domain.ListParams) ([]*domain.Marathon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.Marathon, 0, len(r.store.marathons.order))
	for _, m := range r.store.marathons.values() {
		out = append(out, &m)
	}
	sortByCreatedAt(out, marathonCreatedAt, params.Sort != domain.SortOldest)
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *marathonRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Marathon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.Marathon, 0)
	for _, m := range r.store.marathons.values() {
		if m.CreatedBy == ownerID {
			out = append(out, &m)
		}
	}
	sortByCreatedAt(out, marathonCreatedAt, true)
	return out, nil
}

func (r *marathonRepository) Update(_ context.Context, id string, update domain.MarathonUpdate) (*domain.Marathon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.marathons.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	update.Apply(&m)
	r.store.marathons.insert(id, m)
	return &m, nil
}

func (r *marathonRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.marathons.delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *marathonRepository) AdjustRegistrationCount(_ context.Context, id string, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.marathons.get(id)
	if !ok {
		if delta > 0 {
			return domain.ErrNotFound
		}
		return nil
	}
	m.TotalRegistration += delta
	if m.TotalRegistration < 0 {
		m.TotalRegistration = 0
	}
	r.store.marathons.insert(id, m)
	return nil
}
