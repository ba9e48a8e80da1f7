// Package memory is the in-process storage backend used when MongoDB cannot be reached at startup.
// Data lives only as long as the process.
package memory

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"marathonhub/internal/domain"
)

// Store holds every collection of the fallback backend behind one lock.
// Ids for all kinds are minted from a single shared counter.
type Store struct {
	mu            sync.Mutex
	nextID        int64
	users         *table[domain.User]
	marathons     *table[domain.Marathon]
	registrations *table[domain.Registration]
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nextID:        1,
		users:         newTable(cloneUser),
		marathons:     newTable(func(m domain.Marathon) domain.Marathon { return m }),
		registrations: newTable(cloneRegistration),
	}
}

// mintID must be called with mu held.
func (s *Store) mintID() string {
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	return id
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u domain.User) domain.User {
	u.DisplayName = clonePtr(u.DisplayName)
	u.PhotoURL = clonePtr(u.PhotoURL)
	return u
}

func cloneRegistration(r domain.Registration) domain.Registration {
	r.AdditionalInfo = clonePtr(r.AdditionalInfo)
	return r
}

// table is a keyed map that remembers insertion order. Rows are deep-copied on the way
// in and out, so nothing outside the table shares memory with a stored row.
type table[T any] struct {
	rows  map[string]T
	order []string
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	return t.clone(row), true
}

func (t *table[T]) insert(id string, row T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(row)
}

func (t *table[T]) delete(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// values returns rows in insertion order.
func (t *table[T]) values() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(t.rows[id]))
	}
	return out
}

// sortByCreatedAt orders items stably so equal timestamps keep insertion order.
func sortByCreatedAt[T any](items []T, createdAt func(T) time.Time, newestFirst bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if newestFirst {
			return createdAt(items[i]).After(createdAt(items[j]))
		}
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}
