package resource

import (
	"context"
	"fmt"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// Store is the remote side of a resource.
type Store[K comparable, T Item[K]] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id K) error
}

// Manager keeps a Collection in step with a Store.
type Manager[K comparable, T Item[K]] struct {
	name          string
	store         Store[K, T]
	local         *Collection[K, T]
	isPlaceholder func(K) bool
}

// NewManager binds store and local. isPlaceholder tells client-generated
// ids from canonical ones.
func NewManager[K comparable, T Item[K]](name string, store Store[K, T], local *Collection[K, T], isPlaceholder func(K) bool) *Manager[K, T] {
	return &Manager[K, T]{name: name, store: store, local: local, isPlaceholder: isPlaceholder}
}

// Items returns the local view.
func (m *Manager[K, T]) Items() []T {
	return m.local.Items()
}

// List replaces the local collection with the server's. Empty is valid.
// On error the local collection is left as it was.
func (m *Manager[K, T]) List(ctx context.Context) ([]T, error) {
	items, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	m.local.Replace(items)
	return m.local.Items(), nil
}

// Create saves item, which carries a placeholder id. The placeholder entry
// is shown while the call is in flight and then replaced by the saved item
// (matched by id); on failure it is removed again.
func (m *Manager[K, T]) Create(ctx context.Context, item T) (T, error) {
	placeholder := item.ItemID()
	if !m.isPlaceholder(placeholder) {
		var zero T
		return zero, &domain.ErrValidation{Field: "id", Message: fmt.Sprintf("%s já salvo; use a edição.", m.name)}
	}
	m.local.Put(placeholder, item)

	saved, err := m.store.Create(ctx, item)
	if err != nil {
		m.local.Remove(placeholder)
		var zero T
		return zero, err
	}
	m.local.Put(placeholder, saved)
	return saved, nil
}

// Update fully replaces a saved item. The id must be canonical.
func (m *Manager[K, T]) Update(ctx context.Context, item T) (T, error) {
	id := item.ItemID()
	if m.isPlaceholder(id) {
		var zero T
		return zero, &domain.ErrValidation{Field: "id", Message: fmt.Sprintf("%s ainda não foi salvo.", m.name)}
	}
	saved, err := m.store.Update(ctx, item)
	if err != nil {
		var zero T
		return zero, err
	}
	m.local.Put(id, saved)
	return saved, nil
}

// Delete removes id on the server and then locally. Without confirmed it
// refuses and makes no call. On failure the collection is untouched.
func (m *Manager[K, T]) Delete(ctx context.Context, id K, confirmed bool) error {
	if !confirmed {
		return &domain.ErrConfirmationRequired{Action: "delete " + m.name}
	}
	if m.isPlaceholder(id) {
		// never saved: nothing to call
		if !m.local.Remove(id) {
			return &domain.ErrNotFound{Resource: m.name, ID: fmt.Sprint(id)}
		}
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.local.Remove(id)
	return nil
}
