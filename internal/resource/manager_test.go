package resource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/resource"
)

// --- Fake store ---

type fakeStore struct {
	rows    []domain.RoomType
	nextID  int64
	calls   map[string]int
	failOn  map[string]error
	onWrite func(local []domain.RoomType)
	local   *resource.Collection[int64, domain.RoomType]
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 100, calls: map[string]int{}, failOn: map[string]error{}}
}

func (s *fakeStore) List(ctx context.Context) ([]domain.RoomType, error) {
	s.calls["list"]++
	if err := s.failOn["list"]; err != nil {
		return nil, err
	}
	out := make([]domain.RoomType, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, r domain.RoomType) (domain.RoomType, error) {
	s.calls["create"]++
	if s.onWrite != nil && s.local != nil {
		s.onWrite(s.local.Items())
	}
	if err := s.failOn["create"]; err != nil {
		return domain.RoomType{}, err
	}
	s.nextID++
	r.ID = s.nextID
	s.rows = append(s.rows, r)
	return r, nil
}

func (s *fakeStore) Update(ctx context.Context, r domain.RoomType) (domain.RoomType, error) {
	s.calls["update"]++
	for i := range s.rows {
		if s.rows[i].ID == r.ID {
			s.rows[i] = r
			return r, nil
		}
	}
	return domain.RoomType{}, &domain.ErrBackend{Status: 404, Message: "Quarto não encontrado"}
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.calls["delete"]++
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return &domain.ErrBackend{Status: 404, Message: "Quarto não encontrado"}
}

func newManager(store *fakeStore) (*resource.Manager[int64, domain.RoomType], *resource.Collection[int64, domain.RoomType]) {
	local := resource.NewCollection[int64, domain.RoomType]()
	store.local = local
	return resource.NewManager[int64, domain.RoomType]("quarto", store, local, domain.IsPlaceholderRoomID), local
}

// --- Tests ---

func TestCreateThenList_ExactlyOneEntry(t *testing.T) {
	store := newFakeStore()
	m, local := newManager(store)
	ctx := context.Background()

	room := domain.NewRoomTemplate()
	room.Name = "Suíte Master"

	var seenDuringCall []domain.RoomType
	store.onWrite = func(items []domain.RoomType) { seenDuringCall = items }

	saved, err := m.Create(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, int64(101), saved.ID)

	// the placeholder is visible while the save is in flight
	require.Len(t, seenDuringCall, 1)
	assert.Equal(t, room.ID, seenDuringCall[0].ID)

	// and replaced, not appended, once it resolves
	require.Equal(t, 1, local.Len())
	assert.Equal(t, int64(101), local.Items()[0].ID)

	items, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Suíte Master", items[0].Name)
}

func TestCreate_FailureRemovesPlaceholder(t *testing.T) {
	store := newFakeStore()
	store.failOn["create"] = &domain.ErrBackend{Status: 422, Message: "Nome já usado"}
	m, local := newManager(store)

	_, err := m.Create(context.Background(), domain.NewRoomTemplate())
	require.Error(t, err)
	assert.Equal(t, "Nome já usado", domain.BackendMessage(err))
	assert.Equal(t, 0, local.Len())
}

func TestCreate_RejectsCanonicalID(t *testing.T) {
	store := newFakeStore()
	m, _ := newManager(store)

	_, err := m.Create(context.Background(), domain.RoomType{ID: 5, Name: "x"})
	var ve *domain.ErrValidation
	assert.True(t, errors.As(err, &ve))
	assert.Zero(t, store.calls["create"])
}

func TestUpdate_RequiresCanonicalID(t *testing.T) {
	store := newFakeStore()
	m, _ := newManager(store)

	_, err := m.Update(context.Background(), domain.NewRoomTemplate())
	var ve *domain.ErrValidation
	assert.True(t, errors.As(err, &ve))
	assert.Zero(t, store.calls["update"])
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	store := newFakeStore()
	store.rows = []domain.RoomType{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	m, local := newManager(store)
	ctx := context.Background()

	_, err := m.List(ctx)
	require.NoError(t, err)

	_, err = m.Update(ctx, domain.RoomType{ID: 1, Name: "A2"})
	require.NoError(t, err)

	items := local.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A2", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	store := newFakeStore()
	store.rows = []domain.RoomType{{ID: 1, Name: "A"}}
	m, local := newManager(store)
	ctx := context.Background()
	_, _ = m.List(ctx)

	err := m.Delete(ctx, 1, false)
	var ce *domain.ErrConfirmationRequired
	require.True(t, errors.As(err, &ce))
	assert.Zero(t, store.calls["delete"])
	assert.Equal(t, 1, local.Len())

	require.NoError(t, m.Delete(ctx, 1, true))
	assert.Equal(t, 0, local.Len())
}

func TestDelete_MissingIDLeavesCollectionUnchanged(t *testing.T) {
	store := newFakeStore()
	store.rows = []domain.RoomType{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	m, local := newManager(store)
	ctx := context.Background()
	_, _ = m.List(ctx)
	before := local.Items()

	err := m.Delete(ctx, 999, true)
	require.Error(t, err)
	assert.Equal(t, "Quarto não encontrado", domain.BackendMessage(err))
	assert.Equal(t, before, local.Items())
}

func TestDelete_UnknownPlaceholderIsNotFound(t *testing.T) {
	store := newFakeStore()
	store.rows = []domain.RoomType{{ID: 1, Name: "A"}}
	m, local := newManager(store)
	ctx := context.Background()
	_, _ = m.List(ctx)

	err := m.Delete(ctx, -42, true)
	var nf *domain.ErrNotFound
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "quarto", nf.Resource)
	assert.Zero(t, store.calls["delete"])
	assert.Equal(t, 1, local.Len())

	// a placeholder still in the collection is dropped without a call
	local.Put(-7, domain.RoomType{ID: -7, Name: "rascunho"})
	require.NoError(t, m.Delete(ctx, -7, true))
	assert.Zero(t, store.calls["delete"])
	assert.Equal(t, 1, local.Len())
}

func TestList_ErrorKeepsLocal(t *testing.T) {
	store := newFakeStore()
	store.rows = []domain.RoomType{{ID: 1, Name: "A"}}
	m, local := newManager(store)
	ctx := context.Background()
	_, _ = m.List(ctx)

	store.failOn["list"] = errors.New("down")
	_, err := m.List(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, local.Len())
}

func TestList_EmptyIsValid(t *testing.T) {
	m, _ := newManager(newFakeStore())

	items, err := m.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_PutDropsDuplicateCanonical(t *testing.T) {
	c := resource.NewCollection[int64, domain.RoomType]()
	c.Replace([]domain.RoomType{{ID: 7, Name: "server copy"}, {ID: -1, Name: "placeholder"}})

	c.Put(-1, domain.RoomType{ID: 7, Name: "saved"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "saved", items[0].Name)
}

func TestRegistry_PerOwner(t *testing.T) {
	r := resource.NewRegistry[string, domain.UserDocument]()
	r.For("u1").Replace([]domain.UserDocument{{ID: "d1"}})

	assert.Equal(t, 1, r.For("u1").Len())
	assert.Equal(t, 0, r.For("u2").Len())

	r.Drop("u1")
	assert.Equal(t, 0, r.For("u1").Len())
}
