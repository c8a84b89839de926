package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPersister keeps the serialized sequence in memory and records writes,
// so tests can assert on persistence behaviour and seed malformed data.
type stubPersister struct {
	data      map[string][]byte
	saveCalls int
	saveErr   error
}

func newStubPersister() *stubPersister {
	return &stubPersister{data: make(map[string][]byte)}
}

func (p *stubPersister) Load(_ context.Context, sessionID string) ([]Item, error) {
	raw, ok := p.data[sessionID]
	if !ok {
		return nil, ErrNoSavedCart
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *stubPersister) Save(_ context.Context, sessionID string, items []Item) error {
	p.saveCalls++
	if p.saveErr != nil {
		return p.saveErr
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	p.data[sessionID] = raw
	return nil
}

func (p *stubPersister) Delete(_ context.Context, sessionID string) error {
	delete(p.data, sessionID)
	return nil
}

func testItem(id string, price int) Item {
	item, err := NewItem(
		Component{ID: id + "-base", Name: "Thin Crust", Price: price},
		Component{ID: "tomato", Name: "Tomato Sauce", Price: 0},
		Component{ID: "mozzarella", Name: "Mozzarella", Price: 0},
		nil,
	)
	if err != nil {
		panic(err)
	}
	return item
}

// ============================================
// Item Tests
// ============================================

func TestNewItem_CapturesPriceSnapshot(t *testing.T) {
	item, err := NewItem(
		Component{ID: "thin", Name: "Thin Crust", Price: 99},
		Component{ID: "pesto", Name: "Pesto Sauce", Price: 59},
		Component{ID: "cheddar", Name: "Cheddar", Price: 79},
		[]Component{
			{ID: "onion", Name: "Onion", Price: 20},
			{ID: "olive", Name: "Olives", Price: 42},
		},
	)

	require.NoError(t, err)
	assert.Equal(t, 99+59+79+20+42, item.TotalPrice)
}

func TestNewItem_MissingComponent(t *testing.T) {
	_, err := NewItem(
		Component{ID: "thin", Price: 99},
		Component{},
		Component{ID: "cheddar", Price: 79},
		nil,
	)

	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestNewItem_DuplicateVeggie(t *testing.T) {
	_, err := NewItem(
		Component{ID: "thin", Price: 99},
		Component{ID: "pesto", Price: 59},
		Component{ID: "cheddar", Price: 79},
		[]Component{
			{ID: "onion", Price: 20},
			{ID: "onion", Price: 20},
		},
	)

	assert.ErrorIs(t, err, ErrDuplicateVeggie)
}

// ============================================
// Store Mutation Tests
// ============================================

func TestStore_DerivedTotalsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, "sess-1", newStubPersister())

	store.Add(ctx, testItem("a", 299))
	snap := store.Snapshot()
	assert.Equal(t, 299, snap.TotalAmount)
	assert.Equal(t, 1, snap.ItemCount)

	store.Add(ctx, testItem("b", 450))
	snap = store.Snapshot()
	assert.Equal(t, 749, snap.TotalAmount)
	assert.Equal(t, 2, snap.ItemCount)

	store.Remove(ctx, 0)
	snap = store.Snapshot()
	assert.Equal(t, 450, snap.TotalAmount)
	assert.Equal(t, 1, snap.ItemCount)

	store.Clear(ctx)
	snap = store.Snapshot()
	assert.Equal(t, 0, snap.TotalAmount)
	assert.Equal(t, 0, snap.ItemCount)
	assert.Empty(t, snap.Items)
}

func TestStore_AddNeverMerges(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, "sess-1", newStubPersister())

	same := testItem("a", 299)
	store.Add(ctx, same)
	store.Add(ctx, same)

	snap := store.Snapshot()
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, 598, snap.TotalAmount)
}

func TestStore_RemovePreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, "sess-1", newStubPersister())

	store.Add(ctx, testItem("a", 100))
	store.Add(ctx, testItem("b", 200))
	store.Add(ctx, testItem("c", 300))

	store.Remove(ctx, 1)

	snap := store.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "a-base", snap.Items[0].Base.ID)
	assert.Equal(t, "c-base", snap.Items[1].Base.ID)
}

func TestStore_RemoveOutOfRangeIsNoOp(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()
	store := NewStore(ctx, "sess-1", persister)
	store.Add(ctx, testItem("a", 299))
	before := store.Snapshot()
	savesBefore := persister.saveCalls

	store.Remove(ctx, -1)
	store.Remove(ctx, 1)
	store.Remove(ctx, 99)

	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, savesBefore, persister.saveCalls, "no-op removals must not rewrite the persisted sequence")
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_PersistsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()
	store := NewStore(ctx, "sess-1", persister)

	store.Add(ctx, testItem("a", 299))
	store.Add(ctx, testItem("b", 450))
	store.Remove(ctx, 0)
	store.Clear(ctx)

	assert.Equal(t, 4, persister.saveCalls)
}

func TestStore_ReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()

	store := NewStore(ctx, "sess-1", persister)
	store.Add(ctx, testItem("a", 299))
	store.Add(ctx, testItem("b", 450))
	store.Remove(ctx, 0)
	before := store.Snapshot()

	reloaded := NewStore(ctx, "sess-1", persister)
	assert.Equal(t, before, reloaded.Snapshot())
}

func TestStore_MalformedPersistedDataStartsEmpty(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()
	persister.data["sess-1"] = []byte(`{"not":"an array"`)

	store := NewStore(ctx, "sess-1", persister)

	snap := store.Snapshot()
	assert.Equal(t, 0, snap.ItemCount)
	assert.Equal(t, 0, snap.TotalAmount)
}

func TestStore_PersistFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()
	persister.saveErr = errors.New("kv store down")
	store := NewStore(ctx, "sess-1", persister)

	store.Add(ctx, testItem("a", 299))

	snap := store.Snapshot()
	assert.Equal(t, 1, snap.ItemCount)
	assert.Equal(t, 299, snap.TotalAmount)
}

// ============================================
// Manager Tests
// ============================================

func TestManager_ReturnsSameStorePerSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newStubPersister())

	a := m.Get(ctx, "sess-1")
	b := m.Get(ctx, "sess-1")
	other := m.Get(ctx, "sess-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}

func TestManager_ReleaseRehydratesFromPersister(t *testing.T) {
	ctx := context.Background()
	persister := newStubPersister()
	m := NewManager(persister)

	store := m.Get(ctx, "sess-1")
	store.Add(ctx, testItem("a", 299))

	m.Release("sess-1")

	reloaded := m.Get(ctx, "sess-1")
	assert.Equal(t, 1, reloaded.Snapshot().ItemCount)
}
