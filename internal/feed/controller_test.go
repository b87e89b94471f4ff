package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-session-feed/internal/cache"
	"go-session-feed/internal/cache/service"
	"go-session-feed/internal/interfaces"
	"go-session-feed/internal/models"
)

// mapStorage is a minimal in-memory storage for wiring a real cache service
// under the controller
type mapStorage struct {
	mu    sync.Mutex
	items map[string]string
}

var _ interfaces.Storage = (*mapStorage)(nil)

func newMapStorage() *mapStorage {
	return &mapStorage{items: make(map[string]string)}
}

func (m *mapStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mapStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *mapStorage) Close() error { return nil }

// scriptedStore serves session pages from a canned ordered dataset, with
// per-page failure injection and an optional gate to hold fetches open
type scriptedStore struct {
	mu        sync.Mutex
	data      map[int64][]models.Session // keyed by sport id; 0 = unfiltered
	failPages map[uint64]bool            // keyed by offset
	sports    []models.Sport
	sportsErr error
	gate      chan struct{} // when non-nil, unfiltered fetches wait on it
	calls     []models.SessionQuery
}

var _ interfaces.SessionStore = (*scriptedStore)(nil)

func newScriptedStore(unfiltered []models.Session) *scriptedStore {
	return &scriptedStore{
		data:      map[int64][]models.Session{0: unfiltered},
		failPages: make(map[uint64]bool),
	}
}

func (s *scriptedStore) ListOpenSessions(_ context.Context, q models.SessionQuery) ([]models.Session, int64, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	gate := s.gate
	s.mu.Unlock()

	if q.SportID == nil && gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPages[q.Offset] {
		return nil, 0, errors.New("backend unavailable")
	}

	var dataset []models.Session
	if q.SportID == nil {
		dataset = s.data[0]
	} else {
		dataset = s.data[*q.SportID]
	}

	total := int64(len(dataset))
	if q.Offset >= uint64(len(dataset)) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > uint64(len(dataset)) {
		end = uint64(len(dataset))
	}
	page := make([]models.Session, end-q.Offset)
	copy(page, dataset[q.Offset:end])
	return page, total, nil
}

func (s *scriptedStore) ListSports(_ context.Context) ([]models.Sport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sportsErr != nil {
		return nil, s.sportsErr
	}
	return s.sports, nil
}

func (s *scriptedStore) Ping(context.Context) error { return nil }
func (s *scriptedStore) Close()                     {}

func (s *scriptedStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func makeDataset(n int) []models.Session {
	sessions := make([]models.Session, n)
	for i := 0; i < n; i++ {
		sessions[i] = makeSession(int64(i+1), testNow.Add(time.Duration(i+1)*time.Hour))
	}
	return sessions
}

func newTestController(store interfaces.SessionStore) (*Controller, interfaces.Cache) {
	svc := service.NewCacheService(newMapStorage(), zap.NewNop())
	ctrl := NewController(store, svc, cache.NewKeyBuilder(), zap.NewNop())
	ctrl.now = func() time.Time { return testNow }
	return ctrl, svc
}

func sessionIDs(sessions []models.Session) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

func TestController_LoadFirstPage_ColdCache(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	ctrl, cacheSvc := newTestController(store)

	ctrl.LoadFirstPage(context.Background())

	snap := ctrl.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Len(t, snap.Sessions, PageSize)
	assert.True(t, snap.HasMore)
	assert.Equal(t, 1, snap.NextPage)

	// Page 0 is written back under the unfiltered key
	var cached []models.Session
	require.True(t, cacheSvc.Get(context.Background(), "sessions_cache_all", &cached))
	assert.Equal(t, sessionIDs(snap.Sessions), sessionIDs(cached))
}

func TestController_PaginationMonotonicity(t *testing.T) {
	dataset := makeDataset(45)
	store := newScriptedStore(dataset)
	ctrl, _ := newTestController(store)
	ctx := context.Background()

	ctrl.LoadFirstPage(ctx)
	ctrl.LoadMore(ctx)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Sessions, 2*PageSize)
	assert.True(t, snap.HasMore)

	// Concatenated pages reproduce the unpaginated ordering
	assert.Equal(t, sessionIDs(dataset[:2*PageSize]), sessionIDs(snap.Sessions))

	ctrl.LoadMore(ctx)
	snap = ctrl.Snapshot()
	require.Len(t, snap.Sessions, 45)
	assert.False(t, snap.HasMore)
	assert.Equal(t, sessionIDs(dataset), sessionIDs(snap.Sessions))
}

func TestController_ExhaustedByTotal(t *testing.T) {
	// Exactly one full page: returned count equals the page size, but the
	// reported total proves there is nothing more
	store := newScriptedStore(makeDataset(PageSize))
	ctrl, _ := newTestController(store)

	ctrl.LoadFirstPage(context.Background())

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Sessions, PageSize)
	assert.False(t, snap.HasMore)
}

func TestController_FirstPageFailure_ClearsAndErrors(t *testing.T) {
	store := newScriptedStore(makeDataset(5))
	store.failPages[0] = true
	ctrl, _ := newTestController(store)

	ctrl.LoadFirstPage(context.Background())

	snap := ctrl.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Empty(t, snap.Sessions)
	assert.False(t, snap.HasMore)

	// Recoverable by retry
	store.mu.Lock()
	store.failPages[0] = false
	store.mu.Unlock()

	ctrl.LoadFirstPage(context.Background())
	snap = ctrl.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Len(t, snap.Sessions, 5)
}

func TestController_PaginationFailure_PreservesLoadedSessions(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	store.failPages[PageSize] = true
	ctrl, _ := newTestController(store)
	ctx := context.Background()

	ctrl.LoadFirstPage(ctx)
	firstPage := ctrl.Snapshot().Sessions
	require.Len(t, firstPage, PageSize)

	ctrl.LoadMore(ctx)

	snap := ctrl.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, sessionIDs(firstPage), sessionIDs(snap.Sessions),
		"pagination failure must not discard previously rendered data")
	assert.False(t, snap.HasMore, "pagination stops after a page failure")
}

func TestController_FreshCache_SkipsNetwork(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	ctrl, cacheSvc := newTestController(store)
	ctx := context.Background()

	cached := makeDataset(3)
	cacheSvc.Set(ctx, "sessions_cache_all", cached, models.TTLMedium)

	ctrl.LoadFirstPage(ctx)

	snap := ctrl.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, sessionIDs(cached), sessionIDs(snap.Sessions))
	assert.Equal(t, 0, store.callCount(), "fresh cache must not hit the store")
}

func TestController_StaleCache_RendersThenRevalidates(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	ctrl, cacheSvc := newTestController(store)
	ctx := context.Background()

	stale := makeDataset(3)
	cacheSvc.Set(ctx, "sessions_cache_all", stale, 0) // immediately stale

	gate := make(chan struct{})
	store.gate = gate

	ctrl.LoadFirstPage(ctx)

	// Cached data renders immediately while the refresh is held open
	snap := ctrl.Snapshot()
	assert.Equal(t, StateReadyStaleRefreshing, snap.State)
	assert.Equal(t, sessionIDs(stale), sessionIDs(snap.Sessions))

	close(gate)

	require.Eventually(t, func() bool {
		s := ctrl.Snapshot()
		return s.State == StateReady && len(s.Sessions) == PageSize
	}, 2*time.Second, 10*time.Millisecond, "background refresh replaces stale data")
}

func TestController_SupersededResponse_IsDiscarded(t *testing.T) {
	unfiltered := makeDataset(45)
	store := newScriptedStore(unfiltered)

	sportOnly := []models.Session{makeSession(900, testNow.Add(time.Hour))}
	store.data[4] = sportOnly

	ctrl, _ := newTestController(store)
	ctx := context.Background()

	gate := make(chan struct{})
	store.gate = gate

	// Unfiltered load blocks inside the store
	done := make(chan struct{})
	go func() {
		ctrl.LoadFirstPage(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return store.callCount() >= 1 },
		2*time.Second, 10*time.Millisecond)

	// User switches the sport filter while the first load is in flight
	sportID := int64(4)
	ctrl.SetSport(ctx, &sportID)

	snap := ctrl.Snapshot()
	require.Equal(t, sessionIDs(sportOnly), sessionIDs(snap.Sessions))

	// The superseded unfiltered response lands and must be discarded
	close(gate)
	<-done

	snap = ctrl.Snapshot()
	assert.Equal(t, sessionIDs(sportOnly), sessionIDs(snap.Sessions),
		"only the response to the most recent request may update visible state")
	assert.Equal(t, &sportID, snap.SportID)
}

func TestController_Refresh_BypassesCacheAndReloadsSports(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	store.sports = []models.Sport{{ID: 1, Name: "tennis"}, {ID: 2, Name: "futsal"}}
	ctrl, cacheSvc := newTestController(store)
	ctx := context.Background()

	// Fresh cached page that a plain first load would settle for
	cacheSvc.Set(ctx, "sessions_cache_all", makeDataset(2), models.TTLMedium)

	ctrl.Refresh(ctx)

	snap := ctrl.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Len(t, snap.Sessions, PageSize, "refresh reloads page 0 from the store")

	var sports []models.Sport
	require.True(t, cacheSvc.Get(ctx, "sports_cache", &sports))
	assert.Len(t, sports, 2)
}

func TestController_LoadMore_NoopWhenExhausted(t *testing.T) {
	store := newScriptedStore(makeDataset(5))
	ctrl, _ := newTestController(store)
	ctx := context.Background()

	ctrl.LoadFirstPage(ctx)
	require.False(t, ctrl.Snapshot().HasMore)
	calls := store.callCount()

	ctrl.LoadMore(ctx)

	assert.Equal(t, calls, store.callCount())
}

func TestController_LoadMore_NoopBeforeFirstPage(t *testing.T) {
	store := newScriptedStore(makeDataset(45))
	ctrl, _ := newTestController(store)

	ctrl.LoadMore(context.Background())

	assert.Equal(t, 0, store.callCount())
	assert.Equal(t, StateInitial, ctrl.Snapshot().State)
}

func TestController_Sports_CacheThrough(t *testing.T) {
	store := newScriptedStore(nil)
	store.sports = []models.Sport{{ID: 1, Name: "tennis"}}
	ctrl, _ := newTestController(store)
	ctx := context.Background()

	first := ctrl.Sports(ctx)
	require.Len(t, first, 1)

	// Second call is served from cache; the store only saw one fetch
	store.mu.Lock()
	store.sportsErr = errors.New("should not be called")
	store.mu.Unlock()

	second := ctrl.Sports(ctx)
	assert.Equal(t, first, second)
}
