package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-session-feed/internal/geo"
	"go-session-feed/internal/interfaces"
	"go-session-feed/internal/metrics"
	"go-session-feed/internal/models"
)

// PageSize is the fixed number of sessions per feed page
const PageSize = 20

// State represents the controller's load state
type State string

const (
	StateInitial              State = "initial"
	StateLoadingFirstPage     State = "loading_first_page"
	StateReady                State = "ready"
	StateReadyStaleRefreshing State = "ready_stale_refreshing"
	StateLoadingMore          State = "loading_more"
	StateError                State = "error"
)

// Snapshot is a consistent copy of the controller's visible state
type Snapshot struct {
	State    State
	Sessions []models.Session
	HasMore  bool
	NextPage int
	SportID  *int64
}

// Controller drives the paginated session feed for one selected sport
// filter: stale-while-revalidate first load, incremental pagination, and
// force refresh. Fetch failures never escape as errors; they terminate in a
// state update per the feed's degrade-gracefully policy.
//
// Every load is stamped with a generation taken under the mutex; a
// completion applies only while its generation is still current, so a
// response to a superseded request (sport filter changed mid-flight) can
// never overwrite newer state.
type Controller struct {
	store  interfaces.SessionStore
	cache  interfaces.Cache
	keys   interfaces.KeyBuilder
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu         sync.Mutex
	state      State
	sportID    *int64
	sessions   []models.Session
	nextPage   int
	hasMore    bool
	generation uint64
}

// NewController creates a feed controller with an explicitly injected cache
// and store; no process-wide singletons
func NewController(store interfaces.SessionStore, cache interfaces.Cache, keys interfaces.KeyBuilder, logger *zap.Logger) *Controller {
	return &Controller{
		store:  store,
		cache:  cache,
		keys:   keys,
		logger: logger,
		now:    time.Now,
		state:  StateInitial,
	}
}

// Snapshot returns a copy of the visible feed state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions := make([]models.Session, len(c.sessions))
	copy(sessions, c.sessions)

	return Snapshot{
		State:    c.state,
		Sessions: sessions,
		HasMore:  c.hasMore,
		NextPage: c.nextPage,
		SportID:  c.sportID,
	}
}

// FilteredSessions derives the filtered view of the current session list
func (c *Controller) FilteredSessions(criteria FilterCriteria, userLoc *geo.Point) []models.Session {
	snap := c.Snapshot()
	return Apply(snap.Sessions, criteria, userLoc, c.now())
}

// SetSport switches the sport filter and reloads the feed. The previous
// load, if still in flight, is superseded and its result discarded.
func (c *Controller) SetSport(ctx context.Context, sportID *int64) {
	c.mu.Lock()
	c.sportID = sportID
	c.sessions = nil
	c.nextPage = 0
	c.hasMore = false
	c.state = StateInitial
	c.generation++
	c.mu.Unlock()

	c.LoadFirstPage(ctx)
}

// LoadFirstPage loads page 0. A cached page renders immediately; if it is
// stale, a background revalidation runs without blocking the caller. Safe
// to call again from the error state to retry.
func (c *Controller) LoadFirstPage(ctx context.Context) {
	c.mu.Lock()
	c.state = StateLoadingFirstPage
	c.generation++
	gen := c.generation
	sportID := c.sportID
	c.mu.Unlock()

	key := c.keys.SessionsKey(sportID)

	var cached []models.Session
	found, stale := c.cache.GetStale(ctx, key, &cached)
	if found {
		c.mu.Lock()
		if gen == c.generation {
			c.sessions = cached
			c.nextPage = 1
			c.hasMore = len(cached) == PageSize
			if stale {
				c.state = StateReadyStaleRefreshing
			} else {
				c.state = StateReady
			}
		}
		c.mu.Unlock()

		if stale {
			// Revalidate without holding up the caller; the flight is
			// detached from the request lifetime.
			bg := context.WithoutCancel(ctx)
			go c.revalidate(bg, key, gen, sportID)
		}
		return
	}

	c.fetchPage(ctx, gen, sportID, 0, false, "first")
}

// LoadMore fetches the next page when the consumer nears the end of the
// list. It is a no-op while another load is in flight or when the feed is
// exhausted.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateReady && c.state != StateReadyStaleRefreshing {
		c.mu.Unlock()
		return
	}
	if !c.hasMore {
		c.mu.Unlock()
		return
	}
	c.state = StateLoadingMore
	gen := c.generation
	sportID := c.sportID
	page := c.nextPage
	c.mu.Unlock()

	c.fetchPage(ctx, gen, sportID, page, true, "more")
}

// Refresh force-refreshes the sports reference list (bypassing cache) and
// reloads page 0, concurrently and with no ordering dependency between the
// two since they touch disjoint cache keys.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.state = StateLoadingFirstPage
	c.generation++
	gen := c.generation
	sportID := c.sportID
	c.mu.Unlock()

	key := c.keys.SessionsKey(sportID)
	// A forced reload must not coalesce with an older in-flight
	// revalidation for the same key.
	c.group.Forget(key)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.refreshSports(ctx)
	}()
	go func() {
		defer wg.Done()
		c.revalidate(ctx, key, gen, sportID)
	}()
	wg.Wait()
}

// Sports returns the sports reference list, served from cache when fresh
func (c *Controller) Sports(ctx context.Context) []models.Sport {
	var sports []models.Sport
	if c.cache.Get(ctx, c.keys.SportsKey(), &sports) {
		return sports
	}
	return c.refreshSports(ctx)
}

// refreshSports fetches the reference list from the store and repopulates
// the cache with a long TTL; the list changes rarely
func (c *Controller) refreshSports(ctx context.Context) []models.Sport {
	sports, err := c.store.ListSports(ctx)
	metrics.RecordFeedFetch("sports", err)
	if err != nil {
		c.logger.Error("Failed to refresh sports reference list", zap.Error(err))
		return nil
	}
	c.cache.Set(ctx, c.keys.SportsKey(), sports, models.TTLLong)
	return sports
}

// revalidate reloads page 0 through singleflight so concurrent
// revalidations for the same key share one store query
func (c *Controller) revalidate(ctx context.Context, key string, gen uint64, sportID *int64) {
	_, _, _ = c.group.Do(key, func() (interface{}, error) {
		c.fetchPage(ctx, gen, sportID, 0, false, "refresh")
		return nil, nil
	})
}

// fetchPage queries the store for one page and applies the result if its
// generation is still current. Page-0 failures clear the list; pagination
// failures stop further pagination but preserve loaded sessions.
func (c *Controller) fetchPage(ctx context.Context, gen uint64, sportID *int64, page int, appendPage bool, pageKind string) {
	query := models.SessionQuery{
		SportID: sportID,
		From:    c.now(),
		Offset:  uint64(page) * PageSize,
		Limit:   PageSize,
	}

	sessions, total, err := c.store.ListOpenSessions(ctx, query)
	metrics.RecordFeedFetch(pageKind, err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("Discarding superseded page response",
			zap.Int("page", page),
			zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		c.logger.Error("Session page fetch failed",
			zap.Int("page", page),
			zap.Error(err))
		if page == 0 {
			c.sessions = nil
			c.nextPage = 0
			c.hasMore = false
			c.state = StateError
		} else {
			c.hasMore = false
			c.state = StateReady
		}
		return
	}

	if appendPage {
		c.sessions = append(c.sessions, sessions...)
	} else {
		c.sessions = sessions
	}
	c.nextPage = page + 1
	c.hasMore = len(sessions) == PageSize
	if total > 0 && query.Offset+uint64(len(sessions)) >= uint64(total) {
		c.hasMore = false
	}
	c.state = StateReady

	if page == 0 {
		c.cache.Set(ctx, c.keys.SessionsKey(sportID), sessions, models.TTLMedium)
	}
}
