package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-session-feed/internal/feed"
	"go-session-feed/internal/geo"
	"go-session-feed/internal/models"
)

// handleSessions serves one filtered view of the session feed.
//
// Query parameters: sport (id), page (zero-based; pages up to it are loaded
// incrementally), max_distance (km, requires lat/lng), lat, lng, date_from,
// date_to (RFC 3339 or YYYY-MM-DD), skill_level, only_available.
//
// Backend failures surface as an empty list in the error state, not as a
// 5xx; the feed degrades gracefully rather than blocking its consumer.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sportID, err := parseSportID(r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid sport id", http.StatusBadRequest)
		return
	}

	criteria, userLoc, err := parseFilterCriteria(r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 0 {
			s.writeErrorResponse(w, "Invalid page", http.StatusBadRequest)
			return
		}
	}

	ctrl := s.controllerFor(r.Context(), sportID)

	// Walk pagination forward until the requested page is in memory or the
	// feed reports no more data. Bounded so a concurrent load cannot spin
	// this request.
	for attempts := 0; attempts <= page+1; attempts++ {
		snap := ctrl.Snapshot()
		if snap.State == feed.StateError || snap.NextPage > page || (!snap.HasMore && snap.NextPage > 0) {
			break
		}
		if snap.NextPage == 0 {
			ctrl.LoadFirstPage(r.Context())
			continue
		}
		ctrl.LoadMore(r.Context())
	}

	snap := ctrl.Snapshot()
	sessions := ctrl.FilteredSessions(criteria, userLoc)

	s.writeResponse(w, &SessionsResponse{
		Success:       true,
		State:         snap.State,
		Sessions:      sessions,
		HasMore:       snap.HasMore,
		ActiveFilters: criteria.ActiveCount(),
	})
}

// handleSports serves the cached sports reference list
func (s *Server) handleSports(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllerFor(r.Context(), nil)
	sports := ctrl.Sports(r.Context())
	if sports == nil {
		sports = []models.Sport{}
	}

	s.writeResponse(w, &SportsResponse{
		Success: true,
		Sports:  sports,
	})
}

// handleRefresh force-refreshes the reference list and page 0
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sportID, err := parseSportID(r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid sport id", http.StatusBadRequest)
		return
	}

	ctrl := s.controllerFor(r.Context(), sportID)
	ctrl.Refresh(r.Context())

	s.writeResponse(w, &RefreshResponse{
		Success: true,
		State:   ctrl.Snapshot().State,
	})
}

func parseSportID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("sport")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseFilterCriteria(r *http.Request) (feed.FilterCriteria, *geo.Point, error) {
	var criteria feed.FilterCriteria
	q := r.URL.Query()

	if raw := q.Get("max_distance"); raw != "" {
		dist, err := strconv.ParseFloat(raw, 64)
		if err != nil || dist <= 0 {
			return criteria, nil, errInvalidParam("max_distance")
		}
		criteria.MaxDistanceKm = &dist
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return criteria, nil, errInvalidParam("date_from")
		}
		criteria.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return criteria, nil, errInvalidParam("date_to")
		}
		criteria.DateTo = &t
	}
	if raw := q.Get("skill_level"); raw != "" {
		switch models.SkillLevel(raw) {
		case models.SkillLevelBeginner, models.SkillLevelIntermediate, models.SkillLevelAdvanced, models.SkillLevelAll:
			level := models.SkillLevel(raw)
			criteria.SkillLevel = &level
		default:
			return criteria, nil, errInvalidParam("skill_level")
		}
	}
	if raw := q.Get("only_available"); raw != "" {
		avail, err := strconv.ParseBool(raw)
		if err != nil {
			return criteria, nil, errInvalidParam("only_available")
		}
		criteria.OnlyAvailable = avail
	}

	var userLoc *geo.Point
	rawLat, rawLng := q.Get("lat"), q.Get("lng")
	if rawLat != "" && rawLng != "" {
		lat, latErr := strconv.ParseFloat(rawLat, 64)
		lng, lngErr := strconv.ParseFloat(rawLng, 64)
		if latErr != nil || lngErr != nil {
			return criteria, nil, errInvalidParam("lat/lng")
		}
		userLoc = &geo.Point{Latitude: lat, Longitude: lng}
	}

	return criteria, userLoc, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func errInvalidParam(name string) error {
	return fmt.Errorf("Invalid parameter: %s", name)
}
