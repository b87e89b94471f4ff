package feed

import (
	"time"

	"go-session-feed/internal/geo"
	"go-session-feed/internal/models"
)

// FilterCriteria holds the client-side filters derived over the in-memory
// session list. A nil field means "no constraint from this field".
type FilterCriteria struct {
	MaxDistanceKm *float64           `json:"max_distance_km,omitempty"`
	DateFrom      *time.Time         `json:"date_from,omitempty"`
	DateTo        *time.Time         `json:"date_to,omitempty"`
	OnlyAvailable bool               `json:"only_available,omitempty"`
	SkillLevel    *models.SkillLevel `json:"skill_level,omitempty"`
}

// ActiveCount returns the number of non-default filter categories, one per
// category (distance, date range, skill, availability) regardless of how
// many underlying fields the category spans
func (c FilterCriteria) ActiveCount() int {
	count := 0
	if c.MaxDistanceKm != nil {
		count++
	}
	if c.DateFrom != nil || c.DateTo != nil {
		count++
	}
	if c.SkillLevel != nil {
		count++
	}
	if c.OnlyAvailable {
		count++
	}
	return count
}

// Field identifies one updatable filter field
type Field string

const (
	FieldMaxDistance   Field = "max_distance"
	FieldDateFrom      Field = "date_from"
	FieldDateTo        Field = "date_to"
	FieldOnlyAvailable Field = "only_available"
	FieldSkillLevel    Field = "skill_level"
)

// FieldUpdate is an explicit single-field change to the criteria. Exactly
// one value field matching Field is consulted; nil clears the constraint.
type FieldUpdate struct {
	Field      Field
	Distance   *float64
	Date       *time.Time
	Available  bool
	SkillLevel *models.SkillLevel
}

// Update applies one field update to the criteria and returns the result,
// leaving the input untouched
func Update(c FilterCriteria, u FieldUpdate) FilterCriteria {
	switch u.Field {
	case FieldMaxDistance:
		c.MaxDistanceKm = u.Distance
	case FieldDateFrom:
		c.DateFrom = u.Date
	case FieldDateTo:
		c.DateTo = u.Date
	case FieldOnlyAvailable:
		c.OnlyAvailable = u.Available
	case FieldSkillLevel:
		c.SkillLevel = u.SkillLevel
	}
	return c
}

// Apply derives the filtered view of sessions under the given criteria.
// Filters compose conjunctively; the output preserves input order and is
// always a fresh slice. userLoc may be nil when the user's position is
// unknown, in which case an active distance bound excludes everything that
// cannot prove proximity.
func Apply(sessions []models.Session, c FilterCriteria, userLoc *geo.Point, now time.Time) []models.Session {
	var dayFrom, dayTo time.Time
	if c.DateFrom != nil {
		dayFrom = startOfDay(*c.DateFrom)
	}
	if c.DateTo != nil {
		dayTo = endOfDay(*c.DateTo)
	}

	out := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.SessionDate.Before(now) {
			continue
		}
		if c.MaxDistanceKm != nil {
			if userLoc == nil || !sess.HasLocation() {
				continue
			}
			dist := geo.Distance(*userLoc, geo.Point{Latitude: *sess.Latitude, Longitude: *sess.Longitude})
			if dist > *c.MaxDistanceKm {
				continue
			}
		}
		if c.DateFrom != nil && sess.SessionDate.Before(dayFrom) {
			continue
		}
		if c.DateTo != nil && sess.SessionDate.After(dayTo) {
			continue
		}
		if c.SkillLevel != nil && sess.SkillLevel != *c.SkillLevel {
			continue
		}
		if c.OnlyAvailable && sess.IsFull() {
			continue
		}
		out = append(out, sess)
	}
	return out
}

// startOfDay floors t to midnight UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay ceils t to the last nanosecond of its UTC day
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
