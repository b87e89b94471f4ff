package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// SkillLevel represents the declared skill requirement of a session
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelAll          SkillLevel = "all"
)

// UnmarshalYAML implements custom YAML unmarshaling for SkillLevel
func (s *SkillLevel) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "beginner", "intermediate", "advanced", "all":
		*s = SkillLevel(str)
		return nil
	default:
		return fmt.Errorf("invalid skill level '%s': must be one of 'beginner', 'intermediate', 'advanced', 'all'", str)
	}
}

// ParticipationStatus represents the state of a join request on a session
type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

// Sport is one entry of the slow-changing sports reference list
type Sport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Participant is a single participation record attached to a session
type Participant struct {
	ID        int64               `json:"id"`
	SessionID int64               `json:"session_id"`
	ProfileID int64               `json:"profile_id"`
	Status    ParticipationStatus `json:"status"`
}

// Session is one joinable sport session as consumed by the feed.
// Latitude and Longitude are nil when the creator did not attach a location.
type Session struct {
	ID              int64         `json:"id"`
	SportID         int64         `json:"sport_id"`
	Sport           *Sport        `json:"sport,omitempty"`
	CreatorID       int64         `json:"creator_id"`
	Title           string        `json:"title"`
	SessionDate     time.Time     `json:"session_date"`
	Latitude        *float64      `json:"latitude,omitempty"`
	Longitude       *float64      `json:"longitude,omitempty"`
	SkillLevel      SkillLevel    `json:"skill_level"`
	MaxParticipants int           `json:"max_participants"`
	Participants    []Participant `json:"participants"`
}

// ApprovedCount returns the number of participants counted toward capacity
func (s *Session) ApprovedCount() int {
	count := 0
	for _, p := range s.Participants {
		if p.Status == ParticipationApproved {
			count++
		}
	}
	return count
}

// IsFull reports whether the session has no capacity left
func (s *Session) IsFull() bool {
	return s.ApprovedCount() >= s.MaxParticipants
}

// HasLocation reports whether both coordinates are present
func (s *Session) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// SessionQuery describes one page fetch against the session store
type SessionQuery struct {
	SportID *int64    // nil means no sport filter
	From    time.Time // lower bound on session_date, inclusive
	Offset  uint64
	Limit   uint64
}
