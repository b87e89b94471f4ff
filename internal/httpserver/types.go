package httpserver

import (
	"go-session-feed/internal/feed"
	"go-session-feed/internal/models"
)

// SessionsResponse is the envelope for feed page requests
type SessionsResponse struct {
	Success       bool             `json:"success"`
	State         feed.State       `json:"state"`
	Sessions      []models.Session `json:"sessions"`
	HasMore       bool             `json:"has_more"`
	ActiveFilters int              `json:"active_filters"`
}

// SportsResponse is the envelope for the sports reference list
type SportsResponse struct {
	Success bool           `json:"success"`
	Sports  []models.Sport `json:"sports"`
}

// RefreshResponse is the envelope for force-refresh requests
type RefreshResponse struct {
	Success bool       `json:"success"`
	State   feed.State `json:"state"`
}
