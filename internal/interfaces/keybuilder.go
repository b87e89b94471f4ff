package interfaces

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes feed queries into deterministic cache keys
type KeyBuilder interface {
	// SportsKey returns the key holding the sports reference list
	SportsKey() string

	// SessionsKey returns the key holding the first feed page for the
	// given sport filter; nil means the unfiltered feed
	SessionsKey(sportID *int64) string
}
