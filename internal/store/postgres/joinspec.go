package postgres

import (
	"context"
	"fmt"
)

// JoinSpec declares one relation the feed queries join through. Specs are
// validated against information_schema at startup so a schema drift fails
// fast instead of surfacing as a malformed query at request time.
type JoinSpec struct {
	Relation  string // human-readable relation name, for errors
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// feedJoinSpecs lists every join the session feed depends on
var feedJoinSpecs = []JoinSpec{
	{Relation: "session_sport", Table: "sessions", Column: "sport_id", RefTable: "sports", RefColumn: "id"},
	{Relation: "session_creator", Table: "sessions", Column: "creator_id", RefTable: "profiles", RefColumn: "id"},
	{Relation: "session_participants", Table: "session_participants", Column: "session_id", RefTable: "sessions", RefColumn: "id"},
}

// validateJoinSpecs checks that every declared join column exists
func (s *PGStore) validateJoinSpecs(ctx context.Context) error {
	for _, spec := range feedJoinSpecs {
		for _, side := range []struct{ table, column string }{
			{spec.Table, spec.Column},
			{spec.RefTable, spec.RefColumn},
		} {
			ok, err := s.columnExists(ctx, side.table, side.column)
			if err != nil {
				return fmt.Errorf("relation %s: check %s.%s: %w", spec.Relation, side.table, side.column, err)
			}
			if !ok {
				return fmt.Errorf("relation %s: column %s.%s does not exist", spec.Relation, side.table, side.column)
			}
		}
	}
	return nil
}

func (s *PGStore) columnExists(ctx context.Context, table, column string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
	)`

	var exists bool
	if err := s.pool.QueryRow(ctx, q, s.schema, table, column).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
