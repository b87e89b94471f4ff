package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"go-session-feed/internal/metrics"
	"go-session-feed/internal/models"
)

// ListOpenSessions returns one page of sessions dated at or after q.From,
// ordered by session date ascending, plus the total number of matching rows.
// Participants for the returned page are loaded in a single follow-up query.
func (s *PGStore) ListOpenSessions(ctx context.Context, q models.SessionQuery) ([]models.Session, int64, error) {
	done := metrics.TimeStoreQuery("list_open_sessions")
	defer done()

	sb := s.qb().Select(
		"s.id", "s.sport_id", "s.creator_id", "s.title", "s.session_date",
		"s.latitude", "s.longitude", "s.skill_level", "s.max_participants",
		"sp.name", "sp.icon",
		"COUNT(*) OVER() AS total",
	).
		From(fmt.Sprintf("%s s", s.table("sessions"))).
		Join(fmt.Sprintf("%s sp ON sp.id = s.sport_id", s.table("sports"))).
		Where(sq.GtOrEq{"s.session_date": q.From}).
		OrderBy("s.session_date ASC", "s.id ASC").
		Offset(q.Offset).
		Limit(q.Limit)

	if q.SportID != nil {
		sb = sb.Where(sq.Eq{"s.sport_id": *q.SportID})
	}

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build sessions query: %w", err)
	}
	s.logSQL("ListOpenSessions", sqlStr, args)

	start := time.Now()
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		s.logger.Error("ListOpenSessions query failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var (
		sessions []models.Session
		total    int64
	)
	for rows.Next() {
		var (
			sess  models.Session
			sport models.Sport
		)
		if err := rows.Scan(
			&sess.ID, &sess.SportID, &sess.CreatorID, &sess.Title, &sess.SessionDate,
			&sess.Latitude, &sess.Longitude, &sess.SkillLevel, &sess.MaxParticipants,
			&sport.Name, &sport.Icon,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		sport.ID = sess.SportID
		sess.Sport = &sport
		sess.Participants = []models.Participant{}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachParticipants(ctx, sessions); err != nil {
		return nil, 0, err
	}

	s.logger.Debug("ListOpenSessions ok",
		zap.Int("returned", len(sessions)),
		zap.Int64("total", total),
		zap.Duration("elapsed", time.Since(start)))
	return sessions, total, nil
}

// attachParticipants loads participation records for the page in one query
func (s *PGStore) attachParticipants(ctx context.Context, sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	ids := make([]int64, len(sessions))
	byID := make(map[int64]*models.Session, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
		byID[sessions[i].ID] = &sessions[i]
	}

	sb := s.qb().Select("p.id", "p.session_id", "p.profile_id", "p.status").
		From(fmt.Sprintf("%s p", s.table("session_participants"))).
		Where(sq.Eq{"p.session_id": ids}).
		OrderBy("p.id ASC")

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build participants query: %w", err)
	}
	s.logSQL("ListOpenSessions.participants", sqlStr, args)

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.ProfileID, &p.Status); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		if sess, ok := byID[p.SessionID]; ok {
			sess.Participants = append(sess.Participants, p)
		}
	}
	return rows.Err()
}

// ListSports returns the full sports reference list ordered by name
func (s *PGStore) ListSports(ctx context.Context) ([]models.Sport, error) {
	done := metrics.TimeStoreQuery("list_sports")
	defer done()

	sb := s.qb().Select("id", "name", "icon").
		From(s.table("sports")).
		OrderBy("name ASC")

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sports query: %w", err)
	}
	s.logSQL("ListSports", sqlStr, args)

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sports []models.Sport
	for rows.Next() {
		var sp models.Sport
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Icon); err != nil {
			return nil, fmt.Errorf("scan sport: %w", err)
		}
		sports = append(sports, sp)
	}
	return sports, rows.Err()
}
