package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

var sessionColumns = []string{
	"s.id", "coalesce(ub.id, 0) as user_book_id", "s.book_id", "b.title as book_title",
	"s.start_page", "s.end_page", "s.session_date", "s.duration_minutes", "s.notes", "s.created_at",
}

func sessionSelect(userID int) sq.SelectBuilder {
	return qb.Select(sessionColumns...).
		From(sessionsTableName + " s").
		Join(fmt.Sprintf("%s b on b.id = s.book_id", booksTableName)).
		LeftJoin(fmt.Sprintf("%s ub on ub.book_id = s.book_id and ub.user_id = s.user_id", entriesTableName)).
		Where(sq.Eq{"s.user_id": userID})
}

// AddSession stores the session and maintains the user's streaks in the same
// transaction. The current streak row is locked so concurrent logs serialize.
func (r *repository) AddSession(ctx context.Context, userID int, session model.ReadingSession, plan StreakPlanner) (model.ReadingSession, error) {
	var id int
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
select id, start_date, end_date, current_streak
from reading_streaks
where user_id = $1 and current_streak
for update`, userID)
		if err != nil {
			return errors.Wrap(err, "current streak")
		}
		streaks, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ReadingStreak])
		if err != nil {
			return fmt.Errorf("pgx.CollectRows: %w", err)
		}
		var current *model.ReadingStreak
		if len(streaks) > 0 {
			current = &streaks[0]
		}

		var lastActive *time.Time
		if err := tx.QueryRow(ctx, `
select max(session_date) from reading_sessions
where user_id = $1 and session_date <= $2`, userID, session.SessionDate).Scan(&lastActive); err != nil {
			return errors.Wrap(err, "last active day")
		}

		q := `
insert into reading_sessions (user_id, book_id, start_page, end_page, session_date, duration_minutes, notes)
values (@user_id, @book_id, @start_page, @end_page, @session_date, @duration_minutes, @notes)
returning id`
		args := pgx.NamedArgs{
			"user_id":          userID,
			"book_id":          session.BookID,
			"start_page":       session.StartPage,
			"end_page":         session.EndPage,
			"session_date":     session.SessionDate,
			"duration_minutes": session.DurationMinutes,
			"notes":            session.Notes,
		}
		if err := tx.QueryRow(ctx, q, args).Scan(&id); err != nil {
			return errors.Wrap(err, "insert session")
		}

		p := plan(current, lastActive, session.SessionDate)
		if p.CloseCurrent && current != nil {
			if _, err := tx.Exec(ctx, `
update reading_streaks set end_date = @end_date, current_streak = false
where id = @id`, pgx.NamedArgs{"end_date": p.CloseAt, "id": current.ID}); err != nil {
				return errors.Wrap(err, "close streak")
			}
		}
		if p.OpenNew {
			if _, err := tx.Exec(ctx, `
insert into reading_streaks (user_id, start_date, current_streak)
values (@user_id, @start_date, true)`, pgx.NamedArgs{"user_id": userID, "start_date": p.OpenAt}); err != nil {
				return errors.Wrap(err, "open streak")
			}
		}
		return nil
	})
	if err != nil {
		return model.ReadingSession{}, err
	}

	query, args, err := sessionSelect(userID).Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return model.ReadingSession{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ReadingSession{}, err
	}
	defer rows.Close()
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ReadingSession])
}

func (r *repository) ListSessions(ctx context.Context, userID, limit int) ([]model.ReadingSession, error) {
	q := sessionSelect(userID).OrderBy("s.session_date desc", "s.created_at desc")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.collectSessions(ctx, q)
}

func (r *repository) collectSessions(ctx context.Context, q sq.SelectBuilder) ([]model.ReadingSession, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ReadingSession])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return sessions, nil
}
