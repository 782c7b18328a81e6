package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

// FinishedBooks returns finished entries newest first with their overall rating.
func (r *repository) FinishedBooks(ctx context.Context, userID int) ([]model.FinishedBook, error) {
	query, args, err := qb.Select("b.id as book_id", "b.title", "b.authors", "b.genres", "b.pages",
		"ub.date_finished", "r.rating::float8 as overall_rating").
		From(entriesTableName + " ub").
		Join(fmt.Sprintf("%s b on b.id = ub.book_id", booksTableName)).
		LeftJoin(fmt.Sprintf("%s r on r.book_id = ub.book_id and r.user_id = ub.user_id and r.rating_type = 'overall'", ratingsTableName)).
		Where(sq.Eq{"ub.user_id": userID, "ub.status": model.StatusFinished}).
		OrderBy("ub.date_added desc", "ub.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.FinishedBook])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return books, nil
}

func (r *repository) StatusCounts(ctx context.Context, userID int) (model.StatusCounts, error) {
	q := `
select count(*) filter (where status = 'tbr')      as tbr,
       count(*) filter (where status = 'reading')  as reading,
       count(*) filter (where status = 'finished') as finished,
       count(*) filter (where status = 'dnf')      as dnf
from user_books
where user_id = @user_id`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return model.StatusCounts{}, err
	}
	defer rows.Close()
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StatusCounts])
}

func (r *repository) Streaks(ctx context.Context, userID int) ([]model.ReadingStreak, error) {
	query, args, err := qb.Select("id", "start_date", "end_date", "current_streak").
		From(streaksTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("start_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	streaks, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ReadingStreak])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return streaks, nil
}

func (r *repository) OverallRatings(ctx context.Context, userID int) ([]float64, error) {
	query, args, err := qb.Select("rating::float8").
		From(ratingsTableName).
		Where(sq.Eq{"user_id": userID, "rating_type": model.DimensionOverall}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return ratings, nil
}

// Sessions returns sessions on or after since; a zero since means all of them.
func (r *repository) Sessions(ctx context.Context, userID int, since time.Time) ([]model.ReadingSession, error) {
	q := sessionSelect(userID).OrderBy("s.session_date desc", "s.created_at desc")
	if !since.IsZero() {
		q = q.Where(sq.GtOrEq{"s.session_date": since})
	}
	return r.collectSessions(ctx, q)
}

// EntryDates returns start/finish stamps of entries started or finished on or after since.
func (r *repository) EntryDates(ctx context.Context, userID int, since time.Time) ([]model.EntryDates, error) {
	query, args, err := qb.Select("status", "date_started", "date_finished").
		From(entriesTableName).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Or{
			sq.GtOrEq{"date_started": since},
			sq.GtOrEq{"date_finished": since},
		}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.EntryDates])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return dates, nil
}
