package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

// UpsertRatings writes every value in one transaction, in the order given.
func (r *repository) UpsertRatings(ctx context.Context, userID, bookID int, values []model.RatingValue) ([]model.Rating, error) {
	ratings := make([]model.Rating, 0, len(values))
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		q := `
insert into ratings (user_id, book_id, rating_type, rating, review)
values (@user_id, @book_id, @rating_type, @rating, @review)
on conflict (user_id, book_id, rating_type) do update
    set rating = excluded.rating,
        review = excluded.review,
        updated_at = now()
returning id, rating_type, rating::float8 as rating, review,
    (select title from books where id = @book_id) as book_title,
    created_at, updated_at`
		for _, v := range values {
			args := pgx.NamedArgs{
				"user_id":     userID,
				"book_id":     bookID,
				"rating_type": v.Dimension,
				"rating":      v.Value,
				"review":      v.Review,
			}
			rows, err := tx.Query(ctx, q, args)
			if err != nil {
				return errors.Wrapf(err, "upsert %s", v.Dimension)
			}
			rating, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Rating])
			if err != nil {
				return fmt.Errorf("pgx.CollectOneRow: %w", err)
			}
			rating.RatingTypeDisplay = rating.RatingType.Display()
			ratings = append(ratings, rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repository) ListRatings(ctx context.Context, userID, bookID int) ([]model.Rating, error) {
	query, args, err := qb.Select("r.id", "r.rating_type", "r.rating::float8 as rating", "r.review",
		"b.title as book_title", "r.created_at", "r.updated_at").
		From(ratingsTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", booksTableName)).
		Where(sq.Eq{"r.user_id": userID, "r.book_id": bookID}).
		OrderBy("r.rating_type").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Rating])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	for i := range ratings {
		ratings[i].RatingTypeDisplay = ratings[i].RatingType.Display()
	}
	return ratings, nil
}
