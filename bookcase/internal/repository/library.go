package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

var entryColumns = []string{
	"ub.id", "ub.user_id", "ub.status", "ub.date_added", "ub.date_started",
	"ub.date_finished", "ub.current_page", "ub.notes",
	"b.id as book_id", "b.open_library_id", "b.isbn_10", "b.isbn_13", "b.title",
	"b.authors", "b.description", "b.publisher", "b.publish_date", "b.pages",
	"b.genres", "b.language", "b.cover_url",
	"b.created_at as book_created_at", "b.updated_at as book_updated_at",
}

type entryRow struct {
	ID            int          `db:"id"`
	UserID        int          `db:"user_id"`
	Status        model.Status `db:"status"`
	DateAdded     time.Time    `db:"date_added"`
	DateStarted   *time.Time   `db:"date_started"`
	DateFinished  *time.Time   `db:"date_finished"`
	CurrentPage   int          `db:"current_page"`
	Notes         string       `db:"notes"`
	BookID        int          `db:"book_id"`
	OpenLibraryID string       `db:"open_library_id"`
	ISBN10        *string      `db:"isbn_10"`
	ISBN13        *string      `db:"isbn_13"`
	Title         string       `db:"title"`
	Authors       []string     `db:"authors"`
	Description   string       `db:"description"`
	Publisher     string       `db:"publisher"`
	PublishDate   *string      `db:"publish_date"`
	Pages         *int         `db:"pages"`
	Genres        []string     `db:"genres"`
	Language      string       `db:"language"`
	CoverURL      *string      `db:"cover_url"`
	BookCreatedAt time.Time    `db:"book_created_at"`
	BookUpdatedAt time.Time    `db:"book_updated_at"`
}

func (row entryRow) toModel() model.UserBook {
	e := model.UserBook{
		ID:     row.ID,
		UserID: row.UserID,
		Book: model.Book{
			ID:            row.BookID,
			OpenLibraryID: row.OpenLibraryID,
			ISBN10:        row.ISBN10,
			ISBN13:        row.ISBN13,
			Title:         row.Title,
			Authors:       row.Authors,
			Description:   row.Description,
			Publisher:     row.Publisher,
			PublishDate:   row.PublishDate,
			Pages:         row.Pages,
			Genres:        row.Genres,
			Language:      row.Language,
			CoverURL:      row.CoverURL,
			CreatedAt:     row.BookCreatedAt,
			UpdatedAt:     row.BookUpdatedAt,
		},
		Status:       row.Status,
		DateAdded:    row.DateAdded,
		DateStarted:  row.DateStarted,
		DateFinished: row.DateFinished,
		CurrentPage:  row.CurrentPage,
		Notes:        row.Notes,
	}
	e.Derive()
	return e
}

func entrySelect() sq.SelectBuilder {
	return qb.Select(entryColumns...).
		From(entriesTableName + " ub").
		Join(fmt.Sprintf("%s b on b.id = ub.book_id", booksTableName))
}

func bookArgs(book model.CatalogBook) pgx.NamedArgs {
	title := book.Title
	if title == "" {
		title = "Unknown Title"
	}
	authors := book.Authors
	if authors == nil {
		authors = []string{}
	}
	genres := book.Subjects
	if genres == nil {
		genres = []string{}
	}
	var isbn10, isbn13, publishDate *string
	if book.ISBN != nil {
		isbn := *book.ISBN
		switch {
		case len(isbn) == 13:
			isbn13 = &isbn
		case len(isbn) <= 10:
			isbn10 = &isbn
		}
	}
	if book.FirstPublishYear != nil {
		year := strconv.Itoa(*book.FirstPublishYear)
		publishDate = &year
	}
	var pages *int
	if book.Pages != nil && *book.Pages > 0 {
		pages = book.Pages
	}
	return pgx.NamedArgs{
		"open_library_id": book.OpenLibraryID,
		"isbn_10":         isbn10,
		"isbn_13":         isbn13,
		"title":           title,
		"authors":         authors,
		"publish_date":    publishDate,
		"pages":           pages,
		"genres":          genres,
		"cover_url":       book.CoverURL,
	}
}

// AddEntry resolves the shared book by open_library_id (first writer wins on its
// descriptive fields) and inserts the entry. An existing entry is never touched.
func (r *repository) AddEntry(ctx context.Context, userID int, book model.CatalogBook, entry model.UserBook) (model.UserBook, error) {
	var entryID int
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		q := `
insert into books (open_library_id, isbn_10, isbn_13, title, authors, publish_date, pages, genres, cover_url)
values (@open_library_id, @isbn_10, @isbn_13, @title, @authors, @publish_date, @pages, @genres, @cover_url)
on conflict (open_library_id) do nothing`
		if _, err := tx.Exec(ctx, q, bookArgs(book)); err != nil {
			return errors.Wrap(err, "insert book")
		}
		var bookID int
		if err := tx.QueryRow(ctx, `select id from books where open_library_id = $1`, book.OpenLibraryID).Scan(&bookID); err != nil {
			return errors.Wrap(err, "resolve book")
		}

		q = `
insert into user_books (user_id, book_id, status, date_started, date_finished)
values (@user_id, @book_id, @status, @date_started, @date_finished)
on conflict (user_id, book_id) do nothing
returning id`
		args := pgx.NamedArgs{
			"user_id":       userID,
			"book_id":       bookID,
			"status":        entry.Status,
			"date_started":  entry.DateStarted,
			"date_finished": entry.DateFinished,
		}
		err := tx.QueryRow(ctx, q, args).Scan(&entryID)
		if errors.Is(err, pgx.ErrNoRows) {
			var current model.Status
			if err := tx.QueryRow(ctx,
				`select status from user_books where user_id = $1 and book_id = $2`, userID, bookID).Scan(&current); err != nil {
				return errors.Wrap(err, "existing entry")
			}
			return &errs.ConflictError{CurrentStatus: current.Display()}
		}
		return errors.Wrap(err, "insert entry")
	})
	if err != nil {
		return model.UserBook{}, err
	}
	return r.GetEntry(ctx, userID, entryID)
}

func (r *repository) GetEntry(ctx context.Context, userID, entryID int) (model.UserBook, error) {
	query, args, err := entrySelect().
		Where(sq.Eq{"ub.id": entryID, "ub.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.UserBook{}, err
	}
	return r.getEntry(ctx, r.db, query, args...)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *repository) getEntry(ctx context.Context, db querier, query string, args ...any) (model.UserBook, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return model.UserBook{}, err
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entryRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserBook{}, errs.ErrNotFound
		}
		return model.UserBook{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	return row.toModel(), nil
}

func (r *repository) ListEntries(ctx context.Context, userID int, status model.Status) ([]model.UserBook, error) {
	q := entrySelect().
		Where(sq.Eq{"ub.user_id": userID}).
		OrderBy("ub.date_added desc", "ub.id desc")
	if status != "" && status != model.StatusAll {
		q = q.Where(sq.Eq{"ub.status": status})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListEntries", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[entryRow])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	entries := make([]model.UserBook, 0, len(list))
	for _, row := range list {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

// UpdateEntry locks the entry row, lets update mutate it and persists the result.
func (r *repository) UpdateEntry(ctx context.Context, userID, entryID int, update func(entry *model.UserBook) error) (model.UserBook, error) {
	var entry model.UserBook
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := entrySelect().
			Where(sq.Eq{"ub.id": entryID, "ub.user_id": userID}).
			Suffix("for update of ub").
			ToSql()
		if err != nil {
			return err
		}
		entry, err = r.getEntry(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		if err := update(&entry); err != nil {
			return err
		}

		q := `
update user_books
set status = @status,
    date_started = @date_started,
    date_finished = @date_finished,
    current_page = @current_page,
    notes = @notes
where id = @id and user_id = @user_id`
		args2 := pgx.NamedArgs{
			"status":        entry.Status,
			"date_started":  entry.DateStarted,
			"date_finished": entry.DateFinished,
			"current_page":  entry.CurrentPage,
			"notes":         entry.Notes,
			"id":            entryID,
			"user_id":       userID,
		}
		_, err = tx.Exec(ctx, q, args2)
		return errors.Wrap(err, "update entry")
	})
	if err != nil {
		return model.UserBook{}, err
	}
	entry.Derive()
	return entry, nil
}
