package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

type LibraryRepository interface {
	AddEntry(ctx context.Context, userID int, book model.CatalogBook, entry model.UserBook) (model.UserBook, error)
	GetEntry(ctx context.Context, userID, entryID int) (model.UserBook, error)
	ListEntries(ctx context.Context, userID int, status model.Status) ([]model.UserBook, error)
	UpdateEntry(ctx context.Context, userID, entryID int, update func(entry *model.UserBook) error) (model.UserBook, error)
}

type RatingRepository interface {
	UpsertRatings(ctx context.Context, userID, bookID int, values []model.RatingValue) ([]model.Rating, error)
	ListRatings(ctx context.Context, userID, bookID int) ([]model.Rating, error)
}

type StreakPlanner func(current *model.ReadingStreak, lastActive *time.Time, day time.Time) model.StreakPlan

type ReadingLogRepository interface {
	AddSession(ctx context.Context, userID int, session model.ReadingSession, plan StreakPlanner) (model.ReadingSession, error)
	ListSessions(ctx context.Context, userID, limit int) ([]model.ReadingSession, error)
}

type StatsRepository interface {
	FinishedBooks(ctx context.Context, userID int) ([]model.FinishedBook, error)
	StatusCounts(ctx context.Context, userID int) (model.StatusCounts, error)
	Streaks(ctx context.Context, userID int) ([]model.ReadingStreak, error)
	OverallRatings(ctx context.Context, userID int) ([]float64, error)
	Sessions(ctx context.Context, userID int, since time.Time) ([]model.ReadingSession, error)
	EntryDates(ctx context.Context, userID int, since time.Time) ([]model.EntryDates, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UserExists(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
	UserByID(ctx context.Context, id int) (model.User, error)
	GetProfile(ctx context.Context, userID int) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.Profile, error)
	ListGoals(ctx context.Context, userID int) ([]model.Goal, error)
	UpsertGoal(ctx context.Context, userID, year int, req model.GoalRequest) (model.Goal, error)
}

var (
	_ LibraryRepository    = (*repository)(nil)
	_ RatingRepository     = (*repository)(nil)
	_ ReadingLogRepository = (*repository)(nil)
	_ StatsRepository      = (*repository)(nil)
	_ UserRepository       = (*repository)(nil)
)

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName    = `users`
	booksTableName    = `books`
	entriesTableName  = `user_books`
	ratingsTableName  = `ratings`
	sessionsTableName = `reading_sessions`
	streaksTableName  = `reading_streaks`
	profilesTableName = `user_profiles`
	goalsTableName    = `reading_goals`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// inTx runs fn in a transaction, committing only when fn succeeds.
func (r *repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.log.Error("rollback", zap.Error(err))
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit tx")
}
