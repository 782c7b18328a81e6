package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

var userColumns = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "date_joined"}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q := `
insert into users (username, email, password_hash, first_name, last_name)
values (@username, @email, @password_hash, @first_name, @last_name)
returning id, username, email, password_hash, first_name, last_name, date_joined`
	args := pgx.NamedArgs{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case usernameConstraint:
				return model.User{}, errs.ErrUsernameTaken
			case emailConstraint:
				return model.User{}, errs.ErrEmailTaken
			}
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *repository) UserExists(ctx context.Context, username, email string) (bool, bool, error) {
	q := `
select exists(select 1 from users where username = @username),
       exists(select 1 from users where email = @email)`
	var usernameTaken, emailTaken bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username, "email": email}).
		Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, err
}

func (r *repository) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"username": username})
}

func (r *repository) UserByID(ctx context.Context, id int) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	return user, nil
}

var profileColumns = []string{"user_id", "bio", "favorite_genres", "reading_preferences",
	"profile_public", "email_notifications", "created_at"}

// GetProfile creates the profile row on first access.
func (r *repository) GetProfile(ctx context.Context, userID int) (model.Profile, error) {
	if _, err := r.db.Exec(ctx,
		`insert into user_profiles (user_id) values ($1) on conflict do nothing`, userID); err != nil {
		return model.Profile{}, errors.Wrap(err, "ensure profile")
	}
	query, args, err := qb.Select(profileColumns...).
		From(profilesTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Profile{}, err
	}
	defer rows.Close()
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
}

func (r *repository) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.Profile, error) {
	if _, err := r.GetProfile(ctx, userID); err != nil {
		return model.Profile{}, err
	}
	q := qb.Update(profilesTableName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID})
	if req.Bio != nil {
		q = q.Set("bio", *req.Bio)
	}
	if req.FavoriteGenres != nil {
		q = q.Set("favorite_genres", req.FavoriteGenres)
	}
	if req.ReadingPreferences != nil {
		q = q.Set("reading_preferences", req.ReadingPreferences)
	}
	if req.ProfilePublic != nil {
		q = q.Set("profile_public", *req.ProfilePublic)
	}
	if req.EmailNotifications != nil {
		q = q.Set("email_notifications", *req.EmailNotifications)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return model.Profile{}, errors.Wrap(err, "update profile")
	}
	return r.GetProfile(ctx, userID)
}

const goalSelect = `
select g.id, g.user_id, g.year, g.books_goal, g.pages_goal, g.created_at,
       count(ub.id)::int                  as books_read_count,
       coalesce(sum(b.pages), 0)::int     as pages_read_count
from reading_goals g
left join user_books ub on ub.user_id = g.user_id
    and ub.status = 'finished'
    and extract(year from ub.date_finished) = g.year
left join books b on b.id = ub.book_id
where g.user_id = @user_id`

func (r *repository) ListGoals(ctx context.Context, userID int) ([]model.Goal, error) {
	q := goalSelect + `
group by g.id
order by g.year desc`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Goal])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	for i := range goals {
		goals[i].Derive()
	}
	return goals, nil
}

func (r *repository) UpsertGoal(ctx context.Context, userID, year int, req model.GoalRequest) (model.Goal, error) {
	q := `
insert into reading_goals (user_id, year, books_goal, pages_goal)
values (@user_id, @year, @books_goal, @pages_goal)
on conflict (user_id, year) do update
    set books_goal = excluded.books_goal,
        pages_goal = excluded.pages_goal`
	args := pgx.NamedArgs{
		"user_id":    userID,
		"year":       year,
		"books_goal": req.BooksGoal,
		"pages_goal": req.PagesGoal,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return model.Goal{}, errors.Wrap(err, "upsert goal")
	}

	rows, err := r.db.Query(ctx, goalSelect+`
    and g.year = @year
group by g.id`, pgx.NamedArgs{"user_id": userID, "year": year})
	if err != nil {
		return model.Goal{}, err
	}
	defer rows.Close()

	goal, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Goal])
	if err != nil {
		return model.Goal{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	goal.Derive()
	return goal, nil
}
