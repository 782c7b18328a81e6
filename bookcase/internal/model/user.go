package model

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

type RegisterRequest struct {
	RegistrationPassword string `json:"registration_password"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

type CheckResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

type Profile struct {
	UserID             int            `json:"-" db:"user_id"`
	User               *User          `json:"user" db:"-"`
	Bio                string         `json:"bio" db:"bio"`
	FavoriteGenres     []string       `json:"favorite_genres" db:"favorite_genres"`
	ReadingPreferences map[string]any `json:"reading_preferences" db:"reading_preferences"`
	ProfilePublic      bool           `json:"profile_public" db:"profile_public"`
	EmailNotifications bool           `json:"email_notifications" db:"email_notifications"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}

type UpdateProfileRequest struct {
	Bio                *string        `json:"bio"`
	FavoriteGenres     []string       `json:"favorite_genres"`
	ReadingPreferences map[string]any `json:"reading_preferences"`
	ProfilePublic      *bool          `json:"profile_public"`
	EmailNotifications *bool          `json:"email_notifications"`
}

type Goal struct {
	ID                      int       `json:"id" db:"id"`
	UserID                  int       `json:"user" db:"user_id"`
	Year                    int       `json:"year" db:"year"`
	BooksGoal               int       `json:"books_goal" db:"books_goal"`
	PagesGoal               *int      `json:"pages_goal" db:"pages_goal"`
	BooksReadCount          int       `json:"books_read_count" db:"books_read_count"`
	PagesReadCount          int       `json:"pages_read_count" db:"pages_read_count"`
	ProgressPercentage      float64   `json:"progress_percentage" db:"-"`
	PagesProgressPercentage *float64  `json:"pages_progress_percentage,omitempty" db:"-"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
}

// Derive computes progress towards the goal, capped at 100.
func (g *Goal) Derive() {
	g.ProgressPercentage = percentOf(g.BooksReadCount, g.BooksGoal)
	g.PagesProgressPercentage = nil
	if g.PagesGoal != nil {
		p := percentOf(g.PagesReadCount, *g.PagesGoal)
		g.PagesProgressPercentage = &p
	}
}

func percentOf(n, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := float64(n) / float64(goal) * 100
	if p > 100 {
		return 100
	}
	return p
}

type GoalRequest struct {
	BooksGoal int  `json:"books_goal"`
	PagesGoal *int `json:"pages_goal"`
}

type GoalsResponse struct {
	Goals []Goal `json:"goals"`
}
