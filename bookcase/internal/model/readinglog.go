package model

import (
	"time"

	"github.com/goccy/go-json"
)

const DateLayout = "2006-01-02"

type ReadingSession struct {
	ID              int       `json:"id" db:"id"`
	UserBookID      int       `json:"user_book_id" db:"user_book_id"`
	BookID          int       `json:"book" db:"book_id"`
	BookTitle       string    `json:"book_title" db:"book_title"`
	StartPage       int       `json:"start_page" db:"start_page"`
	EndPage         int       `json:"end_page" db:"end_page"`
	SessionDate     time.Time `json:"session_date" db:"session_date"`
	DurationMinutes *int      `json:"duration_minutes" db:"duration_minutes"`
	Notes           *string   `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PagesRead never goes negative, even for a backwards page range.
func (s ReadingSession) PagesRead() int {
	return PagesRead(s.StartPage, s.EndPage)
}

func PagesRead(start, end int) int {
	if end < start {
		return 0
	}
	return end - start
}

func (s ReadingSession) MarshalJSON() ([]byte, error) {
	type alias ReadingSession
	return json.Marshal(struct {
		alias
		SessionDate string `json:"session_date"`
		PagesRead   int    `json:"pages_read"`
	}{
		alias:       alias(s),
		SessionDate: s.SessionDate.Format(DateLayout),
		PagesRead:   s.PagesRead(),
	})
}

type ReadingStreak struct {
	ID            int        `db:"id"`
	StartDate     time.Time  `db:"start_date"`
	EndDate       *time.Time `db:"end_date"`
	CurrentStreak bool       `db:"current_streak"`
}

// Length counts both ends; an open streak runs through today.
func (s ReadingStreak) Length(today time.Time) int {
	end := today
	if s.EndDate != nil {
		end = *s.EndDate
	}
	return DaysBetween(s.StartDate, end) + 1
}

// StreakPlan describes the streak bookkeeping for one logged session.
type StreakPlan struct {
	CloseCurrent bool
	CloseAt      time.Time
	OpenNew      bool
	OpenAt       time.Time
}

type LogSessionRequest struct {
	UserBookID      int     `json:"user_book_id" validate:"required"`
	StartPage       int     `json:"start_page"`
	EndPage         int     `json:"end_page"`
	SessionDate     string  `json:"session_date"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

type SessionsResponse struct {
	Sessions []ReadingSession `json:"sessions"`
}
