package model

import (
	"math"
	"time"
)

type Status string

const (
	StatusTBR      Status = "tbr"
	StatusReading  Status = "reading"
	StatusFinished Status = "finished"
	StatusDNF      Status = "dnf"

	// StatusAll is only meaningful as a list filter.
	StatusAll Status = "all"
)

var statusDisplay = map[Status]string{
	StatusTBR:      "To Be Read",
	StatusReading:  "Currently Reading",
	StatusFinished: "Finished",
	StatusDNF:      "Did Not Finish",
}

func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

func (s Status) Display() string {
	return statusDisplay[s]
}

const UnknownAuthor = "Unknown Author"

type Book struct {
	ID            int       `json:"id" db:"id"`
	OpenLibraryID string    `json:"open_library_id" db:"open_library_id"`
	ISBN10        *string   `json:"isbn_10" db:"isbn_10"`
	ISBN13        *string   `json:"isbn_13" db:"isbn_13"`
	Title         string    `json:"title" db:"title"`
	Authors       []string  `json:"authors" db:"authors"`
	PrimaryAuthor string    `json:"primary_author" db:"-"`
	Description   string    `json:"description" db:"description"`
	Publisher     string    `json:"publisher" db:"publisher"`
	PublishDate   *string   `json:"publish_date" db:"publish_date"`
	Pages         *int      `json:"pages" db:"pages"`
	Genres        []string  `json:"genres" db:"genres"`
	Language      string    `json:"language" db:"language"`
	CoverURL      *string   `json:"cover_url" db:"cover_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func PrimaryAuthor(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	return authors[0]
}

// UserBook is a library entry: one user's relationship with one book.
type UserBook struct {
	ID                 int        `json:"id"`
	UserID             int        `json:"-"`
	Book               Book       `json:"book"`
	Status             Status     `json:"status"`
	StatusDisplay      string     `json:"status_display"`
	DateAdded          time.Time  `json:"date_added"`
	DateStarted        *time.Time `json:"date_started"`
	DateFinished       *time.Time `json:"date_finished"`
	CurrentPage        int        `json:"current_page"`
	Notes              string     `json:"notes"`
	ReadingDays        *int       `json:"reading_days"`
	ProgressPercentage float64    `json:"progress_percentage"`
}

// Derive fills the read-only presentation fields.
func (e *UserBook) Derive() {
	e.StatusDisplay = e.Status.Display()
	e.Book.PrimaryAuthor = PrimaryAuthor(e.Book.Authors)
	e.ReadingDays = nil
	if e.DateStarted != nil && e.DateFinished != nil {
		days := DaysBetween(*e.DateStarted, *e.DateFinished)
		e.ReadingDays = &days
	}
	e.ProgressPercentage = Progress(e.CurrentPage, e.Book.Pages)
}

// Progress is current/pages as a percentage capped at 100, 0 when either is unknown.
func Progress(current int, pages *int) float64 {
	if pages == nil || *pages <= 0 || current <= 0 {
		return 0
	}
	return math.Min(100, float64(current)/float64(*pages)*100)
}

// DaysBetween counts calendar days from a to b in UTC.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.UTC().Year(), a.UTC().Month(), a.UTC().Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.UTC().Year(), b.UTC().Month(), b.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// Transition applies the timestamp side effects of moving an entry to next.
// Entering reading stamps date_started, entering finished stamps date_finished
// and backfills date_started.
func (e *UserBook) Transition(next Status, now time.Time) {
	if next == StatusReading && e.Status != StatusReading {
		e.DateStarted = &now
	}
	if next == StatusFinished && e.Status != StatusFinished {
		e.DateFinished = &now
		if e.DateStarted == nil {
			e.DateStarted = &now
		}
	}
	e.Status = next
}

type CatalogBook struct {
	OpenLibraryID    string   `json:"open_library_id"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	FirstPublishYear *int     `json:"first_publish_year"`
	Pages            *int     `json:"pages"`
	Subjects         []string `json:"subjects"`
	ISBN             *string  `json:"isbn"`
	CoverID          *int     `json:"cover_id"`
	CoverURL         *string  `json:"cover_url"`
}

type SearchResult struct {
	Books []CatalogBook `json:"books"`
	Total int           `json:"total"`
}

type AddBookRequest struct {
	Book   CatalogBook `json:"book"`
	Status Status      `json:"status"`
}

type UpdateEntryRequest struct {
	Status      Status  `json:"status"`
	CurrentPage *int    `json:"current_page"`
	Notes       *string `json:"notes"`
}

type EntryResponse struct {
	Message  string   `json:"message"`
	UserBook UserBook `json:"user_book"`
}

type ListEntries struct {
	Books []UserBook `json:"books"`
}
