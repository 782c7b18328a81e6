package model

import "time"

type Dashboard struct {
	BooksLast7Days     int            `json:"books_last_7_days"`
	BooksLast14Days    int            `json:"books_last_14_days"`
	BooksLast30Days    int            `json:"books_last_30_days"`
	BooksLast60Days    int            `json:"books_last_60_days"`
	BooksLast90Days    int            `json:"books_last_90_days"`
	BooksThisYear      int            `json:"books_this_year"`
	BooksAllTime       int            `json:"books_all_time"`
	MonthlyBooks       map[int]int    `json:"monthly_books"`
	PagesLast30Days    int            `json:"pages_last_30_days"`
	PagesLast60Days    int            `json:"pages_last_60_days"`
	PagesLast90Days    int            `json:"pages_last_90_days"`
	PagesThisYear      int            `json:"pages_this_year"`
	PagesAllTime       int            `json:"pages_all_time"`
	AvgPagesPerBook    float64        `json:"avg_pages_per_book"`
	AvgBooksPerMonth   float64        `json:"avg_books_per_month"`
	AvgPagesPerDay     float64        `json:"avg_pages_per_day"`
	CurrentStreakDays  int            `json:"current_streak_days"`
	LongestStreakDays  int            `json:"longest_streak_days"`
	CurrentlyReading   int            `json:"currently_reading"`
	FinishedBooks      int            `json:"finished_books"`
	TBRBooks           int            `json:"tbr_books"`
	AvgRating          float64        `json:"avg_rating"`
	TotalRatings       int            `json:"total_ratings"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

type TimelineDay struct {
	Date          string `json:"date"`
	BooksFinished int    `json:"books_finished"`
	PagesRead     int    `json:"pages_read"`
	BooksStarted  int    `json:"books_started"`
}

type GenreStat struct {
	Genre      string  `json:"genre"`
	BookCount  int     `json:"book_count"`
	TotalPages int     `json:"total_pages"`
	AvgRating  float64 `json:"avg_rating"`
	Percentage float64 `json:"percentage"`
}

type DayPages struct {
	Day   string `json:"day"`
	Pages int    `json:"pages"`
}

type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type BookPages struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

type Habits struct {
	AvgPagesPerDay      float64       `json:"avg_pages_per_day"`
	AvgPagesPerSession  float64       `json:"avg_pages_per_session"`
	AvgSessionDuration  float64       `json:"avg_session_duration"`
	MostProductiveDays  []DayPages    `json:"most_productive_days"`
	MostProductiveHours []int         `json:"most_productive_hours"`
	FavoriteAuthors     []AuthorCount `json:"favorite_authors"`
	FavoriteGenres      []GenreCount  `json:"favorite_genres"`
	LongestBooks        []BookPages   `json:"longest_books"`
	ShortestBooks       []BookPages   `json:"shortest_books"`
}

// FinishedBook is the stats projection of a finished entry.
type FinishedBook struct {
	BookID        int        `db:"book_id"`
	Title         string     `db:"title"`
	Authors       []string   `db:"authors"`
	Genres        []string   `db:"genres"`
	Pages         *int       `db:"pages"`
	DateFinished  *time.Time `db:"date_finished"`
	OverallRating *float64   `db:"overall_rating"`
}

type StatusCounts struct {
	TBR      int `db:"tbr"`
	Reading  int `db:"reading"`
	Finished int `db:"finished"`
	DNF      int `db:"dnf"`
}

// EntryDates are the started/finished stamps of an entry in any status.
type EntryDates struct {
	Status       Status     `db:"status"`
	DateStarted  *time.Time `db:"date_started"`
	DateFinished *time.Time `db:"date_finished"`
}
