package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeTimeline_Empty(t *testing.T) {
	t.Parallel()
	got := ComputeTimeline(date(2024, 3, 2), 5, time.UTC, nil, nil)
	require.Equal(t, []model.TimelineDay{
		{Date: "2024-02-27"},
		{Date: "2024-02-28"},
		{Date: "2024-02-29"},
		{Date: "2024-03-01"},
		{Date: "2024-03-02"},
	}, got)
}

func TestComputeTimeline(t *testing.T) {
	t.Parallel()
	today := date(2024, 3, 10)
	entries := []model.EntryDates{
		{Status: model.StatusFinished, DateStarted: timePtr(time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)), DateFinished: timePtr(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))},
		{Status: model.StatusReading, DateStarted: timePtr(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))},
		// finished once, then re-opened: not counted as finished
		{Status: model.StatusReading, DateStarted: timePtr(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)), DateFinished: timePtr(time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC))},
	}
	sessions := []model.ReadingSession{
		{StartPage: 0, EndPage: 40, SessionDate: date(2024, 3, 9)},
		{StartPage: 40, EndPage: 65, SessionDate: date(2024, 3, 9)},
		{StartPage: 90, EndPage: 80, SessionDate: date(2024, 3, 10)},
		{StartPage: 1, EndPage: 500, SessionDate: date(2024, 2, 1)},
	}
	got := ComputeTimeline(today, 3, time.UTC, entries, sessions)
	require.Equal(t, []model.TimelineDay{
		{Date: "2024-03-08", BooksStarted: 1},
		{Date: "2024-03-09", PagesRead: 65},
		{Date: "2024-03-10", BooksFinished: 1, BooksStarted: 1},
	}, got)
}

func TestComputeTimeline_Timezone(t *testing.T) {
	t.Parallel()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	entries := []model.EntryDates{
		{Status: model.StatusFinished, DateFinished: timePtr(time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC))},
	}
	got := ComputeTimeline(date(2024, 3, 10), 2, tokyo, entries, nil)
	require.Equal(t, 0, got[0].BooksFinished)
	require.Equal(t, 1, got[1].BooksFinished)
}

func TestComputeGenres(t *testing.T) {
	t.Parallel()
	t.Run("single genre is 100 percent", func(t *testing.T) {
		got := ComputeGenres([]model.FinishedBook{
			{Title: "A", Genres: []string{"Fantasy"}, Pages: intPtr(100)},
			{Title: "B", Genres: []string{"Fantasy"}},
		})
		require.Len(t, got, 1)
		require.Equal(t, model.GenreStat{Genre: "Fantasy", BookCount: 2, TotalPages: 100, Percentage: 100}, got[0])
	})

	t.Run("multi genre", func(t *testing.T) {
		got := ComputeGenres([]model.FinishedBook{
			{Genres: []string{"Horror", "Fantasy"}, Pages: intPtr(200), OverallRating: floatPtr(4)},
			{Genres: []string{"Fantasy"}, Pages: intPtr(300), OverallRating: floatPtr(5)},
			{Genres: []string{"Poetry"}},
			{Genres: nil},
		})
		require.Equal(t, []model.GenreStat{
			{Genre: "Fantasy", BookCount: 2, TotalPages: 500, AvgRating: 4.5, Percentage: 50},
			{Genre: "Horror", BookCount: 1, TotalPages: 200, AvgRating: 4, Percentage: 25},
			{Genre: "Poetry", BookCount: 1, Percentage: 25},
		}, got)
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, ComputeGenres(nil))
	})
}

func TestComputeDashboard(t *testing.T) {
	t.Parallel()
	today := date(2024, 3, 15)
	finished := []model.FinishedBook{
		{Pages: intPtr(300), DateFinished: timePtr(time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC))},
		{Pages: intPtr(100), DateFinished: timePtr(time.Date(2024, 1, 20, 18, 0, 0, 0, time.UTC))},
		{DateFinished: timePtr(time.Date(2023, 9, 1, 18, 0, 0, 0, time.UTC))},
	}
	end := date(2024, 2, 10)
	streaks := []model.ReadingStreak{
		{StartDate: date(2024, 3, 13), CurrentStreak: true},
		{StartDate: date(2024, 2, 1), EndDate: &end},
	}
	ratings := []float64{4.5, 4, 5, 4.5}

	d := ComputeDashboard(today, time.UTC, finished, model.StatusCounts{TBR: 4, Reading: 2, Finished: 3}, streaks, ratings)

	require.Equal(t, 1, d.BooksLast7Days)
	require.Equal(t, 1, d.BooksLast30Days)
	require.Equal(t, 2, d.BooksLast60Days)
	require.Equal(t, 2, d.BooksThisYear)
	require.Equal(t, 3, d.BooksAllTime)
	require.Equal(t, d.BooksAllTime, d.FinishedBooks)
	require.Equal(t, map[int]int{1: 1, 2: 0, 3: 1}, d.MonthlyBooks)
	require.Equal(t, 300, d.PagesLast30Days)
	require.Equal(t, 400, d.PagesThisYear)
	require.Equal(t, 400, d.PagesAllTime)
	require.Equal(t, 200.0, d.AvgPagesPerBook)
	require.Equal(t, 0.5, d.AvgBooksPerMonth)
	require.Equal(t, 10.0, d.AvgPagesPerDay)
	require.Equal(t, 3, d.CurrentStreakDays)
	require.Equal(t, 10, d.LongestStreakDays)
	require.Equal(t, 2, d.CurrentlyReading)
	require.Equal(t, 4, d.TBRBooks)
	require.Equal(t, 4.5, d.AvgRating)
	require.Equal(t, 4, d.TotalRatings)
	require.Equal(t, 2, d.RatingDistribution["4.5"])
	require.Equal(t, 0, d.RatingDistribution["0.5"])
	require.Len(t, d.RatingDistribution, 10)
}

func TestComputeDashboard_Empty(t *testing.T) {
	t.Parallel()
	d := ComputeDashboard(date(2024, 2, 1), time.UTC, nil, model.StatusCounts{}, nil, nil)
	require.Zero(t, d.BooksAllTime)
	require.Zero(t, d.AvgRating)
	require.Zero(t, d.AvgBooksPerMonth)
	require.Equal(t, map[int]int{1: 0, 2: 0}, d.MonthlyBooks)
	require.Len(t, d.RatingDistribution, 10)
}

func TestComputeHabits(t *testing.T) {
	t.Parallel()
	today := date(2024, 3, 15) // Friday
	sessions := []model.ReadingSession{
		{StartPage: 0, EndPage: 50, SessionDate: date(2024, 3, 15), DurationMinutes: intPtr(60)},
		{StartPage: 50, EndPage: 80, SessionDate: date(2024, 3, 14)},
		{StartPage: 0, EndPage: 10, SessionDate: date(2024, 3, 13), DurationMinutes: intPtr(20)},
		{StartPage: 10, EndPage: 5, SessionDate: date(2024, 3, 12)},
		{StartPage: 0, EndPage: 90, SessionDate: date(2024, 1, 1)},
	}
	finished := []model.FinishedBook{
		{Title: "Long", Authors: []string{"B", "A"}, Genres: []string{"x"}, Pages: intPtr(900)},
		{Title: "Short", Authors: []string{"A"}, Genres: []string{"y", "x"}, Pages: intPtr(90)},
		{Title: "Mid", Authors: []string{"C"}, Pages: intPtr(300)},
		{Title: "Mid2", Authors: []string{"D"}, Pages: intPtr(301)},
		{Title: "Unknown", Authors: []string{"E"}},
	}

	h := ComputeHabits(today, finished, sessions)

	require.Equal(t, 36.0, h.AvgPagesPerSession)
	require.Equal(t, 40.0, h.AvgSessionDuration)
	require.Equal(t, 3.0, h.AvgPagesPerDay)
	require.Equal(t, []model.DayPages{
		{Day: "Monday", Pages: 90},
		{Day: "Friday", Pages: 50},
		{Day: "Thursday", Pages: 30},
	}, h.MostProductiveDays)
	require.Empty(t, h.MostProductiveHours)
	require.Equal(t, model.AuthorCount{Author: "A", Count: 2}, h.FavoriteAuthors[0])
	require.Equal(t, model.AuthorCount{Author: "B", Count: 1}, h.FavoriteAuthors[1])
	require.Len(t, h.FavoriteAuthors, 5)
	require.Equal(t, []model.GenreCount{{Genre: "x", Count: 2}, {Genre: "y", Count: 1}}, h.FavoriteGenres)
	require.Equal(t, []model.BookPages{{Title: "Long", Pages: 900}, {Title: "Mid2", Pages: 301}, {Title: "Mid", Pages: 300}}, h.LongestBooks)
	require.Equal(t, []model.BookPages{{Title: "Short", Pages: 90}, {Title: "Mid", Pages: 300}, {Title: "Mid2", Pages: 301}}, h.ShortestBooks)
}

func TestComputeHabits_Empty(t *testing.T) {
	t.Parallel()
	h := ComputeHabits(date(2024, 3, 15), nil, nil)
	require.Zero(t, h.AvgPagesPerSession)
	require.NotNil(t, h.MostProductiveDays)
	require.NotNil(t, h.LongestBooks)
	require.Empty(t, h.FavoriteAuthors)
}
