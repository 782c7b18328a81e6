package model

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestUserBook_Transition(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-72 * time.Hour)

	tests := []struct {
		name         string
		entry        UserBook
		next         Status
		wantStarted  *time.Time
		wantFinished *time.Time
	}{
		{
			name:        "tbr to reading stamps start",
			entry:       UserBook{Status: StatusTBR},
			next:        StatusReading,
			wantStarted: &now,
		},
		{
			name:        "reading to reading keeps start",
			entry:       UserBook{Status: StatusReading, DateStarted: &earlier},
			next:        StatusReading,
			wantStarted: &earlier,
		},
		{
			name:         "reading to finished keeps start",
			entry:        UserBook{Status: StatusReading, DateStarted: &earlier},
			next:         StatusFinished,
			wantStarted:  &earlier,
			wantFinished: &now,
		},
		{
			name:         "tbr to finished backfills start",
			entry:        UserBook{Status: StatusTBR},
			next:         StatusFinished,
			wantStarted:  &now,
			wantFinished: &now,
		},
		{
			name:         "finished to finished is unchanged",
			entry:        UserBook{Status: StatusFinished, DateStarted: &earlier, DateFinished: &earlier},
			next:         StatusFinished,
			wantStarted:  &earlier,
			wantFinished: &earlier,
		},
		{
			name:         "finished back to reading restarts",
			entry:        UserBook{Status: StatusFinished, DateStarted: &earlier, DateFinished: &earlier},
			next:         StatusReading,
			wantStarted:  &now,
			wantFinished: &earlier,
		},
		{
			name:  "tbr to dnf touches nothing",
			entry: UserBook{Status: StatusTBR},
			next:  StatusDNF,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := tt.entry
			e.Transition(tt.next, now)
			require.Equal(t, tt.next, e.Status)
			require.Equal(t, tt.wantStarted, e.DateStarted)
			require.Equal(t, tt.wantFinished, e.DateFinished)
		})
	}
}

func TestUserBook_Derive(t *testing.T) {
	t.Parallel()
	started := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	finished := time.Date(2024, 1, 11, 1, 0, 0, 0, time.UTC)
	e := UserBook{
		Status:       StatusFinished,
		Book:         Book{Pages: intPtr(300)},
		DateStarted:  &started,
		DateFinished: &finished,
		CurrentPage:  450,
	}
	e.Derive()

	require.Equal(t, "Finished", e.StatusDisplay)
	require.Equal(t, UnknownAuthor, e.Book.PrimaryAuthor)
	require.Equal(t, intPtr(10), e.ReadingDays)
	require.Equal(t, 100.0, e.ProgressPercentage)
}

func TestProgress(t *testing.T) {
	t.Parallel()
	require.Equal(t, 0.0, Progress(10, nil))
	require.Equal(t, 0.0, Progress(0, intPtr(200)))
	require.Equal(t, 25.0, Progress(50, intPtr(200)))
}

func TestValidRatingValue(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{0.5, 1, 2.5, 4.5, 5} {
		require.True(t, ValidRatingValue(v), v)
	}
	for _, v := range []float64{0, 0.25, 4.3, 5.5, -1, 10} {
		require.False(t, ValidRatingValue(v), v)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()
	require.True(t, StatusDNF.Valid())
	require.False(t, Status("paused").Valid())
	require.False(t, StatusAll.Valid())
	require.Equal(t, "To Be Read", StatusTBR.Display())
}

func TestReadingStreak_Length(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	open := ReadingStreak{StartDate: time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, 3, open.Length(today))

	closed := ReadingStreak{StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), EndDate: &end}
	require.Equal(t, 3, closed.Length(today))
}

func TestReadingSession_MarshalJSON(t *testing.T) {
	t.Parallel()
	s := ReadingSession{
		ID:          1,
		StartPage:   40,
		EndPage:     10,
		SessionDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.Contains(t, string(data), `"session_date":"2024-02-29"`)
	require.Contains(t, string(data), `"pages_read":0`)
}

func TestGoal_Derive(t *testing.T) {
	t.Parallel()
	g := Goal{BooksGoal: 4, BooksReadCount: 1, PagesGoal: intPtr(1000), PagesReadCount: 2500}
	g.Derive()
	require.Equal(t, 25.0, g.ProgressPercentage)
	require.NotNil(t, g.PagesProgressPercentage)
	require.Equal(t, 100.0, *g.PagesProgressPercentage)

	zero := Goal{BooksGoal: 0, BooksReadCount: 3}
	zero.Derive()
	require.Equal(t, 0.0, zero.ProgressPercentage)
	require.Nil(t, zero.PagesProgressPercentage)
}
