package stats

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

type fakeRepo struct {
	finished []model.FinishedBook
	failOn   string
	since    time.Time
}

func (f *fakeRepo) fail(name string) error {
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeRepo) FinishedBooks(context.Context, int) ([]model.FinishedBook, error) {
	return f.finished, f.fail("finished")
}

func (f *fakeRepo) StatusCounts(context.Context, int) (model.StatusCounts, error) {
	return model.StatusCounts{Finished: len(f.finished)}, f.fail("counts")
}

func (f *fakeRepo) Streaks(context.Context, int) ([]model.ReadingStreak, error) {
	return nil, f.fail("streaks")
}

func (f *fakeRepo) OverallRatings(context.Context, int) ([]float64, error) {
	return nil, f.fail("ratings")
}

func (f *fakeRepo) Sessions(_ context.Context, _ int, since time.Time) ([]model.ReadingSession, error) {
	f.since = since
	return nil, f.fail("sessions")
}

func (f *fakeRepo) EntryDates(context.Context, int, time.Time) ([]model.EntryDates, error) {
	return nil, f.fail("entries")
}

func newTestService(repo *fakeRepo, now time.Time) *Service {
	s := NewService(repo, time.UTC, zap.NewExample())
	s.now = func() time.Time { return now }
	return s
}

func TestService_DashboardAfterFinishingBook(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	s := newTestService(repo, now)

	before, err := s.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	entry := model.UserBook{Status: model.StatusTBR, Book: model.Book{Pages: intPtr(300)}}
	entry.Transition(model.StatusReading, now.Add(-48*time.Hour))
	started := *entry.DateStarted
	entry.Transition(model.StatusFinished, now)
	require.Equal(t, started, *entry.DateStarted)

	repo.finished = append(repo.finished, model.FinishedBook{Pages: entry.Book.Pages, DateFinished: entry.DateFinished})
	after, err := s.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, before.BooksLast30Days+1, after.BooksLast30Days)
	require.Equal(t, before.PagesLast30Days+300, after.PagesLast30Days)
}

func TestService_DashboardError(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"finished", "counts", "streaks", "ratings"} {
		repo := &fakeRepo{failOn: name}
		_, err := newTestService(repo, time.Now()).Dashboard(context.Background(), 1)
		require.Error(t, err, name)
	}
}

func TestService_Timeline(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		days    int
		wantErr error
		wantLen int
	}{
		{name: "default window", days: DefaultTimelineDays, wantLen: 30},
		{name: "single day", days: 1, wantLen: 1},
		{name: "zero", days: 0, wantErr: errs.ErrInvalidDays},
		{name: "negative", days: -4, wantErr: errs.ErrInvalidDays},
		{name: "too long", days: MaxTimelineDays + 1, wantErr: errs.ErrInvalidDays},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &fakeRepo{}
			got, err := newTestService(repo, now).Timeline(context.Background(), 1, tt.days)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			require.Equal(t, "2024-05-20", got[len(got)-1].Date)
			require.Equal(t, got[0].Date, repo.since.Format(model.DateLayout))
		})
	}
}

func TestService_Habits(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{}
	h, err := newTestService(repo, time.Now()).Habits(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, repo.since.IsZero())
	require.Empty(t, h.MostProductiveDays)

	repo.failOn = "sessions"
	_, err = newTestService(repo, time.Now()).Habits(context.Background(), 1)
	require.Error(t, err)
}

func TestService_GenreBreakdown(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{finished: []model.FinishedBook{{Genres: []string{"Essays"}}}}
	got, err := newTestService(repo, time.Now()).GenreBreakdown(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 100.0, got[0].Percentage)
}
