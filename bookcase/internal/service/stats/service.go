package stats

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

const (
	DefaultTimelineDays = 30
	MaxTimelineDays     = 3650
)

type Service struct {
	log  *zap.Logger
	repo repository.StatsRepository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo repository.StatsRepository, loc *time.Location, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("stats"),
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *Service) today() time.Time {
	return civilDay(s.now(), s.loc)
}

func (s *Service) Dashboard(ctx context.Context, userID int) (model.Dashboard, error) {
	var (
		finished []model.FinishedBook
		counts   model.StatusCounts
		streaks  []model.ReadingStreak
		ratings  []float64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		finished, err = s.repo.FinishedBooks(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.repo.StatusCounts(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		streaks, err = s.repo.Streaks(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		ratings, err = s.repo.OverallRatings(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return ComputeDashboard(s.today(), s.loc, finished, counts, streaks, ratings), nil
}

func (s *Service) Timeline(ctx context.Context, userID, days int) ([]model.TimelineDay, error) {
	if days < 1 || days > MaxTimelineDays {
		return nil, errs.ErrInvalidDays
	}
	today := s.today()
	first := today.AddDate(0, 0, -(days - 1))
	// entry stamps are instants; the window starts at local midnight of the first day
	since := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, s.loc)

	var (
		entries  []model.EntryDates
		sessions []model.ReadingSession
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entries, err = s.repo.EntryDates(gCtx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.repo.Sessions(gCtx, userID, first)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ComputeTimeline(today, days, s.loc, entries, sessions), nil
}

func (s *Service) GenreBreakdown(ctx context.Context, userID int) ([]model.GenreStat, error) {
	finished, err := s.repo.FinishedBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeGenres(finished), nil
}

func (s *Service) Habits(ctx context.Context, userID int) (model.Habits, error) {
	var (
		finished []model.FinishedBook
		sessions []model.ReadingSession
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		finished, err = s.repo.FinishedBooks(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.repo.Sessions(gCtx, userID, time.Time{})
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Habits{}, err
	}
	return ComputeHabits(s.today(), finished, sessions), nil
}
