package readinglog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Service struct {
	log     *zap.Logger
	entries repository.LibraryRepository
	repo    repository.ReadingLogRepository
	loc     *time.Location
	now     func() time.Time
}

func NewService(entries repository.LibraryRepository, repo repository.ReadingLogRepository, loc *time.Location, log *zap.Logger) *Service {
	return &Service{
		log:     log.Named("readinglog"),
		entries: entries,
		repo:    repo,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *Service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) LogSession(ctx context.Context, userID int, req model.LogSessionRequest) (model.ReadingSession, error) {
	if req.StartPage < 0 || req.EndPage < 0 || (req.DurationMinutes != nil && *req.DurationMinutes < 0) {
		return model.ReadingSession{}, errs.ErrInvalidSession
	}
	day := s.today()
	if req.SessionDate != "" {
		d, err := time.Parse(model.DateLayout, req.SessionDate)
		if err != nil {
			return model.ReadingSession{}, errs.ErrInvalidDate
		}
		day = d
	}

	entry, err := s.entries.GetEntry(ctx, userID, req.UserBookID)
	if err != nil {
		return model.ReadingSession{}, err
	}

	session, err := s.repo.AddSession(ctx, userID, model.ReadingSession{
		BookID:          entry.Book.ID,
		StartPage:       req.StartPage,
		EndPage:         req.EndPage,
		SessionDate:     day,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}, PlanStreak)
	if err != nil {
		return model.ReadingSession{}, errors.Wrap(err, "add session")
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context, userID, limit int) ([]model.ReadingSession, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.ListSessions(ctx, userID, limit)
}

// PlanStreak decides how a session on day affects the streaks. lastActive is
// the latest earlier session day, if any. A day adjacent to the last active
// day, or one before the current streak began, leaves the streaks alone; a gap
// closes the current streak at the last active day and opens a new one.
func PlanStreak(current *model.ReadingStreak, lastActive *time.Time, day time.Time) model.StreakPlan {
	if current == nil {
		return model.StreakPlan{OpenNew: true, OpenAt: day}
	}
	if day.Before(current.StartDate) {
		return model.StreakPlan{}
	}
	last := current.StartDate
	if lastActive != nil && lastActive.After(last) {
		last = *lastActive
	}
	if model.DaysBetween(last, day) <= 1 {
		return model.StreakPlan{}
	}
	return model.StreakPlan{
		CloseCurrent: true,
		CloseAt:      last,
		OpenNew:      true,
		OpenAt:       day,
	}
}
