package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

const maxBio = 500

type Service struct {
	log  *zap.Logger
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("profile"),
		repo: repo,
	}
}

func (s *Service) Profile(ctx context.Context, userID int) (model.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	return s.withUser(ctx, p)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.Profile, error) {
	if req.Bio != nil && len([]rune(*req.Bio)) > maxBio {
		return model.Profile{}, errs.ErrBioTooLong
	}
	p, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return model.Profile{}, err
	}
	return s.withUser(ctx, p)
}

func (s *Service) withUser(ctx context.Context, p model.Profile) (model.Profile, error) {
	user, err := s.repo.UserByID(ctx, p.UserID)
	if err != nil {
		return model.Profile{}, err
	}
	p.User = &user
	if p.FavoriteGenres == nil {
		p.FavoriteGenres = []string{}
	}
	if p.ReadingPreferences == nil {
		p.ReadingPreferences = map[string]any{}
	}
	return p, nil
}

func (s *Service) Goals(ctx context.Context, userID int) ([]model.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *Service) SetGoal(ctx context.Context, userID, year int, req model.GoalRequest) (model.Goal, error) {
	if year < 1 || year > 9999 {
		return model.Goal{}, errs.ErrInvalidGoal
	}
	if req.BooksGoal < 0 || (req.PagesGoal != nil && *req.PagesGoal < 0) {
		return model.Goal{}, errs.ErrInvalidGoal
	}
	return s.repo.UpsertGoal(ctx, userID, year, req)
}
