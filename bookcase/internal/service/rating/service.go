package rating

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

type Service struct {
	log     *zap.Logger
	entries repository.LibraryRepository
	repo    repository.RatingRepository
}

func NewService(entries repository.LibraryRepository, repo repository.RatingRepository, log *zap.Logger) *Service {
	return &Service{
		log:     log.Named("rating"),
		entries: entries,
		repo:    repo,
	}
}

// Rate upserts the submitted dimensions of the entry's book. Every recognised
// value is checked before anything is written; unknown dimensions are skipped.
func (s *Service) Rate(ctx context.Context, userID, entryID int, req model.RateRequest) ([]model.Rating, error) {
	entry, err := s.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if len(req.Ratings) == 0 {
		return nil, errs.ErrEmptyRatings
	}

	values, err := ratingValues(req)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		s.log.Debug("no known dimensions submitted", zap.Int("entry", entryID))
		return []model.Rating{}, nil
	}

	ratings, err := s.repo.UpsertRatings(ctx, userID, entry.Book.ID, values)
	if err != nil {
		return nil, errors.Wrap(err, "upsert ratings")
	}
	return ratings, nil
}

// ratingValues orders the request canonically. The review is kept on overall only.
func ratingValues(req model.RateRequest) ([]model.RatingValue, error) {
	values := make([]model.RatingValue, 0, len(req.Ratings))
	for _, d := range model.Dimensions {
		v, ok := req.Ratings[string(d)]
		if !ok {
			continue
		}
		if !model.ValidRatingValue(v) {
			return nil, errors.Wrapf(errs.ErrInvalidRating, "%s=%v", d, v)
		}
		rv := model.RatingValue{Dimension: d, Value: v}
		if d == model.DimensionOverall {
			rv.Review = req.Review
		}
		values = append(values, rv)
	}
	return values, nil
}

func (s *Service) Ratings(ctx context.Context, userID, entryID int) ([]model.Rating, error) {
	entry, err := s.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRatings(ctx, userID, entry.Book.ID)
}
