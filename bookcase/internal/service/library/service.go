package library

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.LibraryRepository
	now  func() time.Time
}

func NewService(repo repository.LibraryRepository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("library"),
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// AddBook puts a catalog book into the user's library. Adding straight into
// reading or finished stamps the same dates a later transition would.
func (s *Service) AddBook(ctx context.Context, userID int, req model.AddBookRequest) (model.UserBook, error) {
	req.Book.OpenLibraryID = strings.TrimSpace(req.Book.OpenLibraryID)
	if req.Book.OpenLibraryID == "" {
		return model.UserBook{}, errs.ErrOpenLibraryID
	}
	status := req.Status
	if status == "" {
		status = model.StatusTBR
	}
	if !status.Valid() {
		return model.UserBook{}, errs.ErrInvalidStatus
	}

	var entry model.UserBook
	entry.Transition(status, s.now())

	added, err := s.repo.AddEntry(ctx, userID, req.Book, entry)
	if err != nil {
		return model.UserBook{}, errors.Wrap(err, "add entry")
	}
	return added, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, entryID int, req model.UpdateEntryRequest) (model.UserBook, error) {
	if !req.Status.Valid() {
		return model.UserBook{}, errs.ErrInvalidStatus
	}
	if req.CurrentPage != nil && *req.CurrentPage < 0 {
		return model.UserBook{}, errs.ErrNegativePage
	}
	now := s.now()
	entry, err := s.repo.UpdateEntry(ctx, userID, entryID, func(e *model.UserBook) error {
		e.Transition(req.Status, now)
		if req.CurrentPage != nil {
			e.CurrentPage = *req.CurrentPage
		}
		if req.Notes != nil {
			e.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return model.UserBook{}, errors.Wrap(err, "update entry")
	}
	return entry, nil
}

// ListBooks filters by status; empty or "all" returns every entry.
func (s *Service) ListBooks(ctx context.Context, userID int, status model.Status) ([]model.UserBook, error) {
	if status != "" && status != model.StatusAll && !status.Valid() {
		return nil, errs.ErrInvalidStatus
	}
	return s.repo.ListEntries(ctx, userID, status)
}

func (s *Service) GetEntry(ctx context.Context, userID, entryID int) (model.UserBook, error) {
	return s.repo.GetEntry(ctx, userID, entryID)
}
