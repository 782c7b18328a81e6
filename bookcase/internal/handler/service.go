package handler

import (
	"context"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/auth"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/catalog"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/library"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/profile"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/rating"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/readinglog"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/stats"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	Search(ctx context.Context, query string) (model.SearchResult, error)
}

type LibraryService interface {
	AddBook(ctx context.Context, userID int, req model.AddBookRequest) (model.UserBook, error)
	UpdateStatus(ctx context.Context, userID, entryID int, req model.UpdateEntryRequest) (model.UserBook, error)
	ListBooks(ctx context.Context, userID int, status model.Status) ([]model.UserBook, error)
}

type RatingService interface {
	Rate(ctx context.Context, userID, entryID int, req model.RateRequest) ([]model.Rating, error)
	Ratings(ctx context.Context, userID, entryID int) ([]model.Rating, error)
}

type ReadingLogService interface {
	LogSession(ctx context.Context, userID int, req model.LogSessionRequest) (model.ReadingSession, error)
	ListSessions(ctx context.Context, userID, limit int) ([]model.ReadingSession, error)
}

type StatsService interface {
	Dashboard(ctx context.Context, userID int) (model.Dashboard, error)
	Timeline(ctx context.Context, userID, days int) ([]model.TimelineDay, error)
	GenreBreakdown(ctx context.Context, userID int) ([]model.GenreStat, error)
	Habits(ctx context.Context, userID int) (model.Habits, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.User, error)
	User(ctx context.Context, id int) (model.User, error)
}

type ProfileService interface {
	Profile(ctx context.Context, userID int) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (model.Profile, error)
	Goals(ctx context.Context, userID int) ([]model.Goal, error)
	SetGoal(ctx context.Context, userID, year int, req model.GoalRequest) (model.Goal, error)
}

var (
	_ CatalogService    = (*catalog.Service)(nil)
	_ LibraryService    = (*library.Service)(nil)
	_ RatingService     = (*rating.Service)(nil)
	_ ReadingLogService = (*readinglog.Service)(nil)
	_ StatsService      = (*stats.Service)(nil)
	_ AuthService       = (*auth.Service)(nil)
	_ ProfileService    = (*profile.Service)(nil)
)
