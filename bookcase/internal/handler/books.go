package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/pkg/kafka"
)

// SearchBooks
// @Summary  search the Open Library catalog
// @Tags     books
// @Param    q query string true "search query"
// @Success  200 {object} model.SearchResult
// @Failure  400,503 {object} echo.HTTPError
// @Router   /api/books/search [get]
func (h *Handler) SearchBooks(c echo.Context) error {
	res, err := h.catalogSvc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// AddBook
// @Summary  add a catalog book to the library
// @Tags     books
// @Param    input body model.AddBookRequest true "book and status"
// @Success  201 {object} model.EntryResponse
// @Failure  400 {object} conflictResponse
// @Router   /api/books/add [post]
func (h *Handler) AddBook(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req model.AddBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.librarySvc.AddBook(c.Request().Context(), uid, req)
	if err != nil {
		return h.httpError(c, err)
	}
	h.activity.Publish(kafka.EventActivity{
		Type:       kafka.EventBookAdded,
		UserID:     uid,
		UserBookID: entry.ID,
		Status:     string(entry.Status),
	})
	return c.JSON(http.StatusCreated, model.EntryResponse{
		Message:  "Book added to your " + entry.StatusDisplay + "!",
		UserBook: entry,
	})
}

// MyBooks
// @Summary  list library entries, newest first
// @Tags     books
// @Param    status query string false "tbr, reading, finished, dnf or all"
// @Success  200 {object} model.ListEntries
// @Router   /api/books/my-books [get]
func (h *Handler) MyBooks(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	entries, err := h.librarySvc.ListBooks(c.Request().Context(), uid, model.Status(c.QueryParam("status")))
	if err != nil {
		return h.httpError(c, err)
	}
	if entries == nil {
		entries = []model.UserBook{}
	}
	return c.JSON(http.StatusOK, model.ListEntries{Books: entries})
}

// UpdateBook
// @Summary  change status, current page or notes of an entry
// @Tags     books
// @Param    id path int true "entry id"
// @Param    input body model.UpdateEntryRequest true "update"
// @Success  200 {object} model.EntryResponse
// @Failure  400,404 {object} echo.HTTPError
// @Router   /api/books/user-book/{id}/update [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.librarySvc.UpdateStatus(c.Request().Context(), uid, id, req)
	if err != nil {
		return h.httpError(c, err)
	}
	h.activity.Publish(kafka.EventActivity{
		Type:       kafka.EventStatusChanged,
		UserID:     uid,
		UserBookID: entry.ID,
		Status:     string(entry.Status),
	})
	return c.JSON(http.StatusOK, model.EntryResponse{
		Message:  "Book status updated to " + entry.StatusDisplay,
		UserBook: entry,
	})
}

// RateBook
// @Summary  upsert ratings for the book of an entry
// @Tags     books
// @Param    id path int true "entry id"
// @Param    input body model.RateRequest true "dimension to value"
// @Success  200 {object} model.RatingsResponse
// @Router   /api/books/user-book/{id}/rate [post]
func (h *Handler) RateBook(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.RateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ratings, err := h.ratingSvc.Rate(c.Request().Context(), uid, id, req)
	if err != nil {
		return h.httpError(c, err)
	}
	if len(ratings) > 0 {
		h.activity.Publish(kafka.EventActivity{Type: kafka.EventRated, UserID: uid, UserBookID: id})
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	return c.JSON(http.StatusOK, model.RatingsResponse{
		Message: "Ratings saved successfully!",
		Ratings: ratings,
	})
}

// BookRatings
// @Summary  ratings of the book of an entry
// @Tags     books
// @Param    id path int true "entry id"
// @Success  200 {object} model.RatingsResponse
// @Router   /api/books/user-book/{id}/ratings [get]
func (h *Handler) BookRatings(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ratings, err := h.ratingSvc.Ratings(c.Request().Context(), uid, id)
	if err != nil {
		return h.httpError(c, err)
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	return c.JSON(http.StatusOK, model.RatingsResponse{Ratings: ratings})
}
