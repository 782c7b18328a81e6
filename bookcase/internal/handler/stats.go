package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/stats"
	"github.com/Astemirdum/bookcase/pkg/kafka"
)

// Dashboard
// @Summary  reading dashboard
// @Tags     stats
// @Success  200 {object} model.Dashboard
// @Router   /api/stats/dashboard [get]
func (h *Handler) Dashboard(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	d, err := h.statsSvc.Dashboard(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ReadingTimeline
// @Summary  per-day activity ending today
// @Tags     stats
// @Param    days query int false "1..3650, default 30"
// @Success  200 {array} model.TimelineDay
// @Router   /api/stats/reading-timeline [get]
func (h *Handler) ReadingTimeline(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	days := stats.DefaultTimelineDays
	if raw := c.QueryParam("days"); raw != "" {
		if days, err = strconv.Atoi(raw); err != nil {
			return h.httpError(c, errs.ErrInvalidDays)
		}
	}
	timeline, err := h.statsSvc.Timeline(c.Request().Context(), uid, days)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// GenreBreakdown
// @Summary  finished books grouped by genre
// @Tags     stats
// @Success  200 {array} model.GenreStat
// @Router   /api/stats/genre-breakdown [get]
func (h *Handler) GenreBreakdown(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	genres, err := h.statsSvc.GenreBreakdown(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	if genres == nil {
		genres = []model.GenreStat{}
	}
	return c.JSON(http.StatusOK, genres)
}

// ReadingHabits
// @Summary  session and authorship habits
// @Tags     stats
// @Success  200 {object} model.Habits
// @Router   /api/stats/reading-habits [get]
func (h *Handler) ReadingHabits(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	habits, err := h.statsSvc.Habits(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, habits)
}

// LogSession
// @Summary  log a reading session
// @Tags     stats
// @Param    input body model.LogSessionRequest true "session"
// @Success  201 {object} model.ReadingSession
// @Router   /api/stats/sessions [post]
func (h *Handler) LogSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req model.LogSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.readingLogSvc.LogSession(c.Request().Context(), uid, req)
	if err != nil {
		return h.httpError(c, err)
	}
	h.activity.Publish(kafka.EventActivity{
		Type:       kafka.EventSessionLogged,
		UserID:     uid,
		UserBookID: req.UserBookID,
		PagesRead:  session.PagesRead(),
	})
	return c.JSON(http.StatusCreated, session)
}

// ListSessions
// @Summary  latest reading sessions
// @Tags     stats
// @Param    limit query int false "default 50"
// @Success  200 {object} model.SessionsResponse
// @Router   /api/stats/sessions [get]
func (h *Handler) ListSessions(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var limit int
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
			return h.httpError(c, errs.ErrInvalidLimit)
		}
	}
	sessions, err := h.readingLogSvc.ListSessions(c.Request().Context(), uid, limit)
	if err != nil {
		return h.httpError(c, err)
	}
	if sessions == nil {
		sessions = []model.ReadingSession{}
	}
	return c.JSON(http.StatusOK, model.SessionsResponse{Sessions: sessions})
}
