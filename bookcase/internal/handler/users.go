package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

// Register
// @Summary  create an account guarded by the registration password
// @Tags     users
// @Param    input body model.RegisterRequest true "account"
// @Success  201 {object} model.AuthResponse
// @Failure  400,403 {object} echo.HTTPError
// @Router   /api/users/auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return h.httpError(c, errors.Wrap(err, "save session"))
	}
	return c.JSON(http.StatusCreated, model.AuthResponse{
		Message: "Registration successful!",
		User:    &user,
	})
}

// Login
// @Summary  start a cookie session
// @Tags     users
// @Param    input body model.LoginRequest true "credentials"
// @Success  200 {object} model.AuthResponse
// @Failure  400,401 {object} echo.HTTPError
// @Router   /api/users/auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return h.httpError(c, errors.Wrap(err, "save session"))
	}
	return c.JSON(http.StatusOK, model.AuthResponse{
		Message: "Login successful!",
		User:    &user,
	})
}

// Logout
// @Summary  end the session
// @Tags     users
// @Success  200 {object} model.AuthResponse
// @Router   /api/users/auth/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c); err != nil {
		return h.httpError(c, errors.Wrap(err, "expire session"))
	}
	return c.JSON(http.StatusOK, model.AuthResponse{Message: "Logout successful!"})
}

// CheckAuth never fails on a missing or stale session.
// @Summary  report whether the caller is logged in
// @Tags     users
// @Success  200 {object} model.CheckResponse
// @Router   /api/users/auth/check [get]
func (h *Handler) CheckAuth(c echo.Context) error {
	id, err := h.sessions.UserID(c.Request())
	if err != nil {
		return c.JSON(http.StatusOK, model.CheckResponse{})
	}
	user, err := h.authSvc.User(c.Request().Context(), id)
	if errors.Is(err, errs.ErrNotFound) {
		return c.JSON(http.StatusOK, model.CheckResponse{})
	}
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.CheckResponse{Authenticated: true, User: &user})
}

// AuthProfile
// @Summary  current user
// @Tags     users
// @Success  200 {object} model.AuthResponse
// @Router   /api/users/auth/profile [get]
func (h *Handler) AuthProfile(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.authSvc.User(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.AuthResponse{User: &user})
}

// GetProfile
// @Summary  reading profile
// @Tags     users
// @Success  200 {object} model.Profile
// @Router   /api/users/profile [get]
func (h *Handler) GetProfile(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	p, err := h.profileSvc.Profile(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile
// @Summary  update the reading profile
// @Tags     users
// @Param    input body model.UpdateProfileRequest true "fields to change"
// @Success  200 {object} model.Profile
// @Router   /api/users/profile [put]
func (h *Handler) UpdateProfile(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req model.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	p, err := h.profileSvc.UpdateProfile(c.Request().Context(), uid, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetGoals
// @Summary  yearly reading goals, newest first
// @Tags     users
// @Success  200 {object} model.GoalsResponse
// @Router   /api/users/goals [get]
func (h *Handler) GetGoals(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	goals, err := h.profileSvc.Goals(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(c, err)
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return c.JSON(http.StatusOK, model.GoalsResponse{Goals: goals})
}

// SetGoal
// @Summary  set the goal for a year
// @Tags     users
// @Param    year path int true "year"
// @Param    input body model.GoalRequest true "goal"
// @Success  200 {object} model.Goal
// @Router   /api/users/goals/{year} [put]
func (h *Handler) SetGoal(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return h.httpError(c, errs.ErrInvalidGoal)
	}
	var req model.GoalRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	goal, err := h.profileSvc.SetGoal(c.Request().Context(), uid, year, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, goal)
}
