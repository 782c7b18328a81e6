package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/config"
	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/handler"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/pkg/auth"
	"github.com/Astemirdum/bookcase/pkg/serializer"
	"github.com/Astemirdum/bookcase/pkg/validate"

	service_mocks "github.com/Astemirdum/bookcase/bookcase/internal/handler/mocks"
)

const testUserID = 7

func newEcho() *echo.Echo {
	e := echo.New()
	e.JSONSerializer = serializer.New()
	e.Validator = validate.NewCustomValidator()
	return e
}

func newHandler(svc handler.Services) *handler.Handler {
	sessions := auth.NewManager(auth.Config{Secret: "test-secret", MaxAge: 3600})
	return handler.New(svc, sessions, nil, config.HTTPServer{}, zap.NewExample())
}

// withUser stands in for the session middleware.
func withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), testUserID)))
		return next(c)
	}
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestHandler_SearchBooks(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockCatalogService, q string)

	tests := []struct {
		name         string
		query        string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:  "ok",
			query: "dune",
			mockBehavior: func(r *service_mocks.MockCatalogService, q string) {
				r.EXPECT().Search(gomock.Any(), q).
					Return(model.SearchResult{Books: []model.CatalogBook{}, Total: 0}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"books":[],"total":0}`,
		},
		{
			name:  "err. empty query",
			query: "",
			mockBehavior: func(r *service_mocks.MockCatalogService, q string) {
				r.EXPECT().Search(gomock.Any(), q).Return(model.SearchResult{}, errs.ErrEmptyQuery)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Search query is required"}`,
		},
		{
			name:  "err. catalog down",
			query: "dune",
			mockBehavior: func(r *service_mocks.MockCatalogService, q string) {
				r.EXPECT().Search(gomock.Any(), q).
					Return(model.SearchResult{}, errors.Wrap(errs.ErrCatalogUnavailable, "get"))
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"message":"Failed to search books. Please try again."}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			catalog := service_mocks.NewMockCatalogService(c)
			tt.mockBehavior(catalog, tt.query)
			h := newHandler(handler.Services{Catalog: catalog})

			e := newEcho()
			e.GET("/api/books/search", h.SearchBooks, withUser)

			w := doRequest(e, http.MethodGet, "/api/books/search?q="+tt.query, "")
			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_AddBook(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)

	const body = `{"book":{"open_library_id":"OL1W","title":"Dune"},"status":"finished"}`
	tests := []struct {
		name         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
		contains     string
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AddBook(gomock.Any(), testUserID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ int, req model.AddBookRequest) (model.UserBook, error) {
						require.Equal(t, "OL1W", req.Book.OpenLibraryID)
						require.Equal(t, model.StatusFinished, req.Status)
						return model.UserBook{ID: 1, Status: model.StatusFinished, StatusDisplay: "Finished"}, nil
					})
			},
			expectedCode: http.StatusCreated,
			contains:     `"message":"Book added to your Finished!"`,
		},
		{
			name: "err. already in library",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AddBook(gomock.Any(), testUserID, gomock.Any()).
					Return(model.UserBook{}, errors.Wrap(&errs.ConflictError{CurrentStatus: "Currently Reading"}, "add entry"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Book is already in your library","current_status":"Currently Reading"}`,
		},
		{
			name: "err. missing id",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AddBook(gomock.Any(), testUserID, gomock.Any()).
					Return(model.UserBook{}, errs.ErrOpenLibraryID)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Book data with open_library_id is required"}`,
		},
		{
			name: "err. internal is not leaked",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AddBook(gomock.Any(), testUserID, gomock.Any()).
					Return(model.UserBook{}, errors.New("pq: connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"internal server error"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			lib := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(lib)
			h := newHandler(handler.Services{Library: lib})

			e := newEcho()
			e.POST("/api/books/add", h.AddBook, withUser)

			w := doRequest(e, http.MethodPost, "/api/books/add", body)
			require.Equal(t, tt.expectedCode, w.Code)
			if tt.contains != "" {
				require.Contains(t, w.Body.String(), tt.contains)
				return
			}
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_AddBookAnonymous(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	h := newHandler(handler.Services{Library: service_mocks.NewMockLibraryService(c)})
	e := newEcho()
	e.POST("/api/books/add", h.AddBook)

	w := doRequest(e, http.MethodPost, "/api/books/add", `{}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)

	tests := []struct {
		name         string
		target       string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:         "err. id is not a number",
			target:       "/api/books/user-book/abc/update",
			body:         `{"status":"reading"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Not found."}`,
		},
		{
			name:   "err. foreign entry",
			target: "/api/books/user-book/42/update",
			body:   `{"status":"reading"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UpdateStatus(gomock.Any(), testUserID, 42, gomock.Any()).
					Return(model.UserBook{}, errors.Wrap(errs.ErrNotFound, "update entry"))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Not found."}`,
		},
		{
			name:   "err. invalid status",
			target: "/api/books/user-book/42/update",
			body:   `{"status":"lost"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UpdateStatus(gomock.Any(), testUserID, 42, model.UpdateEntryRequest{Status: "lost"}).
					Return(model.UserBook{}, errs.ErrInvalidStatus)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid status"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			lib := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(lib)
			h := newHandler(handler.Services{Library: lib})

			e := newEcho()
			e.PUT("/api/books/user-book/:id/update", h.UpdateBook, withUser)

			w := doRequest(e, http.MethodPut, tt.target, tt.body)
			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_RateBook(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	ratings := service_mocks.NewMockRatingService(c)
	ratings.EXPECT().Rate(gomock.Any(), testUserID, 3, model.RateRequest{
		Ratings: map[string]float64{"overall": 4.5},
		Review:  "great",
	}).Return([]model.Rating{{ID: 1, RatingType: model.DimensionOverall, Rating: 4.5, Review: "great"}}, nil)
	ratings.EXPECT().Rate(gomock.Any(), testUserID, 3, gomock.Any()).Return(nil, errs.ErrEmptyRatings)

	h := newHandler(handler.Services{Rating: ratings})
	e := newEcho()
	e.POST("/api/books/user-book/:id/rate", h.RateBook, withUser)

	w := doRequest(e, http.MethodPost, "/api/books/user-book/3/rate", `{"ratings":{"overall":4.5},"review":"great"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"message":"Ratings saved successfully!"`)
	require.Contains(t, w.Body.String(), `"rating":4.5`)

	w = doRequest(e, http.MethodPost, "/api/books/user-book/3/rate", `{"ratings":{}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"At least one rating is required"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_ReadingTimeline(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	stats := service_mocks.NewMockStatsService(c)
	stats.EXPECT().Timeline(gomock.Any(), testUserID, 30).
		Return([]model.TimelineDay{{Date: "2024-03-01", BooksFinished: 1}}, nil)
	stats.EXPECT().Timeline(gomock.Any(), testUserID, 0).Return(nil, errs.ErrInvalidDays)

	h := newHandler(handler.Services{Stats: stats})
	e := newEcho()
	e.GET("/api/stats/reading-timeline", h.ReadingTimeline, withUser)

	w := doRequest(e, http.MethodGet, "/api/stats/reading-timeline", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `[{"date":"2024-03-01","books_finished":1,"pages_read":0,"books_started":0}]`, strings.Trim(w.Body.String(), "\n"))

	w = doRequest(e, http.MethodGet, "/api/stats/reading-timeline?days=0", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// not a number: rejected without a service call
	w = doRequest(e, http.MethodGet, "/api/stats/reading-timeline?days=week", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"days must be between 1 and 3650"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Sessions(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	log := service_mocks.NewMockReadingLogService(c)
	log.EXPECT().ListSessions(gomock.Any(), testUserID, 0).Return(nil, nil)
	log.EXPECT().LogSession(gomock.Any(), testUserID, gomock.Any()).
		Return(model.ReadingSession{}, errs.ErrInvalidSession)

	h := newHandler(handler.Services{ReadingLog: log})
	e := newEcho()
	e.GET("/api/stats/sessions", h.ListSessions, withUser)
	e.POST("/api/stats/sessions", h.LogSession, withUser)

	w := doRequest(e, http.MethodGet, "/api/stats/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"sessions":[]}`, strings.Trim(w.Body.String(), "\n"))

	w = doRequest(e, http.MethodGet, "/api/stats/sessions?limit=-1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// user_book_id is required by the validator
	w = doRequest(e, http.MethodPost, "/api/stats/sessions", `{"start_page":1,"end_page":10}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(e, http.MethodPost, "/api/stats/sessions", `{"user_book_id":1,"start_page":-1,"end_page":10}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"pages and duration must not be negative"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockAuthService)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
		wantCookie   bool
	}{
		{
			name: "ok",
			body: `{"registration_password":"open","username":"reader","email":"r@example.com","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(model.User{ID: 1, Username: "reader", Email: "r@example.com"}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"Registration successful!","user":{"id":1,"username":"reader","email":"r@example.com","first_name":"","last_name":"","date_joined":"0001-01-01T00:00:00Z"}}`,
			wantCookie:   true,
		},
		{
			name: "err. wrong registration password",
			body: `{"registration_password":"guess","username":"reader","email":"r@example.com","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().Register(gomock.Any(), gomock.Any()).Return(model.User{}, errs.ErrRegistrationForbidden)
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"Invalid registration password. This is a private BookCase instance."}`,
		},
		{
			name: "err. username taken",
			body: `{"registration_password":"open","username":"reader","email":"r@example.com","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().Register(gomock.Any(), gomock.Any()).Return(model.User{}, errs.ErrUsernameTaken)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Username already exists."}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			authSvc := service_mocks.NewMockAuthService(c)
			tt.mockBehavior(authSvc)
			h := newHandler(handler.Services{Auth: authSvc})

			e := newEcho()
			e.POST("/api/users/auth/register", h.Register)

			w := doRequest(e, http.MethodPost, "/api/users/auth/register", tt.body)
			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
			require.Equal(t, tt.wantCookie, strings.Contains(w.Header().Get(echo.HeaderSetCookie), auth.SessionName+"="))
		})
	}
}

func TestHandler_LoginAndCheck(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	user := model.User{ID: 5, Username: "reader"}
	authSvc := service_mocks.NewMockAuthService(c)
	authSvc.EXPECT().Login(gomock.Any(), model.LoginRequest{Username: "reader", Password: "nope"}).
		Return(model.User{}, errs.ErrInvalidCredentials)
	authSvc.EXPECT().Login(gomock.Any(), model.LoginRequest{Username: "reader", Password: "pw"}).
		Return(user, nil)
	authSvc.EXPECT().User(gomock.Any(), 5).Return(user, nil)

	h := newHandler(handler.Services{Auth: authSvc})
	e := newEcho()
	e.POST("/api/users/auth/login", h.Login)
	e.GET("/api/users/auth/check", h.CheckAuth)

	w := doRequest(e, http.MethodPost, "/api/users/auth/login", `{"username":"reader","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"Invalid username or password."}`, strings.Trim(w.Body.String(), "\n"))

	w = doRequest(e, http.MethodGet, "/api/users/auth/check", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"authenticated":false}`, strings.Trim(w.Body.String(), "\n"))

	w = doRequest(e, http.MethodPost, "/api/users/auth/login", `{"username":"reader","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/users/auth/check", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"authenticated":true`)
	require.Contains(t, w.Body.String(), `"username":"reader"`)
}

func TestHandler_SetGoal(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	profile := service_mocks.NewMockProfileService(c)
	profile.EXPECT().SetGoal(gomock.Any(), testUserID, 2024, model.GoalRequest{BooksGoal: 24}).
		Return(model.Goal{Year: 2024, BooksGoal: 24}, nil)

	h := newHandler(handler.Services{Profile: profile})
	e := newEcho()
	e.PUT("/api/users/goals/:year", h.SetGoal, withUser)

	w := doRequest(e, http.MethodPut, "/api/users/goals/2024", `{"books_goal":24}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"books_goal":24`)

	w = doRequest(e, http.MethodPut, "/api/users/goals/next", `{"books_goal":24}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
