package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/flickly-backend/internal/auth"
	"github.com/angelmondragon/flickly-backend/internal/genres"
	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/internal/policy"
	"github.com/angelmondragon/flickly-backend/internal/users"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
	"github.com/angelmondragon/flickly-backend/pkg/redis"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// stubAuthService resolves bearer tokens through a fixed table.
type stubAuthService struct {
	tokens map[string]*models.User
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{AccessToken: "new-token", User: &users.UserDTO{UserName: req.UserName}}, nil
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	if req.Password != "Secret1!" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")
	}
	return &auth.AuthResponse{AccessToken: "tok", User: &users.UserDTO{UserName: req.UserName}}, nil
}

func (s *stubAuthService) ValidateToken(token string) (uuid.UUID, error) {
	if user, ok := s.tokens[token]; ok {
		return user.ID, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or expired token")
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := s.tokens[token]; ok {
		return user, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or expired token")
}

type stubMovieService struct {
	lastFilters movies.Filters
}

func (s *stubMovieService) FindWithFilters(_ context.Context, f movies.Filters) (pagination.Page[movies.MovieDTO], error) {
	s.lastFilters = f
	params := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize(pagination.DefaultLimit)
	return pagination.NewPage([]movies.MovieDTO{{ExternalID: 27205, Title: "Inception"}}, 1, params), nil
}

func (s *stubMovieService) FindOneByExternalID(_ context.Context, id int) (*movies.MovieDTO, error) {
	if id != 27205 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Movie not found")
	}
	return &movies.MovieDTO{ExternalID: id, Title: "Inception"}, nil
}

func (s *stubMovieService) GetMovieEntityByExternalID(_ context.Context, id int) (*models.Movie, error) {
	return &models.Movie{ExternalID: id}, nil
}

func (s *stubMovieService) GetTrailer(_ context.Context, id int) (*movies.TrailerDTO, error) {
	if id != 27205 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Movie not found")
	}
	videoID := "YoHD9XEInc0"
	return &movies.TrailerDTO{VideoID: &videoID}, nil
}

type stubGenreService struct{}

func (stubGenreService) FindAll(context.Context) ([]genres.GenreDTO, error) {
	return []genres.GenreDTO{{ExternalID: 28, Name: "Action"}}, nil
}

type stubUserService struct {
	updatedBy *policy.Principal
	removed   []uuid.UUID
}

func (s *stubUserService) Create(_ context.Context, req users.CreateUserRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), UserName: req.UserName}, nil
}

func (s *stubUserService) List(_ context.Context, q users.ListQuery) (pagination.Page[users.UserDTO], error) {
	params := pagination.Params{Page: q.Page, Limit: q.Limit}.Normalize(users.DefaultListLimit)
	return pagination.NewPage([]users.UserDTO{}, 0, params), nil
}

func (s *stubUserService) FindOneByID(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id, UserName: "neo"}, nil
}

func (s *stubUserService) Update(_ context.Context, actor *policy.Principal, id uuid.UUID, _ users.UpdateUserRequest) (*users.UserDTO, error) {
	s.updatedBy = actor
	return &users.UserDTO{ID: id}, nil
}

func (s *stubUserService) UpdatePassword(context.Context, uuid.UUID, users.UpdatePasswordRequest) error {
	return nil
}

func (s *stubUserService) Remove(_ context.Context, id uuid.UUID) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubUserService) Restore(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (s *stubUserService) ListFavorites(context.Context, uuid.UUID) ([]movies.MovieDTO, error) {
	return []movies.MovieDTO{}, nil
}

func (s *stubUserService) AddFavorite(_ context.Context, _ uuid.UUID, movieID int) error {
	if movieID == 1 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Movie is already in favorites")
	}
	return nil
}

func (s *stubUserService) RemoveFavorite(context.Context, uuid.UUID, int) error {
	return nil
}

type fixture struct {
	router   http.Handler
	movies   *stubMovieService
	users    *stubUserService
	reg      *prometheus.Registry
	member   *models.User
	admin    *models.User
	dbPinger stubPinger
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimitConfig{
			AuthWindow:     time.Minute,
			AuthIPLimit:    5,
			SearchWindow:   time.Minute,
			SearchIPLimit:  500,
			DefaultWindow:  time.Minute,
			DefaultIPLimit: 100,
		},
	}
}

func newFixture(t *testing.T, dbPinger stubPinger) *fixture {
	t.Helper()

	f := &fixture{
		movies:   &stubMovieService{},
		users:    &stubUserService{},
		reg:      prometheus.NewRegistry(),
		member:   &models.User{ID: uuid.New(), UserName: "neo", Role: enums.UserRoleUser},
		admin:    &models.User{ID: uuid.New(), UserName: "morpheus", Role: enums.UserRoleAdmin},
		dbPinger: dbPinger,
	}
	authSvc := &stubAuthService{tokens: map[string]*models.User{
		"member-token": f.member,
		"admin-token":  f.admin,
	}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	f.router = NewRouter(
		testConfig(),
		logg,
		dbPinger,
		(*redis.Client)(nil),
		f.reg,
		authSvc,
		f.movies,
		stubGenreService{},
		f.users,
	)
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Flickly-Env"))

	resp = f.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	down := newFixture(t, stubPinger{err: errors.New("connection refused")})
	resp = down.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestMoviesListParsesQuery(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/api/v1/movies?search=incep&genreIds=28,878&genreIds=12&releaseYear=2010&adult=false&sortBy=popularity&order=ASC&page=2&limit=5", "", "")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.Equal(t, "Movie retrieved successfully", body["message"])

	got := f.movies.lastFilters
	assert.Equal(t, "incep", got.Search)
	assert.Equal(t, []int{28, 878, 12}, got.GenreIDs)
	require.NotNil(t, got.ReleaseYear)
	assert.Equal(t, 2010, *got.ReleaseYear)
	require.NotNil(t, got.Adult)
	assert.False(t, *got.Adult)
	assert.Equal(t, enums.MovieSortPopularity, got.SortBy)
	assert.Equal(t, enums.SortOrderAsc, got.Order)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Limit)
}

func TestMoviesListRejectsInvalidQuery(t *testing.T) {
	f := newFixture(t, stubPinger{})

	for _, query := range []string{"limit=101", "limit=0", "page=0", "genreIds=abc", "adult=maybe", "sortBy=budget", "order=UP"} {
		t.Run(query, func(t *testing.T) {
			resp := f.do(http.MethodGet, "/api/v1/movies?"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestMovieDetailAndTrailer(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/api/v1/movies/27205", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/movies/999", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Movie not found", decodeBody(t, resp)["message"])

	resp = f.do(http.MethodGet, "/api/v1/movies/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/movies/27205/trailer", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "Trailer retrieved successfully", body["message"])
	assert.Equal(t, "YoHD9XEInc0", body["data"].(map[string]any)["videoId"])
}

func TestGenresList(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/api/v1/genres", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Genres successfully retrieved", decodeBody(t, resp)["message"])
}

func TestAuthEndpoints(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodPost, "/api/v1/auth/register", "", `{"userName":"trinity","email":"t@example.com","password":"Secret1!"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "User successfully created", decodeBody(t, resp)["message"])

	resp = f.do(http.MethodPost, "/api/v1/auth/register", "", `{"userName":"trinity","email":"t@example.com","password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"userName":"trinity","password":"Secret1!"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "User successfully logged in", decodeBody(t, resp)["message"])

	resp = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"userName":"trinity","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/auth/me", "member-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUsersAdminRoutes(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/api/v1/users", "member-token", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/users?role=ADMIN&limit=10", "admin-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/users?role=ROOT", "admin-token", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(http.MethodPost, "/api/v1/users", "admin-token", `{"userName":"tank","email":"tank@example.com","password":"Secret1!","role":"ADMIN"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)

	target := uuid.New()
	resp = f.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%s/restore", target), "member-token", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = f.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%s/restore", target), "admin-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUsersSelfOrAdminRoutes(t *testing.T) {
	f := newFixture(t, stubPinger{})
	own := f.member.ID.String()
	other := uuid.NewString()

	resp := f.do(http.MethodGet, "/api/v1/users/"+own, "member-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodGet, "/api/v1/users/"+other, "member-token", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Access denied", decodeBody(t, resp)["message"])

	resp = f.do(http.MethodGet, "/api/v1/users/"+other, "admin-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodPatch, "/api/v1/users/"+own, "member-token", `{"firstName":"Thomas"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, f.users.updatedBy)
	assert.Equal(t, f.member.ID, f.users.updatedBy.ID)

	resp = f.do(http.MethodPatch, "/api/v1/users/"+own, "member-token", `{"nickname":"neo"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(http.MethodPatch, "/api/v1/users/"+own+"/password", "member-token", `{"oldPassword":"a","newPassword":"b"}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodDelete, "/api/v1/users/"+own, "member-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []uuid.UUID{f.member.ID}, f.users.removed)
}

func TestFavoritesRoutes(t *testing.T) {
	f := newFixture(t, stubPinger{})
	own := f.member.ID.String()

	resp := f.do(http.MethodGet, "/api/v1/users/"+own+"/favorites", "member-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodPost, "/api/v1/users/"+own+"/favorites/27205", "member-token", "")
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = f.do(http.MethodPost, "/api/v1/users/"+own+"/favorites/1", "member-token", "")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "Movie is already in favorites", decodeBody(t, resp)["message"])

	resp = f.do(http.MethodDelete, "/api/v1/users/"+own+"/favorites/27205", "member-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(http.MethodDelete, "/api/v1/users/"+uuid.NewString()+"/favorites/27205", "member-token", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	f := newFixture(t, stubPinger{})

	resp := f.do(http.MethodGet, "/api/v1/nowhere", "", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "Route not found", body["message"])
	assert.Equal(t, string(pkgerrors.CodeNotFound), body["error"].(map[string]any)["code"])
}

func TestMetricsEndpointExposesRouteCounters(t *testing.T) {
	f := newFixture(t, stubPinger{})

	f.do(http.MethodGet, "/api/v1/movies/27205", "", "")
	resp := f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `route="/api/v1/movies/{id}"`)
}
