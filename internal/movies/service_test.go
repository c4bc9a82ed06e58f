package movies

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/flickly-backend/internal/testutil"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubFinder struct {
	videoID string
	err     error
	calls   int
	titles  []string
}

func (s *stubFinder) FindTrailer(_ context.Context, title string) (string, error) {
	s.calls++
	s.titles = append(s.titles, title)
	return s.videoID, s.err
}

type racingRepo struct {
	*Repository
	winner string
}

// SetVideoIDIfEmpty simulates a concurrent request that stored winner first.
func (r *racingRepo) SetVideoIDIfEmpty(ctx context.Context, movieID uint, _ string) (bool, error) {
	if _, err := r.Repository.SetVideoIDIfEmpty(ctx, movieID, r.winner); err != nil {
		return false, err
	}
	return false, nil
}

type failingRepo struct {
	*Repository
}

func (failingRepo) FindByExternalID(context.Context, int, bool) (*models.Movie, error) {
	return nil, errors.New("connection reset")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func newTestService(t *testing.T, repo movieRepository, finder TrailerFinder) (Service, *metrics.TrailerMetrics) {
	t.Helper()
	m := metrics.NewTrailerMetrics(prometheus.NewRegistry())
	svc, err := NewService(ServiceParams{Repo: repo, Trailers: finder, Metrics: m, Logger: testLogger()})
	require.NoError(t, err)
	return svc, m
}

func TestNewServiceRequiresRepoAndLogger(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: testLogger()})
	assert.Error(t, err)

	conn := testutil.OpenSQLite(t)
	_, err = NewService(ServiceParams{Repo: NewRepository(conn)})
	assert.Error(t, err)
}

func TestFindWithFiltersBuildsPage(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	seedCatalog(t, conn)
	svc, _ := newTestService(t, NewRepository(conn), nil)

	page, err := svc.FindWithFilters(context.Background(), Filters{Limit: 2, Page: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
	require.Len(t, page.Results, 2)
	assert.Equal(t, 3, page.Results[0].ExternalID)
}

func TestFindWithFiltersEmptyResultIsNotAnError(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	svc, _ := newTestService(t, NewRepository(conn), nil)

	page, err := svc.FindWithFilters(context.Background(), Filters{Search: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.TotalPages)
}

func TestFindOneByExternalID(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	seedCatalog(t, conn)
	svc, _ := newTestService(t, NewRepository(conn), nil)

	dto, err := svc.FindOneByExternalID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Interstellar", dto.Title)
	assert.Equal(t, "2014-11-07", dto.ReleaseDate)
	assert.Len(t, dto.Genres, 2)

	_, err = svc.FindOneByExternalID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Movie not found", pkgerrors.As(err).Message())
}

func TestFindOneByExternalIDInternalFailure(t *testing.T) {
	svc, _ := newTestService(t, failingRepo{}, nil)

	_, err := svc.GetMovieEntityByExternalID(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInternal))
}

func TestGetTrailerMissPersistsAndHitSkipsLookup(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	testutil.CreateMovie(t, conn, testutil.MovieFixture{ExternalID: 27205, Title: "Inception"})
	finder := &stubFinder{videoID: "YoHD9XEInc0"}
	svc, _ := newTestService(t, NewRepository(conn), finder)
	ctx := context.Background()

	first, err := svc.GetTrailer(ctx, 27205)
	require.NoError(t, err)
	require.NotNil(t, first.VideoID)
	assert.Equal(t, "YoHD9XEInc0", *first.VideoID)

	second, err := svc.GetTrailer(ctx, 27205)
	require.NoError(t, err)
	require.NotNil(t, second.VideoID)
	assert.Equal(t, "YoHD9XEInc0", *second.VideoID)

	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, []string{"Inception"}, finder.titles)
}

func TestGetTrailerNoMatchIsNotCached(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	movie := testutil.CreateMovie(t, conn, testutil.MovieFixture{ExternalID: 11, Title: "Obscure"})
	finder := &stubFinder{}
	svc, _ := newTestService(t, NewRepository(conn), finder)

	dto, err := svc.GetTrailer(context.Background(), 11)
	require.NoError(t, err)
	assert.Nil(t, dto.VideoID)

	_, err = svc.GetTrailer(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, 2, finder.calls)

	var stored models.Movie
	require.NoError(t, conn.First(&stored, movie.ID).Error)
	assert.Nil(t, stored.VideoID)
}

func TestGetTrailerLookupFailureIsPublicInternal(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	testutil.CreateMovie(t, conn, testutil.MovieFixture{ExternalID: 12, Title: "Broken"})
	finder := &stubFinder{err: pkgerrors.New(pkgerrors.CodeDependency, "quota exceeded")}
	svc, _ := newTestService(t, NewRepository(conn), finder)

	_, err := svc.GetTrailer(context.Background(), 12)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, "Failed to retrieve trailer", typed.Message())
	assert.True(t, typed.ExposesMessage())
}

func TestGetTrailerWithoutFinderFails(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	testutil.CreateMovie(t, conn, testutil.MovieFixture{ExternalID: 13, Title: "Offline"})
	svc, _ := newTestService(t, NewRepository(conn), nil)

	_, err := svc.GetTrailer(context.Background(), 13)
	require.Error(t, err)
	assert.Equal(t, "Failed to retrieve trailer", pkgerrors.As(err).Message())
}

func TestGetTrailerLostRaceReturnsStoredValue(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	testutil.CreateMovie(t, conn, testutil.MovieFixture{ExternalID: 14, Title: "Race"})
	repo := &racingRepo{Repository: NewRepository(conn), winner: "winner-id"}
	svc, _ := newTestService(t, repo, &stubFinder{videoID: "loser-id"})

	dto, err := svc.GetTrailer(context.Background(), 14)
	require.NoError(t, err)
	require.NotNil(t, dto.VideoID)
	assert.Equal(t, "winner-id", *dto.VideoID)
}

func TestGetTrailerUnknownMovie(t *testing.T) {
	conn := testutil.OpenSQLite(t)
	finder := &stubFinder{videoID: "x"}
	svc, _ := newTestService(t, NewRepository(conn), finder)

	_, err := svc.GetTrailer(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Zero(t, finder.calls)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
