package testutil

import (
	"testing"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovieFixture describes the fields tests usually care about.
type MovieFixture struct {
	ExternalID  int
	Title       string
	ReleaseDate time.Time
	Adult       bool
	Popularity  float64
	VoteAverage float64
	VoteCount   int
	VideoID     *string
	GenreIDs    []int
}

// CreateGenres inserts genres keyed by external id.
func CreateGenres(t testing.TB, conn *gorm.DB, names map[int]string) map[int]models.Genre {
	t.Helper()
	out := make(map[int]models.Genre, len(names))
	for externalID, name := range names {
		genre := models.Genre{ExternalID: externalID, Name: name}
		if err := conn.Create(&genre).Error; err != nil {
			t.Fatalf("create genre %d: %v", externalID, err)
		}
		out[externalID] = genre
	}
	return out
}

// CreateMovie inserts a movie linked to already created genres.
func CreateMovie(t testing.TB, conn *gorm.DB, f MovieFixture) models.Movie {
	t.Helper()

	if f.ReleaseDate.IsZero() {
		f.ReleaseDate = time.Date(2010, time.July, 16, 0, 0, 0, 0, time.UTC)
	}
	movie := models.Movie{
		ExternalID:   f.ExternalID,
		Title:        f.Title,
		Description:  f.Title + " overview",
		ReleaseDate:  f.ReleaseDate,
		Adult:        f.Adult,
		PosterPath:   "/poster.jpg",
		BackdropPath: "/backdrop.jpg",
		VideoID:      f.VideoID,
		Popularity:   decimal.NewFromFloat(f.Popularity),
		VoteAverage:  decimal.NewFromFloat(f.VoteAverage),
		VoteCount:    f.VoteCount,
	}
	if len(f.GenreIDs) > 0 {
		var genres []models.Genre
		if err := conn.Where("external_id IN ?", f.GenreIDs).Find(&genres).Error; err != nil {
			t.Fatalf("load genres: %v", err)
		}
		movie.Genres = genres
	}
	if err := conn.Create(&movie).Error; err != nil {
		t.Fatalf("create movie %d: %v", f.ExternalID, err)
	}
	return movie
}
