package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movie is a catalog entry imported from the upstream movie database.
type Movie struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	ExternalID       int             `gorm:"column:external_id;not null;uniqueIndex:movies_external_id_key"`
	Title            string          `gorm:"column:title;type:varchar(100);not null;index"`
	Description      string          `gorm:"column:description;type:varchar(500);not null"`
	ReleaseDate      time.Time       `gorm:"column:release_date;type:date;not null;index"`
	OriginalLanguage *string         `gorm:"column:original_language;type:varchar(20)"`
	Adult            bool            `gorm:"column:adult;not null;default:false"`
	PosterPath       string          `gorm:"column:poster_path;type:varchar(200);not null"`
	BackdropPath     string          `gorm:"column:backdrop_path;type:varchar(200);not null"`
	VideoID          *string         `gorm:"column:video_id;type:varchar(250)"`
	Popularity       decimal.Decimal `gorm:"column:popularity;type:numeric(10,3);not null;default:0;index"`
	VoteAverage      decimal.Decimal `gorm:"column:vote_average;type:numeric(5,2);not null;default:0;index"`
	VoteCount        int             `gorm:"column:vote_count;not null;default:0"`
	Genres           []Genre         `gorm:"many2many:movie_genres;"`
}

// HasTrailer reports whether a trailer id has already been resolved.
func (m *Movie) HasTrailer() bool {
	return m != nil && m.VideoID != nil && *m.VideoID != ""
}
