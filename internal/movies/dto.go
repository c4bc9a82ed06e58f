package movies

import (
	"github.com/angelmondragon/flickly-backend/internal/genres"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
)

const releaseDateLayout = "2006-01-02"

// MovieDTO is the allow-listed public view of a movie.
type MovieDTO struct {
	ExternalID       int               `json:"externalId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	ReleaseDate      string            `json:"releaseDate"`
	OriginalLanguage *string           `json:"originalLanguage"`
	Adult            bool              `json:"adult"`
	Genres           []genres.GenreDTO `json:"genres"`
	Popularity       float64           `json:"popularity"`
	VoteAverage      float64           `json:"voteAverage"`
	VoteCount        int               `json:"voteCount"`
	PosterPath       string            `json:"posterPath"`
	BackdropPath     string            `json:"backdropPath"`
	VideoID          *string           `json:"videoId"`
}

// TrailerDTO carries the resolved trailer id, null when none was found.
type TrailerDTO struct {
	VideoID *string `json:"videoId"`
}

func FromModel(m *models.Movie) MovieDTO {
	return MovieDTO{
		ExternalID:       m.ExternalID,
		Title:            m.Title,
		Description:      m.Description,
		ReleaseDate:      m.ReleaseDate.UTC().Format(releaseDateLayout),
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		Genres:           genres.FromModels(m.Genres),
		Popularity:       m.Popularity.InexactFloat64(),
		VoteAverage:      m.VoteAverage.InexactFloat64(),
		VoteCount:        m.VoteCount,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VideoID:          m.VideoID,
	}
}

// FromModels maps a slice, never returning nil.
func FromModels(list []models.Movie) []MovieDTO {
	out := make([]MovieDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
