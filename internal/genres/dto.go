package genres

import "github.com/angelmondragon/flickly-backend/pkg/db/models"

// GenreDTO is the public projection of a genre.
type GenreDTO struct {
	ExternalID int    `json:"externalId"`
	Name       string `json:"name"`
}

func FromModel(g models.Genre) GenreDTO {
	return GenreDTO{
		ExternalID: g.ExternalID,
		Name:       g.Name,
	}
}

// FromModels maps a slice, never returning nil.
func FromModels(list []models.Genre) []GenreDTO {
	out := make([]GenreDTO, 0, len(list))
	for _, g := range list {
		out = append(out, FromModel(g))
	}
	return out
}
