// Package seed imports a TMDB-shaped catalog export into the database.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names the catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Catalog is the file layout accepted by the seeder.
type Catalog struct {
	Genres []GenreRecord `json:"genres" yaml:"genres"`
	Movies []MovieRecord `json:"movies" yaml:"movies"`
}

type GenreRecord struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MovieRecord mirrors one entry of the upstream movie list endpoint.
type MovieRecord struct {
	ID               int     `json:"id" yaml:"id"`
	Title            string  `json:"title" yaml:"title"`
	Overview         string  `json:"overview" yaml:"overview"`
	ReleaseDate      string  `json:"release_date" yaml:"release_date"`
	OriginalLanguage *string `json:"original_language" yaml:"original_language"`
	Adult            *bool   `json:"adult" yaml:"adult"`
	GenreIDs         []int   `json:"genre_ids" yaml:"genre_ids"`
	Popularity       float64 `json:"popularity" yaml:"popularity"`
	VoteAverage      float64 `json:"vote_average" yaml:"vote_average"`
	VoteCount        int     `json:"vote_count" yaml:"vote_count"`
	PosterPath       string  `json:"poster_path" yaml:"poster_path"`
	BackdropPath     string  `json:"backdrop_path" yaml:"backdrop_path"`
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// LoadCatalog reads and decodes a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f, format)
}

func DecodeCatalog(r io.Reader, format Format) (*Catalog, error) {
	var cat Catalog
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&cat); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&cat); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return &cat, nil
}
