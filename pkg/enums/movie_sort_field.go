package enums

import "fmt"

// MovieSortField enumerates the movie attributes a listing may be ordered by.
type MovieSortField string

const (
	MovieSortTitle       MovieSortField = "title"
	MovieSortReleaseDate MovieSortField = "releaseDate"
	MovieSortPopularity  MovieSortField = "popularity"
	MovieSortVoteAverage MovieSortField = "voteAverage"
	MovieSortVoteCount   MovieSortField = "voteCount"
)

var movieSortColumns = map[MovieSortField]string{
	MovieSortTitle:       "movies.title",
	MovieSortReleaseDate: "movies.release_date",
	MovieSortPopularity:  "movies.popularity",
	MovieSortVoteAverage: "movies.vote_average",
	MovieSortVoteCount:   "movies.vote_count",
}

var validMovieSortFields = []MovieSortField{
	MovieSortTitle,
	MovieSortReleaseDate,
	MovieSortPopularity,
	MovieSortVoteAverage,
	MovieSortVoteCount,
}

func (f MovieSortField) String() string {
	return string(f)
}

// IsValid reports whether the value is a sortable movie attribute.
func (f MovieSortField) IsValid() bool {
	_, ok := movieSortColumns[f]
	return ok
}

// Column returns the qualified column backing the sort field.
func (f MovieSortField) Column() string {
	return movieSortColumns[f]
}

// MovieSortFieldValues lists the accepted query values in declaration order.
func MovieSortFieldValues() []string {
	out := make([]string, 0, len(validMovieSortFields))
	for _, f := range validMovieSortFields {
		out = append(out, string(f))
	}
	return out
}

func ParseMovieSortField(value string) (MovieSortField, error) {
	for _, candidate := range validMovieSortFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movie sort field %q", value)
}
