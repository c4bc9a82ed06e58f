package movies

import (
	"strings"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
)

// Filters are the optional listing constraints accepted by FindWithFilters.
type Filters struct {
	Search      string
	GenreIDs    []int
	ReleaseYear *int
	Adult       *bool
	SortBy      enums.MovieSortField
	Order       enums.SortOrder
	Page        int
	Limit       int
}

// Predicate is one WHERE fragment with its bind arguments.
type Predicate struct {
	Clause string
	Args   []any
}

// SortTerm is one ORDER BY entry over a whitelisted column.
type SortTerm struct {
	Column string
	Order  enums.SortOrder
}

// QuerySpec is the storage-independent description of a movie listing.
// All predicates combine with AND.
type QuerySpec struct {
	Predicates []Predicate
	Sort       []SortTerm
	Paging     pagination.Params
}

const (
	searchClause      = "LOWER(movies.title) LIKE ? " + db.LikeEscape
	genreClause       = "movies.id IN (SELECT mg.movie_id FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE g.external_id IN ?)"
	releaseYearClause = "movies.release_date >= ? AND movies.release_date < ?"
	adultClause       = "movies.adult = ?"
	idColumn          = "movies.id"
)

// BuildQuerySpec translates filters into a QuerySpec.
func BuildQuerySpec(f Filters) QuerySpec {
	spec := QuerySpec{
		Paging: pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize(pagination.DefaultLimit),
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		spec.Predicates = append(spec.Predicates, Predicate{
			Clause: searchClause,
			Args:   []any{db.ContainsPattern(term)},
		})
	}

	if ids := uniqueInts(f.GenreIDs); len(ids) > 0 {
		spec.Predicates = append(spec.Predicates, Predicate{
			Clause: genreClause,
			Args:   []any{ids},
		})
	}

	// Year equality as the half-open range [Jan 1, next Jan 1).
	if f.ReleaseYear != nil {
		start := time.Date(*f.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		spec.Predicates = append(spec.Predicates, Predicate{
			Clause: releaseYearClause,
			Args:   []any{start, start.AddDate(1, 0, 0)},
		})
	}

	if f.Adult != nil {
		spec.Predicates = append(spec.Predicates, Predicate{
			Clause: adultClause,
			Args:   []any{*f.Adult},
		})
	}

	if f.SortBy.IsValid() {
		order := f.Order
		if !order.IsValid() {
			order = enums.SortOrderDesc
		}
		spec.Sort = append(spec.Sort, SortTerm{Column: f.SortBy.Column(), Order: order})
	}
	spec.Sort = append(spec.Sort, SortTerm{Column: idColumn, Order: enums.SortOrderAsc})

	return spec
}

// OrderBy renders the sort terms as an ORDER BY list.
func (s QuerySpec) OrderBy() string {
	parts := make([]string, 0, len(s.Sort))
	for _, term := range s.Sort {
		parts = append(parts, term.Column+" "+term.Order.String())
	}
	return strings.Join(parts, ", ")
}

func uniqueInts(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
