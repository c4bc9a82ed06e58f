package enums

import (
	"fmt"
	"strings"
)

// SortOrder is the direction of an ORDER BY term.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

var validSortOrders = []SortOrder{
	SortOrderAsc,
	SortOrderDesc,
}

func (o SortOrder) String() string {
	return string(o)
}

func (o SortOrder) IsValid() bool {
	for _, candidate := range validSortOrders {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseSortOrder accepts asc/desc in any case.
func ParseSortOrder(value string) (SortOrder, error) {
	normalized := SortOrder(strings.ToUpper(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
