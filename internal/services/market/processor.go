// Package market processes instrument lists for the stocks and comparisons
// pages: merging paginated batches from the upstream source, stable
// multi-key sorting, client-side page windows and search filtering.
//
// The package-level functions are pure; Feed composes them into the small
// amount of state the "load more" flow needs. Nothing here performs I/O.
package market

import (
	"sort"
	"strings"

	"financer/internal/models"
)

// SortKey selects the instrument field to order by.
type SortKey string

const (
	SortByPrice  SortKey = "price"
	SortByChange SortKey = "change"
)

// SortOrder is the direction of an instrument sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// MergeBatch combines an incoming batch with the instruments already loaded.
// With isAppend the incoming page is concatenated after the existing list,
// order preserved; duplicate symbols are kept as delivered because the
// upstream legitimately repeats them across page boundaries. Without
// isAppend the incoming batch replaces the list wholesale. The inputs are
// never mutated.
func MergeBatch(existing, incoming []models.Instrument, isAppend bool) []models.Instrument {
	if !isAppend {
		out := make([]models.Instrument, len(incoming))
		copy(out, incoming)
		return out
	}
	out := make([]models.Instrument, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	out = append(out, incoming...)
	return out
}

// SortInstruments orders the list by the given key and direction. The sort
// is stable: rows with equal values keep their relative order, so re-sorting
// on every render never shuffles equal-valued rows. Unknown keys sort by
// change, matching the comparisons page's fallback.
func SortInstruments(list []models.Instrument, key SortKey, order SortOrder) []models.Instrument {
	out := make([]models.Instrument, len(list))
	copy(out, list)

	field := func(in models.Instrument) float64 {
		if key == SortByPrice {
			return in.Price
		}
		return in.ChangePercent
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == Ascending {
			return field(out[i]) < field(out[j])
		}
		return field(out[i]) > field(out[j])
	})
	return out
}

// NextSort applies the header-click rule: clicking the active key flips the
// direction, clicking a new key selects it descending.
func NextSort(currentKey SortKey, currentOrder SortOrder, clicked SortKey) (SortKey, SortOrder) {
	if clicked == currentKey {
		if currentOrder == Ascending {
			return currentKey, Descending
		}
		return currentKey, Ascending
	}
	return clicked, Descending
}

// Page is one client-side window over a loaded list.
type Page struct {
	Items        []models.Instrument `json:"items"`
	PageNumber   int                 `json:"page_number"`
	ItemsPerPage int                 `json:"items_per_page"`
	TotalPages   int                 `json:"total_pages"`
	TotalItems   int                 `json:"total_items"`
}

// Paginate slices the window [(page-1)*n, page*n) out of the list.
// TotalPages is ceil(len/n) but never below 1, so page controls have a
// denominator even for an empty list. A page past the end yields an empty
// window, not an error.
func Paginate(list []models.Instrument, pageNumber, itemsPerPage int) (Page, error) {
	if itemsPerPage <= 0 {
		return Page{}, &models.InvalidInputError{Field: "items_per_page", Reason: "must be greater than zero"}
	}
	if pageNumber < 1 {
		return Page{}, &models.InvalidInputError{Field: "page_number", Reason: "must be at least 1"}
	}

	totalPages := (len(list) + itemsPerPage - 1) / itemsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	start := (pageNumber - 1) * itemsPerPage
	if start > len(list) {
		start = len(list)
	}
	end := start + itemsPerPage
	if end > len(list) {
		end = len(list)
	}

	items := make([]models.Instrument, end-start)
	copy(items, list[start:end])

	return Page{
		Items:        items,
		PageNumber:   pageNumber,
		ItemsPerPage: itemsPerPage,
		TotalPages:   totalPages,
		TotalItems:   len(list),
	}, nil
}

// SearchFilter returns the instruments whose symbol or name contains the
// term, case-insensitively. An empty term returns the input unchanged.
func SearchFilter(list []models.Instrument, term string) []models.Instrument {
	if term == "" {
		return list
	}
	needle := strings.ToLower(term)
	out := make([]models.Instrument, 0, len(list))
	for _, in := range list {
		if strings.Contains(strings.ToLower(in.Symbol), needle) ||
			strings.Contains(strings.ToLower(in.Name), needle) {
			out = append(out, in)
		}
	}
	return out
}
