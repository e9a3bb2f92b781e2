package domain

import (
	"sort"
	"strings"
)

// SortKey selects the ordering of a catalog view.
type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// CategoryAll disables the category filter. The front-end's French label
// "Tous" is accepted as well.
const (
	CategoryAll   = "all"
	categoryAllFR = "Tous"
)

// Query describes a filtered and sorted catalog view.
type Query struct {
	Search   string
	Category string
	Sort     SortKey
	// MatchOwner extends the free-text search to the owner name.
	MatchOwner bool
}

// FilterAndSort derives a view from products without modifying them.
//
// Sorting is stable: listings that tie on the sort key keep their relative
// order from the input, which for a loaded catalog is createdAt descending.
// An unrecognised sort key leaves the input order untouched.
func FilterAndSort(products []Product, q Query) []Product {
	out := make([]Product, 0, len(products))

	var term string
	if strings.TrimSpace(q.Search) != "" {
		term = strings.ToLower(q.Search)
	}
	filterCategory := q.Category != "" && q.Category != CategoryAll && q.Category != categoryAllFR

	for _, p := range products {
		if term != "" && !matches(p, term, q.MatchOwner) {
			continue
		}
		if filterCategory && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}

	key := q.Sort
	if key == "" {
		key = SortRecent
	}

	switch key {
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceOrZero() < out[j].PriceOrZero() })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceOrZero() > out[j].PriceOrZero() })
	}

	return out
}

func matches(p Product, term string, matchOwner bool) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	return matchOwner && strings.Contains(strings.ToLower(p.OwnerName), term)
}

// ByOwner keeps the products created by ownerID, in input order.
func ByOwner(products []Product, ownerID string) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}

// ValidSortKey reports whether k is one of the known sort keys.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortRecent, SortOldest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}
