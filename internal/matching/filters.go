// Package matching implements the place-ranking and consensus-matching core:
// filter normalization, hard-filter candidate selection, the weighted
// composite score used to order swipe decks, and the unanimous-match
// consensus ranking. Everything here is pure — no storage access, and the
// only source of randomness is injected by the caller.
package matching

import (
	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// LatLng is a requester geolocation.
type LatLng struct {
	Lat float64
	Lng float64
}

// Filters is the canonical, validated form of a group's filter configuration.
// Raw configurations may have absent or out-of-range fields; normalization
// substitutes defaults instead of erroring.
type Filters struct {
	// Categories requested by the group. Empty means no category was
	// requested; the category factor then scores 0 for every candidate.
	Categories []string

	// MinRating in [0,5]. Zero disables the rating hard filter.
	MinRating float64

	// MaxPriceLevel is the budget cap in [0,4], nil when the group set none.
	MaxPriceLevel *int

	// OpenNowRequired excludes closed places when set.
	OpenNowRequired bool

	// NameAllowList, when non-empty, restricts results to exact
	// case-insensitive name matches and replaces category filtering.
	NameAllowList []string

	// Requester is the caller's location, nil when unknown.
	Requester *LatLng
}

// Normalize converts a raw group filter configuration plus an optional
// requester location into canonical Filters. Invalid numeric fields fall
// back to their defaults rather than failing the request.
func Normalize(raw models.GroupFilters, loc *LatLng) Filters {
	f := Filters{Requester: loc}

	if len(raw.Categories) > 0 {
		f.Categories = append(f.Categories, raw.Categories...)
	}

	if raw.MinRating != nil && *raw.MinRating > 0 {
		f.MinRating = *raw.MinRating
		if f.MinRating > 5 {
			f.MinRating = 5
		}
	}

	if raw.MaxPriceLevel != nil && *raw.MaxPriceLevel >= 0 && *raw.MaxPriceLevel <= 4 {
		lvl := *raw.MaxPriceLevel
		f.MaxPriceLevel = &lvl
	}

	if raw.OpenNow != nil && *raw.OpenNow {
		f.OpenNowRequired = true
	}

	for _, name := range raw.CustomOptions {
		if name != "" {
			f.NameAllowList = append(f.NameAllowList, name)
		}
	}

	return f
}
