package matching

import (
	"strings"

	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// SelectCandidates applies the hard filters to the place corpus and returns
// the eligible subset. All predicates combine with AND; a failing predicate
// excludes the place outright rather than lowering its score. The result is
// not truncated — the 200-row cap applies after scoring.
func SelectCandidates(places []models.Place, city string, f Filters) []models.Place {
	eligible := make([]models.Place, 0, len(places))
	for _, p := range places {
		if Eligible(p, city, f) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Eligible reports whether a single place passes every hard filter.
func Eligible(p models.Place, city string, f Filters) bool {
	if !p.IsActive {
		return false
	}
	if city != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(city)) {
		return false
	}
	if f.OpenNowRequired && !p.IsOpenNow {
		return false
	}
	if f.MinRating > 0 {
		if p.Rating == nil || *p.Rating < f.MinRating {
			return false
		}
	}
	if f.MaxPriceLevel != nil {
		// A place without a price level cannot prove it fits the budget,
		// so a budget cap excludes it.
		if p.PriceLevel == nil || *p.PriceLevel > *f.MaxPriceLevel {
			return false
		}
	}
	if len(f.NameAllowList) > 0 && !nameAllowed(p.Name, f.NameAllowList) {
		return false
	}
	return true
}

// nameAllowed checks the explicit allow-list with exact, case-insensitive
// name equality. A non-empty allow-list replaces category filtering.
func nameAllowed(name string, allow []string) bool {
	for _, a := range allow {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}
