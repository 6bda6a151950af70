package matching

import (
	"math"
	"sort"

	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// Weights of the composite score. They sum to 1.0 excluding the tie-break,
// so the random term only perturbs ordering among near-equal candidates.
const (
	weightRating     = 0.35
	weightPopularity = 0.25
	weightDistance   = 0.20
	weightCategory   = 0.10
	weightBudget     = 0.10

	tieBreakMax = 0.05

	// MaxResults caps every ranked list returned to clients.
	MaxResults = 200

	kmPerDegree      = 111.0
	maxDistanceKm    = 20.0
	defaultDistKm    = 10.0
	maxPopularityLog = 3.0 // log10(1001) ~ 3: 1000+ ratings saturate popularity

	// Sentinel for a missing price level; always fails the budget factor.
	missingPriceLevel = 99
)

// Factors holds the five normalized score components plus the tie-break,
// kept per candidate so rankings can be audited.
type Factors struct {
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
	Distance   float64 `json:"distance"`
	Category   float64 `json:"category"`
	Budget     float64 `json:"budget"`
	TieBreak   float64 `json:"tie_break"`
}

// ScoredPlace is a candidate with its final composite score.
type ScoredPlace struct {
	Place   models.Place `json:"place"`
	Factors Factors      `json:"factors"`
	Score   float64      `json:"score"`
}

// RankCandidates computes the weighted composite score for each eligible
// candidate, sorts descending, and returns at most MaxResults entries.
//
// entropy supplies one uniform value in [0,1) per call; each candidate draws
// a fresh tie-break from it. Callers seed it per request in production and
// fix it in tests.
func RankCandidates(cands []models.Place, f Filters, entropy func() float64) []ScoredPlace {
	scored := make([]ScoredPlace, 0, len(cands))
	for _, p := range cands {
		fac := Factors{
			Rating:     ratingFactor(p),
			Popularity: popularityFactor(p),
			Distance:   distanceFactor(p, f.Requester),
			Category:   categoryFactor(p, f.Categories),
			Budget:     budgetFactor(p, f.MaxPriceLevel),
			TieBreak:   entropy() * tieBreakMax,
		}
		score := weightRating*fac.Rating +
			weightPopularity*fac.Popularity +
			weightDistance*fac.Distance +
			weightCategory*fac.Category +
			weightBudget*fac.Budget +
			fac.TieBreak
		scored = append(scored, ScoredPlace{Place: p, Factors: fac, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}

// ratingFactor normalizes rating to [0,1]; missing rating scores 0.
func ratingFactor(p models.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating / 5
}

// popularityFactor compresses the review count logarithmically so that
// 1000+ ratings saturate at 1.0.
func popularityFactor(p models.Place) float64 {
	n := p.UserRatingsTotal
	if n < 0 {
		n = 0
	}
	v := math.Log10(float64(n)+1) / maxPopularityLog
	if v > 1 {
		return 1
	}
	return v
}

// distanceFactor scores proximity linearly: 1.0 at the requester, 0 at
// 20 km and beyond. Distance uses a planar degree approximation (one degree
// is roughly 111 km), which is accurate enough at city scale and avoids a
// geodesic or spatial index. Unknown locations score the fixed 10 km
// mid-range so the other factors keep their relative ordering.
func distanceFactor(p models.Place, requester *LatLng) float64 {
	distKm := defaultDistKm
	if requester != nil && p.Latitude != nil && p.Longitude != nil {
		dLat := *p.Latitude - requester.Lat
		dLng := *p.Longitude - requester.Lng
		distKm = math.Sqrt(dLat*dLat+dLng*dLng) * kmPerDegree
	}
	v := 1 - distKm/maxDistanceKm
	if v < 0 {
		return 0
	}
	return v
}

// categoryFactor is 1 when the candidate shares at least one requested
// category, 0 otherwise. Zero requested categories means zero for everyone;
// absence of a request is not a wildcard here (the browse ranking below is
// the OR-based variant).
func categoryFactor(p models.Place, requested []string) float64 {
	if countCategoryMatches(p.Categories, requested) > 0 {
		return 1
	}
	return 0
}

// budgetFactor is 1 when the price level fits under the budget cap
// (default 4 when the group set none). Missing price levels fail.
func budgetFactor(p models.Place, maxPriceLevel *int) float64 {
	lvl := missingPriceLevel
	if p.PriceLevel != nil {
		lvl = *p.PriceLevel
	}
	budget := 4
	if maxPriceLevel != nil {
		budget = *maxPriceLevel
	}
	if lvl <= budget {
		return 1
	}
	return 0
}

func countCategoryMatches(have, requested []string) int {
	n := 0
	for _, r := range requested {
		for _, c := range have {
			if c == r {
				n++
				break
			}
		}
	}
	return n
}

// RankBrowse is the free-text browse variant of the ranker: categories match
// with OR logic, candidates without any overlap are excluded outright, and
// the score is 0.5*(matched/requested) + 0.3*rating + 0.2*price. No random
// term; browse results are reproducible.
func RankBrowse(places []models.Place, requested []string) []ScoredPlace {
	if len(requested) == 0 {
		return nil
	}

	scored := make([]ScoredPlace, 0, len(places))
	for _, p := range places {
		matched := countCategoryMatches(p.Categories, requested)
		if matched == 0 {
			continue
		}

		priceFactor := 0.5
		if p.PriceLevel != nil {
			priceFactor = 1 - float64(*p.PriceLevel)/4
		}

		score := 0.5*(float64(matched)/float64(len(requested))) +
			0.3*ratingFactor(p) +
			0.2*priceFactor
		scored = append(scored, ScoredPlace{
			Place: p,
			Factors: Factors{
				Rating:   ratingFactor(p),
				Category: float64(matched) / float64(len(requested)),
				Budget:   priceFactor,
			},
			Score: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}
