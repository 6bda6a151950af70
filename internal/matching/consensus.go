package matching

import (
	"sort"

	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// LikeRow is one aggregated row of liked swipes: a place joined to the
// number of distinct members who liked it. Rows for inactive places must
// already be filtered out by the query that produced them.
type LikeRow struct {
	Place      models.Place
	LikesCount int
}

// Match is one entry of the final consensus ranking.
type Match struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	City       string   `json:"city"`
	Address    *string  `json:"address,omitempty"`
	Image      *string  `json:"image,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty"`
	LikesCount int      `json:"likes_count"`
	Coverage   float64  `json:"coverage"`
	Score      float64  `json:"score"`
}

// MatchResult is the response shape of the match computation. An empty
// Matches list is a valid success value — it covers both "no swipes yet"
// and "no unanimous agreement"; the two are intentionally not distinguished.
type MatchResult struct {
	HasMatch bool    `json:"has_match"`
	Matches  []Match `json:"matches"`
}

// UnanimousMatches keeps only the places every active member liked.
// A plurality of likes is never enough: the product only surfaces a match
// when all present members independently agreed.
func UnanimousMatches(rows []LikeRow, totalMembers int) []LikeRow {
	if totalMembers < 1 {
		totalMembers = 1
	}
	out := make([]LikeRow, 0, len(rows))
	for _, r := range rows {
		if r.LikesCount == totalMembers {
			out = append(out, r)
		}
	}
	return out
}

// RankMatches orders the unanimous set by the consensus score
// 0.5*coverage + 0.3*rating + 0.2*price. Coverage is always 1.0 for rows
// that reached this stage but stays in the formula for a future
// partial-consensus mode. Unlike the candidate ranking there is no random
// term: the ordering drives a human confirmation decision and must be
// reproducible for identical inputs.
func RankMatches(rows []LikeRow, totalMembers int) MatchResult {
	if totalMembers < 1 {
		totalMembers = 1
	}

	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		coverage := float64(r.LikesCount) / float64(totalMembers)

		ratingNorm := 0.0
		if r.Place.Rating != nil {
			ratingNorm = *r.Place.Rating / 5
		}

		priceScore := 0.5
		if r.Place.PriceLevel != nil {
			priceScore = 1 - float64(*r.Place.PriceLevel)/4
		}

		matches = append(matches, Match{
			PlaceID:    r.Place.ID,
			Name:       r.Place.Name,
			City:       r.Place.City,
			Address:    r.Place.Address,
			Image:      r.Place.Image,
			Rating:     r.Place.Rating,
			PriceLevel: r.Place.PriceLevel,
			LikesCount: r.LikesCount,
			Coverage:   coverage,
			Score:      0.5*coverage + 0.3*ratingNorm + 0.2*priceScore,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	return MatchResult{HasMatch: len(matches) > 0, Matches: matches}
}
