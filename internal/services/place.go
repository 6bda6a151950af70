package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// PlaceService handles candidate retrieval and browse ranking
type PlaceService struct {
	places PlaceStore
	groups GroupStore

	// entropy feeds the composite scorer's tie-break term. Production wires
	// a fresh-entropy source; tests inject a fixed one.
	entropy func() float64
}

// NewPlaceService creates a new place service
func NewPlaceService(places PlaceStore, groups GroupStore, entropy func() float64) *PlaceService {
	return &PlaceService{
		places:  places,
		groups:  groups,
		entropy: entropy,
	}
}

// GetByID returns a single place
func (s *PlaceService) GetByID(ctx context.Context, id string) (*models.Place, error) {
	return s.places.GetByID(ctx, id)
}

// Candidates computes the ranked swipe deck for a group: normalize the
// group's filters, select eligible places in its city, score with the
// weighted composite, and return the top slice. Repeating the request may
// reorder near-equal candidates; that is the tie-break working as intended.
func (s *PlaceService) Candidates(ctx context.Context, groupID, userID string, loc *matching.LatLng) ([]matching.ScoredPlace, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("not a group member: %w", models.ErrForbidden)
	}

	filters := matching.Normalize(group.Filters, loc)

	corpus, err := s.places.ListActiveByCity(ctx, group.City)
	if err != nil {
		return nil, fmt.Errorf("failed to load places: %w", err)
	}

	candidates := matching.SelectCandidates(corpus, group.City, filters)
	ranked := matching.RankCandidates(candidates, filters, s.entropy)

	log.Debug().
		Str("group_id", groupID).
		Int("corpus", len(corpus)).
		Int("eligible", len(candidates)).
		Int("ranked", len(ranked)).
		Bool("has_location", loc != nil).
		Msg("Computed candidate ranking")

	return ranked, nil
}

// BrowseQuery is the free-text browse filter set. Categories match with OR
// logic; PriceLevel filters on exact equality, unlike the group budget cap.
type BrowseQuery struct {
	City       string
	Categories []string
	MinRating  *float64
	PriceLevel *int
	OpenNow    bool
}

// BrowseByCategory ranks places by requested-category overlap. Places
// without any overlap are excluded outright.
func (s *PlaceService) BrowseByCategory(ctx context.Context, q BrowseQuery) ([]matching.ScoredPlace, error) {
	filtered, err := s.browseCorpus(ctx, q)
	if err != nil {
		return nil, err
	}
	return matching.RankBrowse(filtered, q.Categories), nil
}

// Browse lists places matching the plain field filters, best rated first.
func (s *PlaceService) Browse(ctx context.Context, q BrowseQuery) ([]models.Place, error) {
	filtered, err := s.browseCorpus(ctx, q)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return browseRating(filtered[i]) > browseRating(filtered[j])
	})
	if len(filtered) > matching.MaxResults {
		filtered = filtered[:matching.MaxResults]
	}
	return filtered, nil
}

// browseCorpus loads and filters the browse corpus. Unlike the candidate
// deck, browse matches the city exactly.
func (s *PlaceService) browseCorpus(ctx context.Context, q BrowseQuery) ([]models.Place, error) {
	corpus, err := s.places.ListActiveByCityExact(ctx, q.City)
	if err != nil {
		return nil, fmt.Errorf("failed to load places: %w", err)
	}

	filtered := corpus[:0]
	for _, p := range corpus {
		if q.OpenNow && !p.IsOpenNow {
			continue
		}
		if q.MinRating != nil {
			if p.Rating == nil || *p.Rating < *q.MinRating {
				continue
			}
		}
		if q.PriceLevel != nil {
			if p.PriceLevel == nil || *p.PriceLevel != *q.PriceLevel {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func browseRating(p models.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
