package matching

import (
	"math"
	"math/rand"
	"testing"

	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// zeroEntropy removes the tie-break so scores can be asserted exactly.
func zeroEntropy() float64 { return 0 }

func TestRankCandidatesFactorRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	places := []models.Place{
		testPlace("perfect", func(p *models.Place) {
			p.Rating = floatPtr(5)
			p.UserRatingsTotal = 100000
			p.PriceLevel = intPtr(0)
		}),
		testPlace("no-data", func(p *models.Place) {
			p.Rating = nil
			p.PriceLevel = nil
			p.UserRatingsTotal = 0
			p.Latitude = nil
			p.Longitude = nil
			p.Categories = nil
		}),
		testPlace("far", func(p *models.Place) {
			p.Latitude = floatPtr(14.9)
			p.Longitude = floatPtr(101.9)
		}),
		testPlace("mid", func(p *models.Place) {
			p.Rating = floatPtr(2.5)
			p.UserRatingsTotal = 30
			p.PriceLevel = intPtr(3)
		}),
	}
	f := Filters{
		Categories: []string{"Food & Drink"},
		Requester:  &LatLng{Lat: 13.75, Lng: 100.5},
	}

	for _, sp := range RankCandidates(places, f, rng.Float64) {
		facs := map[string]float64{
			"R": sp.Factors.Rating,
			"P": sp.Factors.Popularity,
			"D": sp.Factors.Distance,
			"C": sp.Factors.Category,
			"B": sp.Factors.Budget,
		}
		for name, v := range facs {
			if v < 0 || v > 1 {
				t.Errorf("%s: factor %s = %v, want within [0,1]", sp.Place.Name, name, v)
			}
		}
		if sp.Factors.TieBreak < 0 || sp.Factors.TieBreak >= tieBreakMax {
			t.Errorf("%s: tie-break = %v, want within [0,0.05)", sp.Place.Name, sp.Factors.TieBreak)
		}
		if sp.Score < 0 || sp.Score >= 1.05 {
			t.Errorf("%s: score = %v, want within [0,1.05)", sp.Place.Name, sp.Score)
		}
	}
}

func TestRankCandidatesPerfectPlace(t *testing.T) {
	// rating=5, 1000 reviews, priceLevel=0, matching category, distance 0:
	// every factor saturates and the base score is exactly 1.00.
	place := testPlace("perfect", func(p *models.Place) {
		p.Rating = floatPtr(5)
		p.UserRatingsTotal = 1000
		p.PriceLevel = intPtr(0)
	})
	f := Filters{
		Categories:    []string{"Food & Drink"},
		MaxPriceLevel: intPtr(4),
		Requester:     &LatLng{Lat: 13.75, Lng: 100.5},
	}

	got := RankCandidates([]models.Place{place}, f, zeroEntropy)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}

	sp := got[0]
	want := Factors{Rating: 1, Popularity: 1, Distance: 1, Category: 1, Budget: 1}
	if sp.Factors.Rating != want.Rating ||
		sp.Factors.Popularity != want.Popularity ||
		sp.Factors.Distance != want.Distance ||
		sp.Factors.Category != want.Category ||
		sp.Factors.Budget != want.Budget {
		t.Errorf("factors = %+v, want all saturated at 1", sp.Factors)
	}
	if math.Abs(sp.Score-1.0) > 1e-9 {
		t.Errorf("score = %v, want exactly 1.00 without tie-break", sp.Score)
	}
}

func TestPopularityFactorSaturates(t *testing.T) {
	tests := []struct {
		ratings int
		want    float64
	}{
		{0, 0},
		{9, math.Log10(10) / 3},  // 1/3
		{999, math.Log10(1000) / 3}, // exactly 1.0
		{1000, 1},                // log10(1001)/3 > 1 clamps
		{100000, 1},
	}
	for _, tt := range tests {
		p := testPlace("A", func(p *models.Place) { p.UserRatingsTotal = tt.ratings })
		if got := popularityFactor(p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("popularityFactor(%d ratings) = %v, want %v", tt.ratings, got, tt.want)
		}
	}
}

func TestDistanceFactor(t *testing.T) {
	requester := &LatLng{Lat: 13.75, Lng: 100.5}

	atRequester := testPlace("A", nil)
	if got := distanceFactor(atRequester, requester); got != 1 {
		t.Errorf("distance 0 km = %v, want 1", got)
	}

	// 0.2 degrees latitude ~ 22.2 km: beyond the 20 km horizon, scores 0.
	far := testPlace("B", func(p *models.Place) { p.Latitude = floatPtr(13.95) })
	if got := distanceFactor(far, requester); got != 0 {
		t.Errorf("distance beyond 20 km = %v, want 0", got)
	}

	// Unknown requester location: fixed 10 km default, a neutral 0.5.
	if got := distanceFactor(atRequester, nil); got != 0.5 {
		t.Errorf("unknown location = %v, want 0.5", got)
	}

	// Place without coordinates also falls back to the default.
	noCoords := testPlace("C", func(p *models.Place) { p.Latitude = nil; p.Longitude = nil })
	if got := distanceFactor(noCoords, requester); got != 0.5 {
		t.Errorf("missing coordinates = %v, want 0.5", got)
	}
}

func TestCategoryFactorZeroRequestedIsNotWildcard(t *testing.T) {
	p := testPlace("A", nil)
	if got := categoryFactor(p, nil); got != 0 {
		t.Errorf("categoryFactor with no requested categories = %v, want 0", got)
	}
}

func TestBudgetFactor(t *testing.T) {
	tests := []struct {
		name  string
		price *int
		cap   *int
		want  float64
	}{
		{"within cap", intPtr(1), intPtr(2), 1},
		{"at cap", intPtr(2), intPtr(2), 1},
		{"over cap", intPtr(3), intPtr(2), 0},
		{"no cap defaults to 4", intPtr(4), nil, 1},
		{"missing price always fails", nil, intPtr(4), 0},
		{"missing price fails even without cap", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlace("A", func(p *models.Place) { p.PriceLevel = tt.price })
			if got := budgetFactor(p, tt.cap); got != tt.want {
				t.Errorf("budgetFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankCandidatesCategorySwing(t *testing.T) {
	// B and C are identical except B matches the requested category; the
	// 0.10 category weight must rank B above C.
	b := testPlace("B", func(p *models.Place) {
		p.PriceLevel = intPtr(1)
		p.Categories = []string{"Food & Drink"}
	})
	c := testPlace("C", func(p *models.Place) {
		p.PriceLevel = intPtr(1)
		p.Categories = []string{"Shopping"}
	})
	f := Filters{Categories: []string{"Food & Drink"}, MaxPriceLevel: intPtr(2)}

	got := RankCandidates([]models.Place{c, b}, f, zeroEntropy)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Place.Name != "B" {
		t.Errorf("top result = %s, want B (category match adds 0.10)", got[0].Place.Name)
	}
	if diff := got[0].Score - got[1].Score; math.Abs(diff-0.10) > 1e-9 {
		t.Errorf("score gap = %v, want exactly 0.10", diff)
	}
}

func TestRankCandidatesCapsAtMaxResults(t *testing.T) {
	places := make([]models.Place, 0, MaxResults+50)
	for i := 0; i < MaxResults+50; i++ {
		places = append(places, testPlace("A", nil))
	}
	rng := rand.New(rand.NewSource(1))

	got := RankCandidates(places, Filters{}, rng.Float64)
	if len(got) != MaxResults {
		t.Errorf("got %d results, want cap of %d", len(got), MaxResults)
	}
}

func TestRankCandidatesFixedSeedIsReproducible(t *testing.T) {
	places := []models.Place{
		testPlace("A", nil),
		testPlace("B", nil),
		testPlace("C", nil),
	}
	f := Filters{Categories: []string{"Food & Drink"}}

	first := RankCandidates(places, f, rand.New(rand.NewSource(7)).Float64)
	second := RankCandidates(places, f, rand.New(rand.NewSource(7)).Float64)

	for i := range first {
		if first[i].Place.ID != second[i].Place.ID || first[i].Score != second[i].Score {
			t.Fatalf("rank %d differs between runs with the same seed", i)
		}
	}
}

func TestRankBrowse(t *testing.T) {
	requested := []string{"Food & Drink", "Cafe"}
	full := testPlace("full-match", func(p *models.Place) {
		p.Categories = []string{"Food & Drink", "Cafe"}
		p.Rating = floatPtr(4)
		p.PriceLevel = intPtr(2)
	})
	partial := testPlace("partial-match", func(p *models.Place) {
		p.Categories = []string{"Cafe"}
		p.Rating = floatPtr(4)
		p.PriceLevel = intPtr(2)
	})
	none := testPlace("no-match", func(p *models.Place) {
		p.Categories = []string{"Nightlife"}
		p.Rating = floatPtr(5)
	})

	got := RankBrowse([]models.Place{none, partial, full}, requested)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (no overlap means excluded, not scored low)", len(got))
	}
	if got[0].Place.Name != "full-match" || got[1].Place.Name != "partial-match" {
		t.Errorf("order = [%s, %s], want full match first", got[0].Place.Name, got[1].Place.Name)
	}

	// full: 0.5*1 + 0.3*0.8 + 0.2*0.5 = 0.84
	if math.Abs(got[0].Score-0.84) > 1e-9 {
		t.Errorf("full-match score = %v, want 0.84", got[0].Score)
	}
	// partial: 0.5*0.5 + 0.3*0.8 + 0.2*0.5 = 0.59
	if math.Abs(got[1].Score-0.59) > 1e-9 {
		t.Errorf("partial-match score = %v, want 0.59", got[1].Score)
	}
}

func TestRankBrowseMissingPriceIsNeutral(t *testing.T) {
	p := testPlace("A", func(p *models.Place) {
		p.PriceLevel = nil
		p.Rating = nil
	})
	got := RankBrowse([]models.Place{p}, []string{"Food & Drink"})
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	// 0.5*1 + 0.3*0 + 0.2*0.5 = 0.60
	if math.Abs(got[0].Score-0.60) > 1e-9 {
		t.Errorf("score = %v, want 0.60 (missing price scores the neutral 0.5)", got[0].Score)
	}
}
