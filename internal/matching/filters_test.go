package matching

import (
	"testing"

	"github.com/TanasubRat/travel-match-backend/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  models.GroupFilters
		loc  *LatLng
		want func(t *testing.T, f Filters)
	}{
		{
			name: "empty config defaults everything",
			raw:  models.GroupFilters{},
			want: func(t *testing.T, f Filters) {
				if len(f.Categories) != 0 {
					t.Errorf("categories = %v, want empty", f.Categories)
				}
				if f.MinRating != 0 {
					t.Errorf("minRating = %v, want 0", f.MinRating)
				}
				if f.MaxPriceLevel != nil {
					t.Errorf("maxPriceLevel = %v, want nil", *f.MaxPriceLevel)
				}
				if f.OpenNowRequired {
					t.Error("openNowRequired = true, want false")
				}
				if f.NameAllowList != nil {
					t.Errorf("nameAllowList = %v, want nil", f.NameAllowList)
				}
				if f.Requester != nil {
					t.Error("requester should be nil")
				}
			},
		},
		{
			name: "valid fields carried over",
			raw: models.GroupFilters{
				Categories:    []string{"Food & Drink", "Cafe"},
				MinRating:     floatPtr(3.5),
				MaxPriceLevel: intPtr(2),
				OpenNow:       boolPtr(true),
				CustomOptions: []string{"Blue Whale Cafe"},
			},
			loc: &LatLng{Lat: 13.75, Lng: 100.5},
			want: func(t *testing.T, f Filters) {
				if len(f.Categories) != 2 {
					t.Errorf("categories = %v, want 2 entries", f.Categories)
				}
				if f.MinRating != 3.5 {
					t.Errorf("minRating = %v, want 3.5", f.MinRating)
				}
				if f.MaxPriceLevel == nil || *f.MaxPriceLevel != 2 {
					t.Errorf("maxPriceLevel = %v, want 2", f.MaxPriceLevel)
				}
				if !f.OpenNowRequired {
					t.Error("openNowRequired = false, want true")
				}
				if len(f.NameAllowList) != 1 || f.NameAllowList[0] != "Blue Whale Cafe" {
					t.Errorf("nameAllowList = %v", f.NameAllowList)
				}
				if f.Requester == nil || f.Requester.Lat != 13.75 {
					t.Errorf("requester = %v", f.Requester)
				}
			},
		},
		{
			name: "out-of-range numerics default instead of erroring",
			raw: models.GroupFilters{
				MinRating:     floatPtr(9),
				MaxPriceLevel: intPtr(7),
			},
			want: func(t *testing.T, f Filters) {
				if f.MinRating != 5 {
					t.Errorf("minRating = %v, want clamp to 5", f.MinRating)
				}
				if f.MaxPriceLevel != nil {
					t.Errorf("maxPriceLevel = %v, want nil for invalid input", *f.MaxPriceLevel)
				}
			},
		},
		{
			name: "negative rating defaults to zero",
			raw:  models.GroupFilters{MinRating: floatPtr(-1)},
			want: func(t *testing.T, f Filters) {
				if f.MinRating != 0 {
					t.Errorf("minRating = %v, want 0", f.MinRating)
				}
			},
		},
		{
			name: "empty allow-list entries dropped",
			raw:  models.GroupFilters{CustomOptions: []string{"", "Central Market", ""}},
			want: func(t *testing.T, f Filters) {
				if len(f.NameAllowList) != 1 || f.NameAllowList[0] != "Central Market" {
					t.Errorf("nameAllowList = %v, want [Central Market]", f.NameAllowList)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, tt.loc)
			tt.want(t, got)
		})
	}
}
