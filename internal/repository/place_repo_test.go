package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanasubRat/travel-match-backend/internal/repository"
	"github.com/TanasubRat/travel-match-backend/testutil"
)

func TestPlaceRepository_CityLookups(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	// Unique city names keep the test independent of whatever else is in
	// the database.
	suffix := uuid.New().String()[:8]
	city := "Krung Thep " + suffix
	cityWithDistrict := city + " Sathorn"

	for _, c := range []string{city, cityWithDistrict} {
		_, err := pool.Exec(ctx,
			`INSERT INTO places (id, name, city, is_active) VALUES ($1, $2, $3, TRUE)`,
			uuid.New().String(), "Place in "+c, c,
		)
		require.NoError(t, err)
	}

	places := repository.NewPlaceRepository(pool)

	// Substring lookup (candidate decks) matches both cities.
	got, err := places.ListActiveByCity(ctx, city)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Exact lookup (browse) matches only the exact city.
	got, err = places.ListActiveByCityExact(ctx, city)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, city, got[0].City)
}
