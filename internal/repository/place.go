package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const placeColumns = `id, external_id, name, city, address, latitude, longitude,
		price_level, rating, user_ratings_total, categories, is_open_now,
		image, maps_url, is_active, created_at`

// PlaceRepository handles database operations for places
type PlaceRepository struct {
	db *pgxpool.Pool
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// GetByID retrieves a place by ID
func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	place, err := scanPlace(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return place, nil
}

// ListActiveByCity retrieves all active places whose city contains the given
// name, case-insensitively. Hard filtering beyond city and active happens in
// the matching package so the predicates stay unit-testable.
func (r *PlaceRepository) ListActiveByCity(ctx context.Context, city string) ([]models.Place, error) {
	query := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE is_active AND city ILIKE '%' || $1 || '%'
	`
	rows, err := r.db.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	return collectPlaces(rows)
}

// ListActiveByCityExact retrieves active places whose city matches exactly.
// Browse uses this narrower lookup; the substring variant above is for group
// candidate decks only. An empty city lists every active place.
func (r *PlaceRepository) ListActiveByCityExact(ctx context.Context, city string) ([]models.Place, error) {
	query := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE is_active AND ($1 = '' OR city = $1)
	`
	rows, err := r.db.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	return collectPlaces(rows)
}

// scanPlace reads one place row in placeColumns order.
func scanPlace(row pgx.Row) (*models.Place, error) {
	var p models.Place
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Name, &p.City, &p.Address, &p.Latitude, &p.Longitude,
		&p.PriceLevel, &p.Rating, &p.UserRatingsTotal, &p.Categories, &p.IsOpenNow,
		&p.Image, &p.MapsURL, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPlaces(rows pgx.Rows) ([]models.Place, error) {
	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return places, nil
}
