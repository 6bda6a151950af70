package repository

import (
	"context"
	"fmt"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SwipeRepository handles database operations for swipes
type SwipeRepository struct {
	db *pgxpool.Pool
}

// NewSwipeRepository creates a new swipe repository
func NewSwipeRepository(db *pgxpool.Pool) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Upsert records a swipe. A member re-swiping the same place overwrites the
// earlier judgment; the unique (group, user, place) index makes this
// last-write-wins rather than append.
func (r *SwipeRepository) Upsert(ctx context.Context, swipe *models.Swipe) error {
	query := `
		INSERT INTO swipes (id, group_id, user_id, place_id, liked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (group_id, user_id, place_id)
		DO UPDATE SET liked = EXCLUDED.liked, created_at = EXCLUDED.created_at
	`
	_, err := r.db.Exec(ctx, query,
		swipe.ID, swipe.GroupID, swipe.UserID, swipe.PlaceID, swipe.Liked, swipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert swipe: %w", err)
	}
	return nil
}

// CountLikesByGroup aggregates liked swipes for a group into per-place like
// counts, joined to place data. Rows whose place has been deactivated are
// dropped here so the consensus stage never sees them.
func (r *SwipeRepository) CountLikesByGroup(ctx context.Context, groupID string) ([]matching.LikeRow, error) {
	query := `
		SELECT p.id, p.external_id, p.name, p.city, p.address, p.latitude, p.longitude,
			p.price_level, p.rating, p.user_ratings_total, p.categories, p.is_open_now,
			p.image, p.maps_url, p.is_active, p.created_at,
			COUNT(*) AS likes_count
		FROM swipes s
		JOIN places p ON p.id = s.place_id
		WHERE s.group_id = $1 AND s.liked AND p.is_active
		GROUP BY p.id
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer rows.Close()

	var out []matching.LikeRow
	for rows.Next() {
		var lr matching.LikeRow
		p := &lr.Place
		err := rows.Scan(
			&p.ID, &p.ExternalID, &p.Name, &p.City, &p.Address, &p.Latitude, &p.Longitude,
			&p.PriceLevel, &p.Rating, &p.UserRatingsTotal, &p.Categories, &p.IsOpenNow,
			&p.Image, &p.MapsURL, &p.IsActive, &p.CreatedAt,
			&lr.LikesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like rows: %w", err)
	}
	return out, nil
}
