package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type geoFenceRepository struct {
	db *database.DB
}

func NewGeoFenceRepository(db *database.DB) geofence.GeoFenceRepository {
	return &geoFenceRepository{db: db}
}

const geoFenceColumns = `id, org_id, name, lat, lng, radius_m, active, created_at, updated_at`

func scanGeoFence(row pgx.Row) (geofence.GeoFence, error) {
	var f geofence.GeoFence
	err := row.Scan(&f.ID, &f.OrgID, &f.Name, &f.Latitude, &f.Longitude, &f.RadiusMeters, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// Create implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) Create(ctx context.Context, fence geofence.GeoFence) (geofence.GeoFence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geo_fences (org_id, name, lat, lng, radius_m, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		fence.OrgID, fence.Name, fence.Latitude, fence.Longitude, fence.RadiusMeters,
		fence.Active, fence.CreatedAt, fence.UpdatedAt,
	).Scan(&fence.ID)
	if err != nil {
		return geofence.GeoFence{}, fmt.Errorf("failed to create geofence: %w", err)
	}
	return fence, nil
}

// GetByID implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) GetByID(ctx context.Context, id string, orgID string) (geofence.GeoFence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + geoFenceColumns + ` FROM geo_fences WHERE id = $1 AND org_id = $2`

	f, err := scanGeoFence(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return geofence.GeoFence{}, geofence.ErrGeoFenceNotFound
		}
		return geofence.GeoFence{}, fmt.Errorf("failed to get geofence: %w", err)
	}
	return f, nil
}

// ListByOrg implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) ListByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	return r.list(ctx, `SELECT `+geoFenceColumns+` FROM geo_fences WHERE org_id = $1 ORDER BY created_at`, orgID)
}

// ListActiveByOrg implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) ListActiveByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	return r.list(ctx, `SELECT `+geoFenceColumns+` FROM geo_fences WHERE org_id = $1 AND active ORDER BY created_at`, orgID)
}

func (r *geoFenceRepository) list(ctx context.Context, query string, args ...interface{}) ([]geofence.GeoFence, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}
	defer rows.Close()

	fences := make([]geofence.GeoFence, 0)
	for rows.Next() {
		f, err := scanGeoFence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence: %w", err)
		}
		fences = append(fences, f)
	}
	return fences, rows.Err()
}

// Update implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) Update(ctx context.Context, fence geofence.GeoFence) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE geo_fences
		SET name = $3, lat = $4, lng = $5, radius_m = $6, active = $7, updated_at = $8
		WHERE id = $1 AND org_id = $2
	`, fence.ID, fence.OrgID, fence.Name, fence.Latitude, fence.Longitude, fence.RadiusMeters, fence.Active, fence.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return geofence.ErrGeoFenceNotFound
	}
	return nil
}

// Delete implements geofence.GeoFenceRepository.
func (r *geoFenceRepository) Delete(ctx context.Context, id string, orgID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM geo_fences WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return geofence.ErrGeoFenceNotFound
	}
	return nil
}
