package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/service"
)

type PlaceRepository struct {
	db *pgxpool.Pool
}

func NewPlaceRepository(db *pgxpool.Pool) service.PlaceRepository {
	return &PlaceRepository{
		db: db,
	}
}

// UpsertPlaces сохраняет места; существующие записи перезаписываются
func (r *PlaceRepository) UpsertPlaces(ctx context.Context, places []*models.Place) error {
	query := `
		INSERT INTO places (place_key, name, category, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (place_key) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at;
	`
	batch := &pgx.Batch{}
	for _, place := range places {
		batch.Queue(query,
			place.Key,
			place.Name,
			place.Category,
			place.Latitude,
			place.Longitude,
			place.UpdatedAt,
		)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert places: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit places: %w", err)
	}
	return nil
}

// GetPlace возвращает место по ключу
func (r *PlaceRepository) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	place := &models.Place{}
	query := `
		SELECT place_key, name, category, latitude, longitude, updated_at
		FROM places
		WHERE place_key = $1;
	`
	err := r.db.QueryRow(ctx, query, key).Scan(
		&place.Key,
		&place.Name,
		&place.Category,
		&place.Latitude,
		&place.Longitude,
		&place.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place %s: %w", key, service.ErrPlaceNotFound)
		}
		return nil, fmt.Errorf("failed to get place by key: %w", err)
	}
	return place, nil
}

// LatestCheckin возвращает последнее посещение места или nil
func (r *PlaceRepository) LatestCheckin(ctx context.Context, placeKey string) (*models.Checkin, error) {
	checkin := &models.Checkin{}
	query := `
		SELECT id, place_key, visited_at, note, bucket
		FROM checkins
		WHERE place_key = $1
		ORDER BY visited_at DESC
		LIMIT 1;
	`
	err := r.db.QueryRow(ctx, query, placeKey).Scan(
		&checkin.ID,
		&checkin.PlaceKey,
		&checkin.VisitedAt,
		&checkin.Note,
		&checkin.Bucket,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest checkin: %w", err)
	}
	return checkin, nil
}

// CreateCheckin сохраняет посещение; повтор в том же окне отклоняется уникальным индексом
func (r *PlaceRepository) CreateCheckin(ctx context.Context, checkin *models.Checkin) error {
	query := `
		INSERT INTO checkins (place_key, visited_at, note, bucket)
		VALUES ($1, $2, $3, $4) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		checkin.PlaceKey,
		checkin.VisitedAt,
		checkin.Note,
		checkin.Bucket,
	).Scan(&checkin.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("failed to create checkin: %w", service.ErrDuplicateCheckin)
		}
		return fmt.Errorf("failed to create checkin: %w", err)
	}
	return nil
}

// DeleteCheckin удаляет посещение по id
func (r *PlaceRepository) DeleteCheckin(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM checkins WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkin: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("checkin %d: %w", id, service.ErrCheckinNotFound)
	}
	return nil
}

// ListCheckins возвращает посещения от новых к старым вместе с местами
func (r *PlaceRepository) ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error) {
	offset := (page - 1) * pageSize

	query := `
		SELECT
			c.id,
			c.place_key,
			c.visited_at,
			c.note,
			c.bucket,
			p.name,
			p.category,
			p.latitude,
			p.longitude,
			p.updated_at
		FROM checkins c
		LEFT JOIN places p ON p.place_key = c.place_key
		ORDER BY c.visited_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CheckinWithPlace, 0)
	for rows.Next() {
		checkin := &models.Checkin{}
		var (
			name, category      *string
			latitude, longitude *float64
			updatedAt           *int64
		)
		err := rows.Scan(
			&checkin.ID,
			&checkin.PlaceKey,
			&checkin.VisitedAt,
			&checkin.Note,
			&checkin.Bucket,
			&name,
			&category,
			&latitude,
			&longitude,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin row: %w", err)
		}

		item := &models.CheckinWithPlace{Checkin: checkin}
		if name != nil {
			item.Place = &models.Place{
				Key:       checkin.PlaceKey,
				Name:      *name,
				Category:  *category,
				Latitude:  *latitude,
				Longitude: *longitude,
				UpdatedAt: *updatedAt,
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return result, nil
}

// ListPlaceCheckins возвращает все посещения места от новых к старым
func (r *PlaceRepository) ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error) {
	query := `
		SELECT id, place_key, visited_at, note, bucket
		FROM checkins
		WHERE place_key = $1
		ORDER BY visited_at DESC;
	`
	rows, err := r.db.Query(ctx, query, placeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list place checkins: %w", err)
	}
	defer rows.Close()

	checkins := make([]*models.Checkin, 0)
	for rows.Next() {
		checkin := &models.Checkin{}
		if err := rows.Scan(
			&checkin.ID,
			&checkin.PlaceKey,
			&checkin.VisitedAt,
			&checkin.Note,
			&checkin.Bucket,
		); err != nil {
			return nil, fmt.Errorf("failed to scan checkin row in ListPlaceCheckins: %w", err)
		}
		checkins = append(checkins, checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListPlaceCheckins: %w", err)
	}
	return checkins, nil
}
