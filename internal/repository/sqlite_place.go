package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/service"
)

// placeRecord - строка таблицы places
type placeRecord struct {
	PlaceKey  string  `gorm:"primaryKey;column:place_key"`
	Name      string  `gorm:"not null"`
	Category  string  `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	UpdatedAt int64   `gorm:"not null;autoUpdateTime:false"`
}

func (placeRecord) TableName() string { return "places" }

// checkinRecord - строка таблицы checkins; пара (place_key, bucket) уникальна
type checkinRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PlaceKey  string `gorm:"not null;uniqueIndex:idx_checkins_place_bucket,priority:1;index:idx_checkins_place_visited,priority:1"`
	VisitedAt int64  `gorm:"not null;index:idx_checkins_place_visited,priority:2,sort:desc"`
	Note      string `gorm:"not null;default:''"`
	Bucket    int64  `gorm:"not null;uniqueIndex:idx_checkins_place_bucket,priority:2"`
}

func (checkinRecord) TableName() string { return "checkins" }

func placeToRecord(p *models.Place) placeRecord {
	return placeRecord{
		PlaceKey:  p.Key,
		Name:      p.Name,
		Category:  p.Category,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r placeRecord) toModel() *models.Place {
	return &models.Place{
		Key:       r.PlaceKey,
		Name:      r.Name,
		Category:  r.Category,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r checkinRecord) toModel() *models.Checkin {
	return &models.Checkin{
		ID:        r.ID,
		PlaceKey:  r.PlaceKey,
		VisitedAt: r.VisitedAt,
		Note:      r.Note,
		Bucket:    r.Bucket,
	}
}

// SQLitePlaceRepository - хранилище мест и посещений в файле SQLite
type SQLitePlaceRepository struct {
	db *gorm.DB
}

func NewSQLitePlaceRepository(db *gorm.DB) *SQLitePlaceRepository {
	return &SQLitePlaceRepository{db: db}
}

// AutoMigrate создает таблицы и индексы
func (r *SQLitePlaceRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&placeRecord{}, &checkinRecord{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

// Checkpoint переносит WAL в основной файл базы
func (r *SQLitePlaceRepository) Checkpoint(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("failed to checkpoint sqlite wal: %w", err)
	}
	return nil
}

func (r *SQLitePlaceRepository) UpsertPlaces(ctx context.Context, places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}
	records := make([]placeRecord, 0, len(places))
	for _, p := range places {
		records = append(records, placeToRecord(p))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "place_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "latitude", "longitude", "updated_at"}),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert places: %w", err)
	}
	return nil
}

func (r *SQLitePlaceRepository) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	var record placeRecord
	err := r.db.WithContext(ctx).Where("place_key = ?", key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("place %s: %w", key, service.ErrPlaceNotFound)
		}
		return nil, fmt.Errorf("failed to get place by key: %w", err)
	}
	return record.toModel(), nil
}

func (r *SQLitePlaceRepository) LatestCheckin(ctx context.Context, placeKey string) (*models.Checkin, error) {
	var records []checkinRecord
	err := r.db.WithContext(ctx).
		Where("place_key = ?", placeKey).
		Order("visited_at DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get latest checkin: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0].toModel(), nil
}

func (r *SQLitePlaceRepository) CreateCheckin(ctx context.Context, checkin *models.Checkin) error {
	record := checkinRecord{
		PlaceKey:  checkin.PlaceKey,
		VisitedAt: checkin.VisitedAt,
		Note:      checkin.Note,
		Bucket:    checkin.Bucket,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create checkin: %w", service.ErrDuplicateCheckin)
		}
		return fmt.Errorf("failed to create checkin: %w", err)
	}
	checkin.ID = record.ID
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLitePlaceRepository) DeleteCheckin(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&checkinRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete checkin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("checkin %d: %w", id, service.ErrCheckinNotFound)
	}
	return nil
}

// checkinPlaceRow - строка LEFT JOIN посещений и мест
type checkinPlaceRow struct {
	ID             int64
	PlaceKey       string
	VisitedAt      int64
	Note           string
	Bucket         int64
	PlaceName      *string
	PlaceCategory  *string
	PlaceLatitude  *float64
	PlaceLongitude *float64
	PlaceUpdatedAt *int64
}

func (r *SQLitePlaceRepository) ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error) {
	var rows []checkinPlaceRow
	err := r.db.WithContext(ctx).
		Table("checkins").
		Select(`checkins.id, checkins.place_key, checkins.visited_at, checkins.note, checkins.bucket,
			places.name AS place_name, places.category AS place_category,
			places.latitude AS place_latitude, places.longitude AS place_longitude,
			places.updated_at AS place_updated_at`).
		Joins("LEFT JOIN places ON places.place_key = checkins.place_key").
		Order("checkins.visited_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}

	result := make([]*models.CheckinWithPlace, 0, len(rows))
	for _, row := range rows {
		item := &models.CheckinWithPlace{Checkin: &models.Checkin{
			ID:        row.ID,
			PlaceKey:  row.PlaceKey,
			VisitedAt: row.VisitedAt,
			Note:      row.Note,
			Bucket:    row.Bucket,
		}}
		if row.PlaceName != nil {
			item.Place = &models.Place{
				Key:       row.PlaceKey,
				Name:      *row.PlaceName,
				Category:  *row.PlaceCategory,
				Latitude:  *row.PlaceLatitude,
				Longitude: *row.PlaceLongitude,
				UpdatedAt: *row.PlaceUpdatedAt,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *SQLitePlaceRepository) ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error) {
	var records []checkinRecord
	err := r.db.WithContext(ctx).
		Where("place_key = ?", placeKey).
		Order("visited_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list place checkins: %w", err)
	}
	checkins := make([]*models.Checkin, 0, len(records))
	for _, rec := range records {
		checkins = append(checkins, rec.toModel())
	}
	return checkins, nil
}
