package repository

import (
	"context"
	"sync/atomic"

	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/service"
)

// FencedPlaceRepository закрывает хранилище после восстановления из копии:
// открытое соединение продолжает смотреть на замененный файл, поэтому
// любые чтения и записи до перезапуска возвращают service.ErrRestartRequired.
type FencedPlaceRepository struct {
	repo   service.PlaceRepository
	sealed atomic.Bool
}

func NewFencedPlaceRepository(repo service.PlaceRepository) *FencedPlaceRepository {
	return &FencedPlaceRepository{repo: repo}
}

// Seal необратимо закрывает хранилище
func (r *FencedPlaceRepository) Seal() {
	r.sealed.Store(true)
}

func (r *FencedPlaceRepository) Sealed() bool {
	return r.sealed.Load()
}

func (r *FencedPlaceRepository) check() error {
	if r.sealed.Load() {
		return service.ErrRestartRequired
	}
	return nil
}

func (r *FencedPlaceRepository) UpsertPlaces(ctx context.Context, places []*models.Place) error {
	if err := r.check(); err != nil {
		return err
	}
	return r.repo.UpsertPlaces(ctx, places)
}

func (r *FencedPlaceRepository) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.repo.GetPlace(ctx, key)
}

func (r *FencedPlaceRepository) LatestCheckin(ctx context.Context, placeKey string) (*models.Checkin, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.repo.LatestCheckin(ctx, placeKey)
}

func (r *FencedPlaceRepository) CreateCheckin(ctx context.Context, checkin *models.Checkin) error {
	if err := r.check(); err != nil {
		return err
	}
	return r.repo.CreateCheckin(ctx, checkin)
}

func (r *FencedPlaceRepository) DeleteCheckin(ctx context.Context, id int64) error {
	if err := r.check(); err != nil {
		return err
	}
	return r.repo.DeleteCheckin(ctx, id)
}

func (r *FencedPlaceRepository) ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.repo.ListCheckins(ctx, page, pageSize)
}

func (r *FencedPlaceRepository) ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.repo.ListPlaceCheckins(ctx, placeKey)
}
