package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/shenikar/oreoregeo/internal/webhook"
	"github.com/sirupsen/logrus"
)

// PlaceRepository определяет контракт локального хранилища мест и посещений
type PlaceRepository interface {
	UpsertPlaces(ctx context.Context, places []*models.Place) error
	GetPlace(ctx context.Context, key string) (*models.Place, error)
	// LatestCheckin возвращает nil, nil, если посещений места еще не было
	LatestCheckin(ctx context.Context, placeKey string) (*models.Checkin, error)
	CreateCheckin(ctx context.Context, checkin *models.Checkin) error
	DeleteCheckin(ctx context.Context, id int64) error
	ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error)
	ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error)
}

// POISearcher ищет точки интереса во внешнем индексе
type POISearcher interface {
	Search(ctx context.Context, q osm.SearchQuery) ([]*models.Place, error)
}

// NodeEditor создает и правит узлы OSM
type NodeEditor interface {
	CreateNode(ctx context.Context, creds osm.CredentialProvider, lat, lon float64, tags map[string]string, comment string) (*osm.Node, error)
	UpdateNode(ctx context.Context, creds osm.CredentialProvider, id int64, tags map[string]string, comment string) (*osm.Node, error)
}

// PlaceService определяет контракт бизнес-логики мест, посещений и правок OSM
type PlaceService interface {
	SearchNearby(ctx context.Context, params models.SearchParams) ([]*models.PlaceWithDistance, error)
	GetPlace(ctx context.Context, key string) (*models.Place, error)
	PerformCheckin(ctx context.Context, placeKey, note string) (int64, error)
	ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error)
	ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error)
	DeleteCheckin(ctx context.Context, id int64) error
	CreateNode(ctx context.Context, lat, lon float64, tags map[string]string, comment string) (*models.Place, error)
	UpdateNode(ctx context.Context, id int64, tags map[string]string, comment string) (*models.Place, error)
}

type placeService struct {
	repo      PlaceRepository
	searcher  POISearcher
	editor    NodeEditor
	creds     osm.CredentialProvider
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewPlaceService(
	repo PlaceRepository,
	searcher POISearcher,
	editor NodeEditor,
	creds osm.CredentialProvider,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
) PlaceService {
	return &placeService{
		repo:      repo,
		searcher:  searcher,
		editor:    editor,
		creds:     creds,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SearchNearby ищет места вокруг точки, сортирует по расстоянию и сохраняет их в кеш
func (s *placeService) SearchNearby(ctx context.Context, params models.SearchParams) ([]*models.PlaceWithDistance, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "place",
		"method":  "SearchNearby",
		"lat":     params.Lat,
		"lon":     params.Lon,
		"radius":  params.RadiusMeters,
	})
	log.Info("Searching nearby places")

	places, err := s.searcher.Search(ctx, osm.SearchQuery{
		Lat:          params.Lat,
		Lon:          params.Lon,
		RadiusMeters: params.RadiusMeters,
		Language:     params.Language,
	})
	if err != nil {
		log.WithError(err).Error("Failed to search remote POI index")
		return nil, fmt.Errorf("service: could not search nearby places: %w", err)
	}

	origin := orb.Point{params.Lon, params.Lat}
	updatedAt := s.now().UnixMilli()

	retained := make([]*models.Place, 0, len(places))
	results := make([]*models.PlaceWithDistance, 0, len(places))
	for _, place := range places {
		if params.ExcludeUnnamed && place.Name == models.UnnamedPlace {
			continue
		}
		place.UpdatedAt = updatedAt
		retained = append(retained, place)
		results = append(results, &models.PlaceWithDistance{
			Place:          place,
			DistanceMeters: geo.DistanceHaversine(origin, orb.Point{place.Longitude, place.Latitude}),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})

	if len(retained) > 0 {
		if err := s.repo.UpsertPlaces(ctx, retained); err != nil {
			log.WithError(err).Error("Failed to cache places")
			return nil, fmt.Errorf("service: could not save places: %w", err)
		}
	}

	log.WithField("count", len(results)).Info("Nearby search completed")
	return results, nil
}

// GetPlace возвращает место из локального кеша
func (s *placeService) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	if _, _, err := models.ParsePlaceKey(key); err != nil {
		return nil, err
	}
	place, err := s.repo.GetPlace(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service: could not get place: %w", err)
	}
	return place, nil
}

// PerformCheckin записывает посещение, если прошлое посещение места было не менее 30 минут назад
func (s *placeService) PerformCheckin(ctx context.Context, placeKey, note string) (int64, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "place",
		"method":    "PerformCheckin",
		"place_key": placeKey,
	})
	if _, _, err := models.ParsePlaceKey(placeKey); err != nil {
		log.WithError(err).Warn("Rejected checkin with invalid place key")
		return 0, err
	}

	now := s.now()
	last, err := s.repo.LatestCheckin(ctx, placeKey)
	if err != nil {
		log.WithError(err).Error("Failed to load latest checkin")
		return 0, fmt.Errorf("service: could not load latest checkin: %w", err)
	}
	if last != nil && now.UnixMilli()-last.VisitedAt < models.CheckinBucketMillis {
		log.WithField("last_checkin_id", last.ID).Info("Duplicate checkin rejected")
		return 0, ErrDuplicateCheckin
	}

	checkin := models.NewCheckin(placeKey, note, now)
	if err := s.repo.CreateCheckin(ctx, checkin); err != nil {
		if errors.Is(err, ErrDuplicateCheckin) {
			log.Info("Duplicate checkin rejected by store")
			return 0, ErrDuplicateCheckin
		}
		log.WithError(err).Error("Failed to save checkin")
		return 0, fmt.Errorf("service: could not save checkin: %w", err)
	}
	log.WithField("checkin_id", checkin.ID).Info("Checkin saved")

	event := webhook.NewCheckinEvent(checkin)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish checkin webhook event")
	}
	return checkin.ID, nil
}

// ListCheckins возвращает историю посещений с пагинацией
func (s *placeService) ListCheckins(ctx context.Context, page, pageSize int) ([]*models.CheckinWithPlace, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	checkins, err := s.repo.ListCheckins(ctx, page, pageSize)
	if err != nil {
		s.logger.WithError(err).WithField("method", "ListCheckins").Error("Failed to list checkins")
		return nil, fmt.Errorf("service: could not list checkins: %w", err)
	}
	return checkins, nil
}

func (s *placeService) ListPlaceCheckins(ctx context.Context, placeKey string) ([]*models.Checkin, error) {
	if _, _, err := models.ParsePlaceKey(placeKey); err != nil {
		return nil, err
	}
	checkins, err := s.repo.ListPlaceCheckins(ctx, placeKey)
	if err != nil {
		return nil, fmt.Errorf("service: could not list place checkins: %w", err)
	}
	return checkins, nil
}

// DeleteCheckin удаляет посещение по id
func (s *placeService) DeleteCheckin(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "place",
		"method":     "DeleteCheckin",
		"checkin_id": id,
	})
	if err := s.repo.DeleteCheckin(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete checkin")
		return fmt.Errorf("service: could not delete checkin: %w", err)
	}
	log.Info("Checkin deleted")
	return nil
}

// CreateNode создает узел в OSM и кеширует его как место
func (s *placeService) CreateNode(ctx context.Context, lat, lon float64, tags map[string]string, comment string) (*models.Place, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "place",
		"method":  "CreateNode",
	})
	log.Info("Creating OSM node")

	node, err := s.editor.CreateNode(ctx, s.creds, lat, lon, tags, comment)
	if err != nil {
		log.WithError(err).Error("Failed to create OSM node")
		return nil, fmt.Errorf("service: could not create node: %w", err)
	}
	return s.cacheNode(ctx, log, node)
}

// UpdateNode обновляет теги узла в OSM и кеш
func (s *placeService) UpdateNode(ctx context.Context, id int64, tags map[string]string, comment string) (*models.Place, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "place",
		"method":  "UpdateNode",
		"node_id": id,
	})
	log.Info("Updating OSM node")

	node, err := s.editor.UpdateNode(ctx, s.creds, id, tags, comment)
	if err != nil {
		log.WithError(err).Error("Failed to update OSM node")
		return nil, fmt.Errorf("service: could not update node: %w", err)
	}
	return s.cacheNode(ctx, log, node)
}

func (s *placeService) cacheNode(ctx context.Context, log *logrus.Entry, node *osm.Node) (*models.Place, error) {
	place := &models.Place{
		Key:       models.NewPlaceKey(models.KindNode, node.ID),
		Name:      models.NameFromTags(node.Tags, ""),
		Category:  models.CategoryFromTags(node.Tags),
		Latitude:  node.Lat,
		Longitude: node.Lon,
		UpdatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.UpsertPlaces(ctx, []*models.Place{place}); err != nil {
		log.WithError(err).Error("Node saved remotely but local cache update failed")
		return nil, fmt.Errorf("service: could not cache edited node: %w", err)
	}
	log.WithField("place_key", place.Key).Info("OSM node saved")
	return place, nil
}
