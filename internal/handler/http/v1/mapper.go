package v1

import "github.com/shenikar/oreoregeo/internal/models"

// ModelToPlaceResponse преобразует доменную модель в DTO для ответа
func ModelToPlaceResponse(model *models.Place) *PlaceResponse {
	if model == nil {
		return nil
	}
	return &PlaceResponse{
		Key:       model.Key,
		Name:      model.Name,
		Category:  model.Category,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToNearbyResponses преобразует результаты поиска в слайс DTO с сохранением порядка
func ModelsToNearbyResponses(results []*models.PlaceWithDistance) []*NearbyPlaceResponse {
	responses := make([]*NearbyPlaceResponse, len(results))
	for i, r := range results {
		responses[i] = &NearbyPlaceResponse{
			PlaceResponse:  *ModelToPlaceResponse(r.Place),
			DistanceMeters: r.DistanceMeters,
		}
	}
	return responses
}

// ModelToCheckinResponse преобразует посещение в DTO
func ModelToCheckinResponse(checkin *models.Checkin, place *models.Place) *CheckinResponse {
	return &CheckinResponse{
		ID:        checkin.ID,
		PlaceKey:  checkin.PlaceKey,
		VisitedAt: checkin.VisitedAt,
		Note:      checkin.Note,
		Place:     ModelToPlaceResponse(place),
	}
}

// ModelsToHistoryResponses преобразует историю посещений в слайс DTO
func ModelsToHistoryResponses(items []*models.CheckinWithPlace) []*CheckinResponse {
	responses := make([]*CheckinResponse, len(items))
	for i, item := range items {
		responses[i] = ModelToCheckinResponse(item.Checkin, item.Place)
	}
	return responses
}

// ModelsToCheckinResponses преобразует посещения одного места в слайс DTO
func ModelsToCheckinResponses(checkins []*models.Checkin) []*CheckinResponse {
	responses := make([]*CheckinResponse, len(checkins))
	for i, c := range checkins {
		responses[i] = ModelToCheckinResponse(c, nil)
	}
	return responses
}
