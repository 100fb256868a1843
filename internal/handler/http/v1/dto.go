package v1

// NearbyQuery параметры поиска мест рядом
// @Description параметры поиска мест рядом
type NearbyQuery struct {
	Lat            *float64 `form:"lat" validate:"required,latitude"`
	Lon            *float64 `form:"lon" validate:"required,longitude"`
	Radius         int      `form:"radius" validate:"omitempty,gt=0,lte=5000"`
	ExcludeUnnamed bool     `form:"exclude_unnamed"`
	Lang           string   `form:"lang" validate:"omitempty,max=16"`
}

// PlaceResponse DTO для ответа с информацией о месте
// @Description DTO для ответа с информацией о месте
type PlaceResponse struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UpdatedAt int64   `json:"updated_at"`
}

// NearbyPlaceResponse DTO для места с расстоянием
// @Description DTO для места с расстоянием
type NearbyPlaceResponse struct {
	PlaceResponse
	DistanceMeters float64 `json:"distance_meters"`
}

// CheckinRequest DTO для посещения места
// @Description DTO для посещения места
type CheckinRequest struct {
	PlaceKey string `json:"place_key" validate:"required"`
	Note     string `json:"note,omitempty" validate:"max=1000"`
}

// CheckinCreatedResponse DTO с id нового посещения
// @Description DTO с id нового посещения
type CheckinCreatedResponse struct {
	ID int64 `json:"id"`
}

// CheckinResponse DTO посещения
// @Description DTO посещения
type CheckinResponse struct {
	ID        int64          `json:"id"`
	PlaceKey  string         `json:"place_key"`
	VisitedAt int64          `json:"visited_at"`
	Note      string         `json:"note,omitempty"`
	Place     *PlaceResponse `json:"place,omitempty"`
}

// CreateNodeRequest DTO для создания узла OSM
// @Description DTO для создания узла OSM
type CreateNodeRequest struct {
	Latitude  *float64          `json:"latitude" validate:"required,latitude"`
	Longitude *float64          `json:"longitude" validate:"required,longitude"`
	Tags      map[string]string `json:"tags" validate:"required,min=1,dive,keys,min=1,max=255,endkeys,max=255"`
	Comment   string            `json:"comment" validate:"required,max=255"`
}

// UpdateNodeRequest DTO для обновления тегов узла OSM
// @Description DTO для обновления тегов узла OSM
type UpdateNodeRequest struct {
	Tags    map[string]string `json:"tags" validate:"required,min=1,dive,keys,min=1,max=255,endkeys,max=255"`
	Comment string            `json:"comment" validate:"required,max=255"`
}

// LoginURLResponse DTO с адресом авторизации OSM
// @Description DTO с адресом авторизации OSM
type LoginURLResponse struct {
	URL string `json:"url"`
}

// AuthStatusResponse DTO со статусом авторизации
// @Description DTO со статусом авторизации
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// BackupResponse DTO с перечнем перенесенных файлов
// @Description DTO с перечнем перенесенных файлов
type BackupResponse struct {
	Files           []string `json:"files"`
	RestartRequired bool     `json:"restart_required,omitempty"`
}
