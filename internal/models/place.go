package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// PlaceKeySource - источник всех ключей мест
	PlaceKeySource = "osm"

	UnnamedPlace  = "Unnamed"
	OtherCategory = "other"
)

// ElementKind - тип элемента OSM
type ElementKind string

const (
	KindNode     ElementKind = "node"
	KindWay      ElementKind = "way"
	KindRelation ElementKind = "relation"
)

// Valid сообщает, является ли kind одним из известных типов элементов
func (k ElementKind) Valid() bool {
	switch k {
	case KindNode, KindWay, KindRelation:
		return true
	}
	return false
}

var ErrInvalidPlaceKey = errors.New("invalid place key")

// Place представляет точку интереса, закешированную локально
type Place struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UpdatedAt int64   `json:"updated_at"`
}

// PlaceWithDistance - место с расстоянием до точки поиска
type PlaceWithDistance struct {
	Place          *Place  `json:"place"`
	DistanceMeters float64 `json:"distance_meters"`
}

// NewPlaceKey собирает ключ вида osm:{kind}:{id}
func NewPlaceKey(kind ElementKind, id int64) string {
	return fmt.Sprintf("%s:%s:%d", PlaceKeySource, kind, id)
}

// ParsePlaceKey разбирает ключ, построенный NewPlaceKey
func ParsePlaceKey(key string) (ElementKind, int64, error) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != PlaceKeySource {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidPlaceKey, key)
	}
	kind := ElementKind(parts[1])
	if !kind.Valid() {
		return "", 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidPlaceKey, parts[1])
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id < 0 {
		return "", 0, fmt.Errorf("%w: bad id %q", ErrInvalidPlaceKey, parts[2])
	}
	return kind, id, nil
}

// SearchParams - параметры поиска мест рядом
type SearchParams struct {
	Lat            float64
	Lon            float64
	RadiusMeters   int
	ExcludeUnnamed bool
	Language       string
}
