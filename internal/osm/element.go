package osm

import "github.com/shenikar/oreoregeo/internal/models"

// Element - элемент ответа Overpass; конкретный тип определяется полем type
type Element interface {
	Kind() models.ElementKind
	ElementID() int64
	ElementTags() map[string]string
	// Position возвращает координату элемента; ok=false, если ее нет
	Position() (lat, lon float64, ok bool)
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type elementBase struct {
	ID   int64
	Tags map[string]string
}

func (e elementBase) ElementID() int64               { return e.ID }
func (e elementBase) ElementTags() map[string]string { return e.Tags }

// NodeElement - точечный объект со своими координатами
type NodeElement struct {
	elementBase
	Lat, Lon float64
}

func (NodeElement) Kind() models.ElementKind { return models.KindNode }

func (n NodeElement) Position() (float64, float64, bool) { return n.Lat, n.Lon, true }

// WayElement - линия или площадь; координата берется из center
type WayElement struct {
	elementBase
	Center *point
}

func (WayElement) Kind() models.ElementKind { return models.KindWay }

func (w WayElement) Position() (float64, float64, bool) { return centerPosition(w.Center) }

// RelationElement - отношение; координата берется из center
type RelationElement struct {
	elementBase
	Center *point
}

func (RelationElement) Kind() models.ElementKind { return models.KindRelation }

func (r RelationElement) Position() (float64, float64, bool) { return centerPosition(r.Center) }

func centerPosition(c *point) (float64, float64, bool) {
	if c == nil {
		return 0, 0, false
	}
	return c.Lat, c.Lon, true
}

// rawElement - элемент в том виде, в каком его присылает Overpass
type rawElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *point            `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// toElement превращает сырой элемент в вариант по его типу.
// Возвращает nil для неизвестных типов и элементов без координат.
func (r rawElement) toElement() Element {
	base := elementBase{ID: r.ID, Tags: r.Tags}
	center := r.Center
	if r.Lat != nil && r.Lon != nil {
		center = &point{Lat: *r.Lat, Lon: *r.Lon}
	}
	if center == nil {
		return nil
	}

	switch models.ElementKind(r.Type) {
	case models.KindNode:
		return NodeElement{elementBase: base, Lat: center.Lat, Lon: center.Lon}
	case models.KindWay:
		return WayElement{elementBase: base, Center: center}
	case models.KindRelation:
		return RelationElement{elementBase: base, Center: center}
	}
	return nil
}

// ToPlace строит место из элемента
func ToPlace(e Element, language string) (*models.Place, bool) {
	lat, lon, ok := e.Position()
	if !ok {
		return nil, false
	}
	tags := e.ElementTags()
	return &models.Place{
		Key:       models.NewPlaceKey(e.Kind(), e.ElementID()),
		Name:      models.NameFromTags(tags, language),
		Category:  models.CategoryFromTags(tags),
		Latitude:  lat,
		Longitude: lon,
	}, true
}
