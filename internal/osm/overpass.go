package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shenikar/oreoregeo/internal/models"
)

// categoryFamilies - ключи тегов, по которым ищутся точки интереса
var categoryFamilies = []string{"amenity", "shop", "tourism"}

// SearchQuery - параметры поиска вокруг точки
type SearchQuery struct {
	Lat          float64
	Lon          float64
	RadiusMeters int
	Language     string
}

type overpassResponse struct {
	Elements []rawElement `json:"elements"`
}

// OverpassClient выполняет пространственные запросы к Overpass API
type OverpassClient struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOverpassClient создает клиента; minInterval ограничивает частоту запросов
func NewOverpassClient(endpoint string, timeout, minInterval time.Duration) *OverpassClient {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &OverpassClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// BuildQuery собирает текст запроса Overpass QL
func BuildQuery(lat, lon float64, radiusMeters int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", radiusMeters, formatCoord(lat), formatCoord(lon))

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, family := range categoryFamilies {
		for _, kind := range []models.ElementKind{models.KindNode, models.KindWay, models.KindRelation} {
			fmt.Fprintf(&b, "  %s[\"%s\"]%s;\n", kind, family, around)
		}
	}
	b.WriteString(");\nout center tags;\n")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Search выполняет один запрос и возвращает места в порядке ответа
func (c *OverpassClient) Search(ctx context.Context, q SearchQuery) ([]*models.Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("overpass rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("data", BuildQuery(q.Lat, q.Lon, q.RadiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("overpass search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{Method: req.Method, URL: c.endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, transportError("decode overpass response", err)
	}

	places := make([]*models.Place, 0, len(decoded.Elements))
	for _, raw := range decoded.Elements {
		element := raw.toElement()
		if element == nil {
			continue
		}
		if place, ok := ToPlace(element, q.Language); ok {
			places = append(places, place)
		}
	}
	return places, nil
}
