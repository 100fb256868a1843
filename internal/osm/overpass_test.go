package osm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overpassFixture = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 35.6813, "lon": 139.7672, "tags": {"amenity": "cafe", "name": "Cafe", "name:ja": "カフェ"}},
    {"type": "way", "id": 2, "center": {"lat": 35.6815, "lon": 139.7670}, "tags": {"shop": "books"}},
    {"type": "relation", "id": 3, "tags": {"tourism": "museum", "name": "No coords"}},
    {"type": "area", "id": 4, "lat": 1, "lon": 1},
    {"type": "relation", "id": 5, "center": {"lat": 35.6800, "lon": 139.7660}, "tags": {"tourism": "attraction", "name": "Plaza"}}
  ]
}`

func newTestOverpass(t *testing.T, handler http.HandlerFunc) *OverpassClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOverpassClient(srv.URL, 5*time.Second, 0)
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(35.6812, 139.7671, 80)

	assert.True(t, strings.HasPrefix(q, "[out:json]"))
	assert.Contains(t, q, "out center tags;")
	for _, family := range []string{"amenity", "shop", "tourism"} {
		for _, kind := range []string{"node", "way", "relation"} {
			assert.Contains(t, q, kind+`["`+family+`"](around:80,35.6812,139.7671);`)
		}
	}
}

func TestSearch_MapsElements(t *testing.T) {
	var gotQuery string
	client := newTestOverpass(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(overpassFixture))
	})

	places, err := client.Search(context.Background(), SearchQuery{Lat: 35.6812, Lon: 139.7671, RadiusMeters: 80, Language: "ja"})

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "(around:80,35.6812,139.7671)")
	require.Len(t, places, 3)

	assert.Equal(t, "osm:node:1", places[0].Key)
	assert.Equal(t, "カフェ", places[0].Name)
	assert.Equal(t, "cafe", places[0].Category)
	assert.Equal(t, 35.6813, places[0].Latitude)

	assert.Equal(t, "osm:way:2", places[1].Key)
	assert.Equal(t, models.UnnamedPlace, places[1].Name)
	assert.Equal(t, "books", places[1].Category)
	assert.Equal(t, 139.7670, places[1].Longitude)

	assert.Equal(t, "osm:relation:5", places[2].Key)
	assert.Equal(t, "Plaza", places[2].Name)
}

func TestSearch_HTTPFailure(t *testing.T) {
	client := newTestOverpass(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	places, err := client.Search(context.Background(), SearchQuery{Lat: 1, Lon: 1, RadiusMeters: 10})

	require.Error(t, err)
	assert.Nil(t, places)
	assert.ErrorIs(t, err, ErrTransport)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestSearch_NetworkFailure(t *testing.T) {
	client := NewOverpassClient("http://127.0.0.1:1", time.Second, 0)

	_, err := client.Search(context.Background(), SearchQuery{Lat: 1, Lon: 1, RadiusMeters: 10})

	assert.ErrorIs(t, err, ErrTransport)
}

func TestSearch_MalformedBody(t *testing.T) {
	client := newTestOverpass(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": [`))
	})

	_, err := client.Search(context.Background(), SearchQuery{Lat: 1, Lon: 1, RadiusMeters: 10})

	assert.ErrorIs(t, err, ErrTransport)
}
