package osm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Node - узел OSM в том виде, в каком его возвращает API 0.6
type Node struct {
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Version int64             `json:"version"`
	Tags    map[string]string `json:"tags"`
}

type nodeResponse struct {
	Elements []struct {
		ID      int64             `json:"id"`
		Lat     float64           `json:"lat"`
		Lon     float64           `json:"lon"`
		Version *int64            `json:"version"`
		Tags    map[string]string `json:"tags"`
	} `json:"elements"`
}

// EditClient создает и обновляет узлы через OSM API 0.6.
// Каждая правка выполняется внутри собственного changeset.
type EditClient struct {
	baseURL    string
	createdBy  string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewEditClient(baseURL, createdBy string, httpClient *http.Client, logger *logrus.Logger) *EditClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &EditClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		createdBy:  createdBy,
		httpClient: httpClient,
		logger:     logger,
	}
}

// authorizedClient оборачивает базовый клиент bearer-токеном, полученным от провайдера
func (c *EditClient) authorizedClient(ctx context.Context, creds CredentialProvider) (*http.Client, error) {
	if creds == nil {
		return nil, ErrNotAuthenticated
	}
	token, err := creds.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	baseCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(baseCtx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})), nil
}

func (c *EditClient) do(ctx context.Context, client *http.Client, method, path string, body []byte) (string, error) {
	target := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", transportError(method+" "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("read "+path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return strings.TrimSpace(string(respBody)), nil
}

// GetNode читает текущее состояние узла; номер версии обязателен
func (c *EditClient) GetNode(ctx context.Context, id int64) (*Node, error) {
	body, err := c.do(ctx, c.httpClient, http.MethodGet, fmt.Sprintf("/api/0.6/node/%d.json", id), nil)
	if err != nil {
		return nil, err
	}

	var decoded nodeResponse
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, transportError("decode node response", err)
	}
	if len(decoded.Elements) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	el := decoded.Elements[0]
	if el.Version == nil {
		return nil, fmt.Errorf("%w: %d", ErrMissingVersion, id)
	}
	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return &Node{ID: el.ID, Lat: el.Lat, Lon: el.Lon, Version: *el.Version, Tags: tags}, nil
}

func (c *EditClient) openChangeset(ctx context.Context, client *http.Client, comment string) (int64, error) {
	payload, err := changesetPayload(comment, c.createdBy)
	if err != nil {
		return 0, err
	}
	body, err := c.do(ctx, client, http.MethodPut, "/api/0.6/changeset/create", payload)
	if err != nil {
		return 0, fmt.Errorf("failed to open changeset: %w", err)
	}
	id, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected changeset id %q: %w", body, err)
	}
	return id, nil
}

func (c *EditClient) closeChangeset(ctx context.Context, client *http.Client, id int64) error {
	if _, err := c.do(ctx, client, http.MethodPut, fmt.Sprintf("/api/0.6/changeset/%d/close", id), nil); err != nil {
		return fmt.Errorf("failed to close changeset %d: %w", id, err)
	}
	return nil
}

// withChangeset открывает changeset, выполняет mutate и всегда пытается закрыть changeset.
// Ошибка mutate имеет приоритет над ошибкой закрытия.
func (c *EditClient) withChangeset(ctx context.Context, client *http.Client, comment string, mutate func(changesetID int64) error) error {
	changesetID, err := c.openChangeset(ctx, client, comment)
	if err != nil {
		return err
	}
	log := c.logger.WithField("changeset_id", changesetID)

	mutateErr := mutate(changesetID)
	closeErr := c.closeChangeset(ctx, client, changesetID)

	if mutateErr != nil {
		if closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close changeset after failed edit")
		}
		return mutateErr
	}
	if closeErr != nil {
		// правка уже применена; OSM закроет changeset сам по таймауту
		log.WithError(closeErr).Warn("Failed to close changeset after successful edit")
	}
	return nil
}

// CreateNode создает новый узел и возвращает его с присвоенным id
func (c *EditClient) CreateNode(ctx context.Context, creds CredentialProvider, lat, lon float64, tags map[string]string, comment string) (*Node, error) {
	client, err := c.authorizedClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	node := &Node{Lat: lat, Lon: lon, Tags: tags}
	err = c.withChangeset(ctx, client, comment, func(changesetID int64) error {
		payload, err := nodePayload(changesetID, node)
		if err != nil {
			return err
		}
		body, err := c.do(ctx, client, http.MethodPut, "/api/0.6/node/create", payload)
		if err != nil {
			return fmt.Errorf("failed to create node: %w", err)
		}
		id, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return fmt.Errorf("unexpected node id %q: %w", body, err)
		}
		node.ID = id
		node.Version = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{"node_id": node.ID}).Info("OSM node created")
	return node, nil
}

// UpdateNode заменяет теги узла. При конфликте версий узел перечитывается один раз,
// правка вызывающего переносится на свежие теги и отправляется повторно.
func (c *EditClient) UpdateNode(ctx context.Context, creds CredentialProvider, id int64, tags map[string]string, comment string) (*Node, error) {
	client, err := c.authorizedClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	base, err := c.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	log := c.logger.WithFields(logrus.Fields{"node_id": id, "version": base.Version})

	var updated *Node
	err = c.withChangeset(ctx, client, comment, func(changesetID int64) error {
		attempt := &Node{ID: id, Lat: base.Lat, Lon: base.Lon, Version: base.Version, Tags: tags}
		err := c.putNode(ctx, client, changesetID, attempt)
		if err == nil {
			updated = attempt
			return nil
		}
		if !isConflict(err) {
			return err
		}

		log.Warn("Version conflict on node update, refetching")
		fresh, err := c.GetNode(ctx, id)
		if err != nil {
			return err
		}
		retry := &Node{
			ID:      id,
			Lat:     fresh.Lat,
			Lon:     fresh.Lon,
			Version: fresh.Version,
			Tags:    RebaseTags(base.Tags, tags, fresh.Tags),
		}
		if err := c.putNode(ctx, client, changesetID, retry); err != nil {
			if isConflict(err) {
				return fmt.Errorf("%w: node %d: %w", ErrVersionConflict, id, err)
			}
			return err
		}
		updated = retry
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("new_version", updated.Version).Info("OSM node updated")
	return updated, nil
}

// putNode отправляет новую версию узла; при успехе node.Version обновляется
func (c *EditClient) putNode(ctx context.Context, client *http.Client, changesetID int64, node *Node) error {
	payload, err := nodePayload(changesetID, node)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, client, http.MethodPut, fmt.Sprintf("/api/0.6/node/%d", node.ID), payload)
	if err != nil {
		return err
	}
	if v, err := strconv.ParseInt(body, 10, 64); err == nil {
		node.Version = v
	}
	return nil
}

// RebaseTags переносит изменения desired относительно base на свежие теги fresh.
// Ключи, которые вызывающий не трогал, остаются такими, как в fresh.
func RebaseTags(base, desired, fresh map[string]string) map[string]string {
	out := make(map[string]string, len(fresh)+len(desired))
	for k, v := range fresh {
		out[k] = v
	}
	for k, v := range desired {
		if old, ok := base[k]; !ok || old != v {
			out[k] = v
		}
	}
	for k := range base {
		if _, ok := desired[k]; !ok {
			delete(out, k)
		}
	}
	return out
}
