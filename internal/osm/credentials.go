package osm

import "context"

// CredentialProvider отдает токен доступа OSM в момент вызова
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken - CredentialProvider с фиксированным токеном
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	if t == "" {
		return "", ErrNotAuthenticated
	}
	return string(t), nil
}
