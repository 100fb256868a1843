package osm

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Scopes, необходимые для правки карты
var Scopes = []string{"read_prefs", "write_api"}

// Authenticator выполняет OAuth 2.0 authorization code flow с сервером OSM
type Authenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewAuthenticator(clientID, clientSecret, authURL, tokenURL, redirectURL string, httpClient *http.Client) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL возвращает адрес страницы авторизации
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange обменивает код авторизации на токен доступа
func (a *Authenticator) Exchange(ctx context.Context, code string) (string, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return "", transportError("oauth token exchange", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token in token response", ErrTransport)
	}
	return token.AccessToken, nil
}
