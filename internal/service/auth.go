package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/sirupsen/logrus"
)

// TokenStore хранит токен доступа OSM под фиксированным ключом
type TokenStore interface {
	osm.CredentialProvider
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

// OAuthExchanger выполняет OAuth-обмен с сервером авторизации OSM
type OAuthExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// AuthService определяет контракт входа в OSM
type AuthService interface {
	LoginURL() (string, error)
	CompleteLogin(ctx context.Context, code string) error
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) (bool, error)
}

type authService struct {
	exchanger OAuthExchanger
	tokens    TokenStore
	logger    *logrus.Logger
}

func NewAuthService(exchanger OAuthExchanger, tokens TokenStore, logger *logrus.Logger) AuthService {
	return &authService{
		exchanger: exchanger,
		tokens:    tokens,
		logger:    logger,
	}
}

// LoginURL возвращает адрес страницы авторизации со случайным state
func (s *authService) LoginURL() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("service: could not generate oauth state: %w", err)
	}
	return s.exchanger.AuthCodeURL(hex.EncodeToString(buf)), nil
}

// CompleteLogin обменивает код на токен и сохраняет его
func (s *authService) CompleteLogin(ctx context.Context, code string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "CompleteLogin",
	})

	token, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Error("OAuth code exchange failed")
		return fmt.Errorf("service: could not exchange oauth code: %w", err)
	}
	if err := s.tokens.SaveToken(ctx, token); err != nil {
		log.WithError(err).Error("Failed to store access token")
		return fmt.Errorf("service: could not store access token: %w", err)
	}
	log.Info("OSM login completed")
	return nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.tokens.DeleteToken(ctx); err != nil {
		return fmt.Errorf("service: could not delete access token: %w", err)
	}
	s.logger.WithField("service", "auth").Info("OSM logout completed")
	return nil
}

func (s *authService) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.tokens.AccessToken(ctx)
	if errors.Is(err, osm.ErrNotAuthenticated) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("service: could not read access token: %w", err)
	}
	return token != "", nil
}
