package service

import (
	"errors"

	"github.com/shenikar/oreoregeo/internal/models"
)

var (
	// ErrDuplicateCheckin - посещение того же места менее 30 минут назад
	ErrDuplicateCheckin = errors.New("duplicate checkin")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrCheckinNotFound  = errors.New("checkin not found")
	ErrInvalidPlaceKey  = models.ErrInvalidPlaceKey
	// ErrRestartRequired - файлы базы заменены восстановлением, хранилище закрыто до перезапуска
	ErrRestartRequired = errors.New("database restored, restart required")
)
