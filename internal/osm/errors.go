package osm

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport покрывает сетевые ошибки и ответы с кодом вне 2xx
	ErrTransport = errors.New("osm: transport failure")
	// ErrVersionConflict - узел изменен другим пользователем и повтор тоже получил 409
	ErrVersionConflict = errors.New("osm: version conflict")
	// ErrMissingVersion - у узла нет номера версии, обновление невозможно
	ErrMissingVersion = errors.New("osm: node has no version")
	ErrNodeNotFound   = errors.New("osm: node not found")
	// ErrNotAuthenticated - нет сохраненного токена доступа
	ErrNotAuthenticated = errors.New("osm: not authenticated")
)

// HTTPError - ответ удаленного API с кодом вне 2xx
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("osm: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Is позволяет сопоставлять HTTPError с ErrTransport через errors.Is
func (e *HTTPError) Is(target error) bool {
	return target == ErrTransport
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

func isConflict(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 409
}
