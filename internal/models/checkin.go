package models

import "time"

// CheckinBucketMillis - ширина окна дедупликации (30 минут)
const CheckinBucketMillis int64 = 30 * 60 * 1000

// CheckinBucket возвращает индекс 30-минутного окна для времени в миллисекундах
func CheckinBucket(visitedAt int64) int64 {
	return visitedAt / CheckinBucketMillis
}

// Checkin представляет запись о посещении места
type Checkin struct {
	ID        int64  `json:"id"`
	PlaceKey  string `json:"place_key"`
	VisitedAt int64  `json:"visited_at"`
	Note      string `json:"note"`
	Bucket    int64  `json:"bucket"`
}

// NewCheckin создает запись посещения с вычисленным окном
func NewCheckin(placeKey, note string, visitedAt time.Time) *Checkin {
	ms := visitedAt.UnixMilli()
	return &Checkin{
		PlaceKey:  placeKey,
		VisitedAt: ms,
		Note:      note,
		Bucket:    CheckinBucket(ms),
	}
}

// CheckinWithPlace - посещение вместе с местом (место может отсутствовать в кеше)
type CheckinWithPlace struct {
	Checkin *Checkin `json:"checkin"`
	Place   *Place   `json:"place,omitempty"`
}
