package domain

import "time"

// Stream names (должны совпадать у воркера и API)
const (
	StreamSnapshotBuilt = "stream:snapshot:built"
)

// SnapshotBuiltEvent - событие воркера о завершённой сборке снапшота.
// API-процесс по нему перечитывает свежую генерацию из стора.
type SnapshotBuiltEvent struct {
	Generation string    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	TotalCount int       `json:"total_count"`
	FeedSource string    `json:"feed_source"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
