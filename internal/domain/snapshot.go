package domain

import "time"

// SnapshotMeta - метаданные одной собранной генерации датасета
type SnapshotMeta struct {
	Generation  string    `json:"generation" db:"generation"`
	BuiltAt     time.Time `json:"built_at" db:"built_at"`
	TotalCount  int       `json:"total_count" db:"total_count"`
	TotalStates int       `json:"total_states" db:"total_states"`
	TotalCities int       `json:"total_cities" db:"total_cities"`
	TotalBrands int       `json:"total_brands" db:"total_brands"`
}

// SnapshotData - персистентная форма снапшота: метаданные плюс упорядоченный
// набор записей. Индексы не сохраняются, они детерминированно пересобираются
// билдером при загрузке.
type SnapshotData struct {
	Meta    SnapshotMeta
	Records []StationRecord
}
