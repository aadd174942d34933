// Package snapshot собирает и публикует неизменяемые срезы датасета.
// Снапшот создаётся целиком одним проходом билдера, после публикации
// не мутируется: читатели делят его без блокировок, замена идёт
// атомарным свопом указателя в менеджере.
package snapshot

import (
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/index"
)

// GroupCount - имя группы (штат, город, бренд) и число станций в ней
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot - неизменяемый срез датасета одной генерации: упорядоченные
// записи, карты поиска по id/штату/городу/бренду и все три пространственных
// индекса. Любая мутация после сборки запрещена.
type Snapshot struct {
	meta    domain.SnapshotMeta
	records []domain.StationRecord

	// Карты хранят позиции в records, не сами записи
	byID    map[string]int
	byState map[string][]int
	byCity  map[string]map[string][]int
	byBrand map[string][]int

	grid   *index.GridIndex
	bbox   *index.BBoxIndex
	coords *index.CoordinateIndex

	// Отсортированные агрегаты для метаданных, считаются при сборке
	stateCounts []GroupCount
	cityCounts  map[string][]GroupCount
	brandCounts []GroupCount
}

// Meta возвращает метаданные генерации
func (s *Snapshot) Meta() domain.SnapshotMeta {
	return s.meta
}

// Len возвращает число станций в снапшоте
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Records возвращает все записи в порядке снапшота.
// Срез общий, менять его нельзя.
func (s *Snapshot) Records() []domain.StationRecord {
	return s.records
}

// RecordByID возвращает запись по идентификатору
func (s *Snapshot) RecordByID(id string) (domain.StationRecord, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return domain.StationRecord{}, false
	}
	return s.records[pos], true
}

// Index возвращает пространственный индекс для заданной стратегии.
// Неизвестная стратегия откатывается на сеточный индекс.
func (s *Snapshot) Index(strategy string) index.SpatialIndex {
	switch strategy {
	case index.StrategyBBox:
		return s.bbox
	case index.StrategyLinear:
		return s.coords
	default:
		return s.grid
	}
}

// ByState возвращает записи штата в порядке снапшота
func (s *Snapshot) ByState(state string) []domain.StationRecord {
	return s.collect(s.byState[state])
}

// ByCity возвращает записи города внутри штата в порядке снапшота
func (s *Snapshot) ByCity(state, city string) []domain.StationRecord {
	cities, ok := s.byCity[state]
	if !ok {
		return nil
	}
	return s.collect(cities[city])
}

// ByBrand возвращает записи бренда в порядке снапшота
func (s *Snapshot) ByBrand(brand string) []domain.StationRecord {
	return s.collect(s.byBrand[brand])
}

// HasState сообщает, известен ли штат снапшоту
func (s *Snapshot) HasState(state string) bool {
	_, ok := s.byState[state]
	return ok
}

// StateCounts возвращает штаты с числом станций, отсортированные по имени.
// Срез общий, менять его нельзя.
func (s *Snapshot) StateCounts() []GroupCount {
	return s.stateCounts
}

// CityCounts возвращает города штата с числом станций, отсортированные
// по имени. Второе значение false, если штат снапшоту неизвестен.
func (s *Snapshot) CityCounts(state string) ([]GroupCount, bool) {
	counts, ok := s.cityCounts[state]
	return counts, ok
}

// BrandCounts возвращает бренды с числом станций, отсортированные по имени
func (s *Snapshot) BrandCounts() []GroupCount {
	return s.brandCounts
}

// Data возвращает персистентную форму снапшота для хранилища.
// Индексы не сериализуются, при загрузке их пересобирает билдер.
func (s *Snapshot) Data() *domain.SnapshotData {
	return &domain.SnapshotData{
		Meta:    s.meta,
		Records: s.records,
	}
}

func (s *Snapshot) collect(positions []int) []domain.StationRecord {
	if len(positions) == 0 {
		return nil
	}
	out := make([]domain.StationRecord, len(positions))
	for i, pos := range positions {
		out[i] = s.records[pos]
	}
	return out
}
