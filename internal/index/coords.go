package index

import (
	"github.com/fuelstation-microservice/internal/domain"
)

// CoordinateIndex - плоские параллельные массивы координат и идентификаторов
// в порядке вставки. Поиск - линейный проход; структура также служит основой
// для сканов ближайших соседей без дополнительных аллокаций.
type CoordinateIndex struct {
	lats []float64
	lons []float64
	ids  []string
}

// NewCoordinateIndex строит массивы за один проход, сохраняя порядок записей
func NewCoordinateIndex(records []domain.StationRecord) *CoordinateIndex {
	idx := &CoordinateIndex{
		lats: make([]float64, 0, len(records)),
		lons: make([]float64, 0, len(records)),
		ids:  make([]string, 0, len(records)),
	}

	for i := range records {
		r := &records[i]
		idx.lats = append(idx.lats, r.Latitude)
		idx.lons = append(idx.lons, r.Longitude)
		idx.ids = append(idx.ids, r.ID)
	}

	return idx
}

// SearchBox - линейный скан всех точек с проверкой попадания в прямоугольник
func (idx *CoordinateIndex) SearchBox(box domain.BoundingBox) []string {
	var results []string
	for i := range idx.ids {
		if box.Contains(idx.lats[i], idx.lons[i]) {
			results = append(results, idx.ids[i])
		}
	}
	return results
}

func (idx *CoordinateIndex) Len() int {
	return len(idx.ids)
}

func (idx *CoordinateIndex) Name() string {
	return StrategyLinear
}

// At возвращает координаты и идентификатор записи по позиции вставки
func (idx *CoordinateIndex) At(i int) (lat, lon float64, id string) {
	return idx.lats[i], idx.lons[i], idx.ids[i]
}
