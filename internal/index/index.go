// Package index содержит три конкурирующие структуры пространственного
// индекса над набором записей станций: равномерная сетка, R-дерево и плоский
// массив координат. Все три строятся за один проход по одному и тому же
// набору записей и после сборки не изменяются.
package index

import (
	"github.com/fuelstation-microservice/internal/domain"
)

// Имена стратегий для конфигурации и логов
const (
	StrategyGrid   = "grid"
	StrategyBBox   = "bbox"
	StrategyLinear = "linear"
)

// DefaultCellSize - размер ячейки сетки в градусах (~11 км на экваторе)
const DefaultCellSize = 0.1

// SpatialIndex - общий контракт стратегий пространственного поиска.
// SearchBox возвращает идентификаторы записей, координаты которых попадают
// в прямоугольник (границы включительно). Прямоугольник - грубое приближение
// круга, точную фильтрацию по хаверсину выполняет вызывающая сторона.
type SpatialIndex interface {
	SearchBox(box domain.BoundingBox) []string
	Len() int
	Name() string
}

// ValidStrategy сообщает, известна ли стратегия индекса
func ValidStrategy(name string) bool {
	switch name {
	case StrategyGrid, StrategyBBox, StrategyLinear:
		return true
	}
	return false
}
