package index

import (
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/tidwall/rtree"
)

// BBoxIndex - R-дерево, в котором каждая запись вставлена вырожденным
// (точечным) прямоугольником с её идентификатором. Дерево собирается один раз
// на снапшот и дальше только читается, поэтому блокировка не нужна.
type BBoxIndex struct {
	tree  *rtree.RTree
	total int
}

// NewBBoxIndex строит дерево за один проход по записям
func NewBBoxIndex(records []domain.StationRecord) *BBoxIndex {
	idx := &BBoxIndex{tree: &rtree.RTree{}}

	// Для точек min и max совпадают: [lat, lon]
	for i := range records {
		r := &records[i]
		point := [2]float64{r.Latitude, r.Longitude}
		idx.tree.Insert(point, point, r.ID)
		idx.total++
	}

	return idx
}

// SearchBox возвращает идентификаторы записей, чьи точки пересекаются с
// прямоугольником. Для точечных боксов пересечение означает попадание внутрь,
// границы включительно.
func (idx *BBoxIndex) SearchBox(box domain.BoundingBox) []string {
	if idx.total == 0 {
		return nil
	}

	var results []string
	idx.tree.Search(
		[2]float64{box.MinLat, box.MinLon},
		[2]float64{box.MaxLat, box.MaxLon},
		func(min, max [2]float64, data interface{}) bool {
			if id, ok := data.(string); ok {
				results = append(results, id)
			}
			return true
		},
	)

	return results
}

func (idx *BBoxIndex) Len() int {
	return idx.total
}

func (idx *BBoxIndex) Name() string {
	return StrategyBBox
}
