package index

import (
	"github.com/fuelstation-microservice/internal/domain"
)

type gridEntry struct {
	id  string
	lat float64
	lon float64
}

// GridIndex - равномерная сетка: ячейка floor(lat/cellSize), floor(lon/cellSize)
// хранит записи, попавшие в неё. Кандидаты ищутся перебором ячеек, накрывающих
// прямоугольник запроса.
type GridIndex struct {
	cellSize float64
	cells    map[domain.CellKey][]gridEntry
	total    int
}

// NewGridIndex строит сетку за один проход. cellSize <= 0 заменяется умолчанием.
func NewGridIndex(records []domain.StationRecord, cellSize float64) *GridIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	g := &GridIndex{
		cellSize: cellSize,
		cells:    make(map[domain.CellKey][]gridEntry),
	}

	for i := range records {
		r := &records[i]
		key := domain.CellKeyFor(r.Latitude, r.Longitude, cellSize)
		g.cells[key] = append(g.cells[key], gridEntry{
			id:  r.ID,
			lat: r.Latitude,
			lon: r.Longitude,
		})
		g.total++
	}

	return g
}

// SearchBox перебирает ячейки с запасом в одну ячейку вокруг диапазона
// прямоугольника, дедуплицирует кандидатов и отфильтровывает точки вне
// прямоугольника.
func (g *GridIndex) SearchBox(box domain.BoundingBox) []string {
	if g.total == 0 {
		return nil
	}

	minKey := domain.CellKeyFor(box.MinLat, box.MinLon, g.cellSize)
	maxKey := domain.CellKeyFor(box.MaxLat, box.MaxLon, g.cellSize)

	seen := make(map[string]struct{})
	var results []string

	for latIdx := minKey.LatIdx - 1; latIdx <= maxKey.LatIdx+1; latIdx++ {
		for lonIdx := minKey.LonIdx - 1; lonIdx <= maxKey.LonIdx+1; lonIdx++ {
			entries, ok := g.cells[domain.CellKey{LatIdx: latIdx, LonIdx: lonIdx}]
			if !ok {
				continue
			}
			for _, e := range entries {
				if !box.Contains(e.lat, e.lon) {
					continue
				}
				if _, dup := seen[e.id]; dup {
					continue
				}
				seen[e.id] = struct{}{}
				results = append(results, e.id)
			}
		}
	}

	return results
}

func (g *GridIndex) Len() int {
	return g.total
}

func (g *GridIndex) Name() string {
	return StrategyGrid
}

// CellSize возвращает размер ячейки в градусах
func (g *GridIndex) CellSize() float64 {
	return g.cellSize
}

// CellCount возвращает число непустых ячеек
func (g *GridIndex) CellCount() int {
	return len(g.cells)
}
