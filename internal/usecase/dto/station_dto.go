package dto

import (
	"math"

	"github.com/fuelstation-microservice/internal/domain"
)

// StationResult - станция в ответе API. Неизвестная цена сериализуется
// как null, а не опускается: клиент должен отличать "нет цены" от
// "поле не поддерживается".
type StationResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Address       string   `json:"address,omitempty"`
	Neighborhood  string   `json:"neighborhood,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	PriceGasoline *float64 `json:"price_gasoline"`
	PriceEthanol  *float64 `json:"price_ethanol"`
	PriceDiesel   *float64 `json:"price_diesel"`
	PriceCNG      *float64 `json:"price_cng"`
	CollectedAt   string   `json:"collected_at,omitempty"`
	Source        string   `json:"source,omitempty"`
	MergedSources []string `json:"merged_sources,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
}

// ConvertStation переводит доменную запись в DTO ответа
func ConvertStation(r domain.StationRecord) StationResult {
	res := StationResult{
		ID:            r.ID,
		Name:          r.Name,
		Brand:         r.Brand,
		Address:       r.Address,
		Neighborhood:  r.Neighborhood,
		City:          r.City,
		State:         r.State,
		Lat:           r.Latitude,
		Lon:           r.Longitude,
		PriceGasoline: r.PriceGasoline,
		PriceEthanol:  r.PriceEthanol,
		PriceDiesel:   r.PriceDiesel,
		PriceCNG:      r.PriceCNG,
		Source:        r.Source,
		MergedSources: r.MergedSources,
	}
	if !r.CollectedAt.IsZero() {
		res.CollectedAt = r.CollectedAt.Format("2006-01-02")
	}
	return res
}

// ConvertStationWithDistance переводит запись в DTO с расстоянием до точки
// запроса, округлённым до метра
func ConvertStationWithDistance(r domain.StationRecord, distanceKm float64) StationResult {
	res := ConvertStation(r)
	d := math.Round(distanceKm*1000) / 1000
	res.DistanceKm = &d
	return res
}
