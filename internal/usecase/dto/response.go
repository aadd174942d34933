package dto

import "time"

// NearbyResponse - ответ на запрос станций в радиусе
type NearbyResponse struct {
	Stations []StationResult `json:"stations"`
	Params   NearbyParams    `json:"params"`
}

// NearbyParams - эффективные параметры запроса после клампинга
type NearbyParams struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
	Limit    int     `json:"limit"`
}

// FilterResponse - ответ на запрос станций по атрибутам
type FilterResponse struct {
	Stations []StationResult `json:"stations"`
	Params   FilterParams    `json:"params"`
}

// FilterParams - эффективные фильтры запроса после клампинга
type FilterParams struct {
	State            string   `json:"state,omitempty"`
	City             string   `json:"city,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	MaxPriceGasoline *float64 `json:"max_price_gasoline,omitempty"`
	MaxPriceEthanol  *float64 `json:"max_price_ethanol,omitempty"`
	MaxPriceDiesel   *float64 `json:"max_price_diesel,omitempty"`
	MaxPriceCNG      *float64 `json:"max_price_cng,omitempty"`
	SortBy           string   `json:"sort_by,omitempty"`
	Limit            int      `json:"limit"`
}

// TextSearchResponse - ответ на текстовый поиск
type TextSearchResponse struct {
	Stations []StationResult  `json:"stations"`
	Params   TextSearchParams `json:"params"`
}

// TextSearchParams - эффективные параметры текстового поиска
type TextSearchParams struct {
	Query string `json:"q"`
	Limit int    `json:"limit"`
}

// BatchNearbyResponse - ответ на пакетный запрос. Results всегда содержит
// ровно по записи на каждую входную точку, ключ - индекс точки в запросе.
type BatchNearbyResponse struct {
	Results     map[int][]StationResult `json:"results"`
	TotalPoints int                     `json:"total_points"`
	Params      BatchNearbyParams       `json:"params"`
}

// BatchNearbyParams - эффективные параметры пакетного запроса
type BatchNearbyParams struct {
	Points   int     `json:"points"`
	RadiusKm float64 `json:"radius_km"`
	Limit    int     `json:"limit"`
}

// StatusResponse - сводка по активному снапшоту
type StatusResponse struct {
	Status        string    `json:"status"`
	Generation    string    `json:"generation"`
	BuiltAt       time.Time `json:"built_at"`
	TotalStations int       `json:"total_stations"`
	TotalStates   int       `json:"total_states"`
	TotalCities   int       `json:"total_cities"`
	TotalBrands   int       `json:"total_brands"`
	IndexStrategy string    `json:"index_strategy"`
}

// StateCount - штат и число станций в нём
type StateCount struct {
	State    string `json:"state"`
	Stations int    `json:"stations"`
}

// CityCount - город и число станций в нём
type CityCount struct {
	City     string `json:"city"`
	Stations int    `json:"stations"`
}

// BrandCount - бренд и число станций под ним
type BrandCount struct {
	Brand    string `json:"brand"`
	Stations int    `json:"stations"`
}

// StatsResponse - агрегаты по активному снапшоту
type StatsResponse struct {
	Generation    string               `json:"generation"`
	BuiltAt       time.Time            `json:"built_at"`
	TotalStations int                  `json:"total_stations"`
	States        []StateCount         `json:"states"`
	Brands        []BrandCount         `json:"brands"`
	Fuels         map[string]FuelStats `json:"fuels"`
}

// FuelStats - ценовые агрегаты одного вида топлива.
// Available - число станций с известной ценой.
type FuelStats struct {
	Available int     `json:"available"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
}

// IngestSummary - итог одного прохода конвейера сборки
type IngestSummary struct {
	Generation   string `json:"generation"`
	Received     int    `json:"received"`
	Rejected     int    `json:"rejected"`
	MergedGroups int    `json:"merged_groups"`
	Indexed      int    `json:"indexed"`
}
