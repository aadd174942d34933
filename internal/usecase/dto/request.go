package dto

// NearbyRequest - запрос станций в радиусе от точки
type NearbyRequest struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
	Limit    int     `json:"limit"`
}

// FilterRequest - запрос станций по атрибутам. Все фильтры опциональны
// и комбинируются через AND.
type FilterRequest struct {
	State            string   `json:"state"`
	City             string   `json:"city"`
	Brand            string   `json:"brand"`
	MaxPriceGasoline *float64 `json:"max_price_gasoline,omitempty"`
	MaxPriceEthanol  *float64 `json:"max_price_ethanol,omitempty"`
	MaxPriceDiesel   *float64 `json:"max_price_diesel,omitempty"`
	MaxPriceCNG      *float64 `json:"max_price_cng,omitempty"`
	SortBy           string   `json:"sort_by"`
	Limit            int      `json:"limit"`
}

// TextSearchRequest - текстовый поиск по названию и адресу
type TextSearchRequest struct {
	Query string `json:"q"`
	Limit int    `json:"limit"`
}

// Point - координаты точки пакетного запроса. Без валидационных тегов:
// плохая точка даёт пустой результат на свой индекс, а не отказ пакета
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BatchNearbyRequest - пакетный запрос станций в радиусе
type BatchNearbyRequest struct {
	Points   []Point `json:"points" validate:"required,min=1"`
	RadiusKm float64 `json:"radius_km" validate:"omitempty,min=0"`
	Limit    int     `json:"limit" validate:"omitempty,min=0"`
}
