package domain

import "time"

// Значения по умолчанию для отсутствующих текстовых полей
const (
	DefaultStationName = "Unnamed station"
	DefaultBrand       = "unbranded"
	DefaultSource      = "unknown"
)

// FuelType - вид топлива, по которому хранится цена
type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelEthanol  FuelType = "ethanol"
	FuelDiesel   FuelType = "diesel"
	FuelCNG      FuelType = "cng"
)

// FuelTypes перечисляет поддерживаемые виды топлива в каноническом порядке
func FuelTypes() []FuelType {
	return []FuelType{FuelGasoline, FuelEthanol, FuelDiesel, FuelCNG}
}

// ValidFuelType сообщает, известен ли вид топлива
func ValidFuelType(s string) bool {
	switch FuelType(s) {
	case FuelGasoline, FuelEthanol, FuelDiesel, FuelCNG:
		return true
	}
	return false
}

// StationRecord - каноническая запись заправочной станции внутри снапшота.
// Значение неизменяемо после сборки; nil в цене означает "нет данных".
type StationRecord struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Brand         string    `json:"brand" db:"brand"`
	Address       string    `json:"address" db:"address"`
	Neighborhood  string    `json:"neighborhood" db:"neighborhood"`
	City          string    `json:"city" db:"city"`
	State         string    `json:"state" db:"state"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	PriceGasoline *float64  `json:"price_gasoline,omitempty" db:"price_gasoline"`
	PriceEthanol  *float64  `json:"price_ethanol,omitempty" db:"price_ethanol"`
	PriceDiesel   *float64  `json:"price_diesel,omitempty" db:"price_diesel"`
	PriceCNG      *float64  `json:"price_cng,omitempty" db:"price_cng"`
	CollectedAt   time.Time `json:"collected_at" db:"collected_at"`
	Source        string    `json:"source" db:"source"`
	MergedSources []string  `json:"merged_sources,omitempty" db:"-"`
}

// Price возвращает цену по виду топлива; nil, если цена недоступна
func (r *StationRecord) Price(fuel FuelType) *float64 {
	switch fuel {
	case FuelGasoline:
		return r.PriceGasoline
	case FuelEthanol:
		return r.PriceEthanol
	case FuelDiesel:
		return r.PriceDiesel
	case FuelCNG:
		return r.PriceCNG
	}
	return nil
}

// SetPrice записывает цену вида топлива (используется при сборке и слиянии)
func (r *StationRecord) SetPrice(fuel FuelType, value *float64) {
	switch fuel {
	case FuelGasoline:
		r.PriceGasoline = value
	case FuelEthanol:
		r.PriceEthanol = value
	case FuelDiesel:
		r.PriceDiesel = value
	case FuelCNG:
		r.PriceCNG = value
	}
}

// HasValidCoordinates сообщает, пригодны ли координаты для индексации.
// Пара (0,0) считается невалидной меткой отсутствующих координат.
func (r *StationRecord) HasValidCoordinates() bool {
	if r.Latitude == 0 && r.Longitude == 0 {
		return false
	}
	return r.Latitude >= -90 && r.Latitude <= 90 &&
		r.Longitude >= -180 && r.Longitude <= 180
}

// StationWithDistance - запись станции с расстоянием до точки запроса
type StationWithDistance struct {
	StationRecord
	DistanceKm float64 `json:"distance_km"`
}
