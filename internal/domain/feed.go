package domain

import (
	"bytes"
	"encoding/json"
)

// FlexString - JSON-значение, которое может прийти строкой или числом.
// Скраперы присылают координаты и цены в обоих вариантах.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	// Число: сохраняем исходный текст без потери точности
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// RawStationRecord - сырая запись станции из фида скраперов до нормализации.
// Любое поле может отсутствовать, содержать локальный десятичный разделитель
// или сентинел "N/A".
type RawStationRecord struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Address       string     `json:"address,omitempty"`
	Neighborhood  string     `json:"neighborhood,omitempty"`
	City          string     `json:"city,omitempty"`
	State         string     `json:"state,omitempty"`
	Latitude      FlexString `json:"latitude,omitempty"`
	Longitude     FlexString `json:"longitude,omitempty"`
	PriceGasoline FlexString `json:"price_gasoline,omitempty"`
	PriceEthanol  FlexString `json:"price_ethanol,omitempty"`
	PriceDiesel   FlexString `json:"price_diesel,omitempty"`
	PriceCNG      FlexString `json:"price_cng,omitempty"`
	CollectedAt   string     `json:"collected_at,omitempty"`
	Source        string     `json:"source,omitempty"`
}

// RawPrice возвращает сырое значение цены по виду топлива
func (r *RawStationRecord) RawPrice(fuel FuelType) FlexString {
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
	return ""
}
