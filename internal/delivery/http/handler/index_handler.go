package handler

import (
	"github.com/gofiber/fiber/v2"
)

// APIEndpointDef - описание эндпоинта в каталоге API
type APIEndpointDef struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APIIndex - корневой каталог API
type APIIndex struct {
	Service   string           `json:"service"`
	Docs      string           `json:"docs"`
	Endpoints []APIEndpointDef `json:"endpoints"`
}

// IndexHandler - хендлер корневого каталога API
type IndexHandler struct {
	index APIIndex
}

// NewIndexHandler - создание нового IndexHandler
func NewIndexHandler(appName string) *IndexHandler {
	return &IndexHandler{
		index: APIIndex{
			Service:   appName,
			Docs:      "/swagger/index.html",
			Endpoints: defaultEndpoints(),
		},
	}
}

// defaultEndpoints - список публичных методов сервиса
func defaultEndpoints() []APIEndpointDef {
	return []APIEndpointDef{
		{
			Method:      "GET",
			Path:        "/query/nearby",
			Description: "Станции в радиусе от точки, отсортированные по расстоянию",
		},
		{
			Method:      "POST",
			Path:        "/query/batch",
			Description: "Batch версия радиусного поиска, несколько точек одним запросом",
		},
		{
			Method:      "GET",
			Path:        "/query/filter",
			Description: "Фильтрация по штату, городу, бренду и потолкам цен",
		},
		{
			Method:      "GET",
			Path:        "/query/search",
			Description: "Текстовый поиск по названию, адресу, району и городу",
		},
		{
			Method:      "GET",
			Path:        "/stations/:id",
			Description: "Карточка станции по идентификатору",
		},
		{
			Method:      "GET",
			Path:        "/meta/status",
			Description: "Поколение и размер текущего снапшота",
		},
		{
			Method:      "GET",
			Path:        "/meta/states",
			Description: "Штаты с количеством станций",
		},
		{
			Method:      "GET",
			Path:        "/meta/cities/:state",
			Description: "Города штата с количеством станций",
		},
		{
			Method:      "GET",
			Path:        "/meta/brands",
			Description: "Бренды с количеством станций",
		},
		{
			Method:      "GET",
			Path:        "/meta/stats",
			Description: "Сводная статистика по ценам и покрытию",
		},
		{
			Method:      "GET",
			Path:        "/health",
			Description: "Состояние сервиса и зависимостей",
		},
		{
			Method:      "GET",
			Path:        "/metrics",
			Description: "Метрики Prometheus",
		},
	}
}

// Index godoc
// @Summary Каталог методов API
// @Description Возвращает список публичных эндпоинтов сервиса
// @Tags Index
// @Produce json
// @Success 200 {object} handler.APIIndex
// @Router / [get]
func (h *IndexHandler) Index(c *fiber.Ctx) error {
	return c.JSON(h.index)
}
