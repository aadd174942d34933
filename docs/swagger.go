// Package docs Fuel Station Microservice API.
//
// Микросервис пространственного индексирования топливных станций.
// Держит сводный датасет в памяти в виде иммутабельных снапшотов и отвечает
// на радиусные, атрибутные и текстовые запросы без обращения к базе.
//
// Основные возможности:
// - Поиск станций в радиусе от точки, одиночный и batch
// - Фильтрация по штату, городу, бренду и потолкам цен
// - Текстовый поиск по названию, адресу, району и городу
// - Метаданные снапшота: штаты, города, бренды, статистика цен
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
