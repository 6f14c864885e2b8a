// Package docs Waste Report Service API.
//
// Сервис приёма отчётов о несанкционированных свалках. Жители отправляют
// геолокацию, описание или голосовую заметку и фото; сервис проверяет
// допустимость зоны, готовит рендишны изображений, начисляет очки,
// оценивает бейджи и уведомляет администраторов.
//
// Основные возможности:
// - Приём отчёта с геопроверкой (прямоугольник + радиус от центра зоны)
// - Загрузка фото в трёх размерах с fallback-хранилищем
// - Очки и бейджи за активность
// - Уведомления in-app / push / email
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
