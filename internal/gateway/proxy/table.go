// Package proxy реализует сквозное проксирование запросов шлюза
// к нижестоящим сервисам платформы бронирования.
package proxy

import "strings"

// Route связывает набор префиксов пути с базовым URL нижестоящего сервиса.
type Route struct {
	Prefixes []string
	Target   string
}

// Table — статическая таблица маршрутизации шлюза. Формируется один раз
// при старте процесса и далее не изменяется. Префиксы разных маршрутов
// не пересекаются: каждый путь соответствует не более чем одному сервису.
type Table struct {
	routes []Route
}

// NewTable строит таблицу маршрутизации по адресам нижестоящих сервисов.
func NewTable(flights, tickets, privileges string) *Table {
	return &Table{
		routes: []Route{
			{Prefixes: []string{"/flights", "/airports"}, Target: strings.TrimRight(flights, "/")},
			{Prefixes: []string{"/tickets"}, Target: strings.TrimRight(tickets, "/")},
			// сервис привилегий отвечает и на единственное, и на множественное число
			{Prefixes: []string{"/privilege", "/privileges"}, Target: strings.TrimRight(privileges, "/")},
		},
	}
}

// SelectTarget возвращает базовый URL нижестоящего сервиса для указанного пути.
// Путь передаётся уже без префикса API. Сравнение префиксов регистронезависимое,
// при этом сам путь пересылается дальше в исходном регистре.
func (t *Table) SelectTarget(path string) (string, bool) {
	p := strings.ToLower(path)
	for _, route := range t.routes {
		for _, prefix := range route.Prefixes {
			if strings.HasPrefix(p, prefix) {
				return route.Target, true
			}
		}
	}
	return "", false
}
