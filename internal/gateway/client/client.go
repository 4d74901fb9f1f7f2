// Package client содержит клиентов нижестоящих сервисов, используемых
// агрегирующим эндпоинтом шлюза.
package client

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HeaderUserName — доверенный заголовок с именем пользователя.
// Аутентификация выполняется снаружи, шлюз заголовок не перепроверяет.
const HeaderUserName = "X-User-Name"

const requestTimeout = 5 * time.Second

// newRestyClient создаёт HTTP-клиент с нормализованным базовым URL
// и ограниченным временем ожидания ответа.
func newRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(normalizeBaseURL(baseURL)).
		SetTimeout(requestTimeout)
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}
