// Package middleware содержит HTTP middleware сервисов платформы бронирования.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const usernameKey contextKey = "username"

// HeaderUserName — доверенный заголовок с именем пользователя.
// Его подлинность обеспечивается внешним контуром аутентификации.
const HeaderUserName = "X-User-Name"

// Username проверяет наличие заголовка X-User-Name и добавляет имя
// пользователя в контекст запроса.
func Username(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(HeaderUserName))
		if username == "" {
			http.Error(w, "X-User-Name header is required", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUsernameFromContext извлекает имя пользователя из контекста запроса.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
