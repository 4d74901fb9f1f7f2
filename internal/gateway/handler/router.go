package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avialab/booking-system/internal/gateway/proxy"
	custommiddleware "github.com/avialab/booking-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты шлюза: агрегирующий эндпоинт
// и сквозное проксирование всех остальных путей под префиксом API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Route(proxy.APIPrefix, func(r chi.Router) {
		r.With(custommiddleware.Username).Get("/me", h.Me)

		r.Handle("/*", h.proxy)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}
