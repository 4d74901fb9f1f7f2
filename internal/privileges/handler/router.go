package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/avialab/booking-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты сервиса привилегий.
// Пути не имеют префикса API: шлюз отбрасывает его перед пересылкой.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/privilege", func(r chi.Router) {
		r.Use(custommiddleware.Username)

		r.Get("/", h.GetPrivilege)
		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
		r.Post("/cancel", h.Cancel)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
