package www

import (
	"net/http"

	"recondeck/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	engine   *engine.Engine
	auth     *auth
	eventHub *EventHub
}

// NewRouter creates the chi router and returns it along with a stop function.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	h := &Handlers{
		engine:   eng,
		auth:     newAuth(eng.AppConfig().Web.SessionSecret),
		eventHub: NewEventHub(),
	}

	h.eventHub.Start()
	h.eventHub.SetupEngineListeners(eng)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE (no auth, every open dashboard listens)
	r.Get("/events", h.eventHub.HandleSSE)

	// Login/logout
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Route("/api", func(r chi.Router) {
		// Queue and vehicle reads
		r.Get("/queue", h.apiQueue)
		r.Get("/vehicles/{id}", h.apiGetVehicle)
		r.Get("/vehicles/{id}/history", h.apiVehicleHistory)

		// Mutations available to every operator
		r.Post("/vehicles", h.apiCreateVehicle)
		r.Post("/vehicles/{id}/process/{process}", h.apiAdvanceProcess)
		r.Post("/vehicles/{id}/validate", h.apiToggleValidation)
		r.Put("/vehicles/{id}/delivery-center", h.apiSetDeliveryCenter)
		r.Put("/vehicles/{id}/or", h.apiSetORValue)

		// Admin API (payment fields and account settings)
		r.Group(func(r chi.Router) {
			r.Use(h.adminMiddleware)
			r.Put("/vehicles/{id}/payment-status", h.apiSetPaymentStatus)
			r.Put("/vehicles/{id}/payment-method", h.apiSetPaymentMethod)
			r.Post("/config/password", h.apiChangePassword)
		})
	})

	return r, func() {
		h.eventHub.Stop()
	}
}

func (h *Handlers) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.auth.admin(r); !ok {
			writeError(w, http.StatusUnauthorized, "admin login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
