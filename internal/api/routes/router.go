package routes

import (
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler      *handlers.HealthHandler
	doctorHandler      *handlers.DoctorHandler
	appointmentHandler *handlers.AppointmentHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	corsOrigins     []string
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	doctorHandler *handlers.DoctorHandler,
	appointmentHandler *handlers.AppointmentHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	corsOrigins []string,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		healthHandler:      healthHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
		corsOrigins:        corsOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Doctor directory
	r.mux.HandleFunc("GET /api/doctors", r.doctorHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/specialties", r.doctorHandler.ListSpecialties)
	r.mux.HandleFunc("GET /api/doctors/suggest", r.doctorHandler.SuggestDoctors)
	r.mux.HandleFunc("GET /api/doctors/{id}", r.doctorHandler.GetDoctor)
	r.mux.HandleFunc("POST /api/doctors/refresh", r.doctorHandler.Refresh)

	// Booking
	r.mux.HandleFunc("GET /api/doctors/{id}/availability", r.appointmentHandler.GetAvailability)
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)

	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.corsOrigins)(handler)

	return handler
}
