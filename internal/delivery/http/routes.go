package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/middleware"
)

func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// 5 attempts burst, refilling one per two seconds, per client IP.
	loginLimiter := middleware.NewRateLimiter(rate.Limit(0.5), 5)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Handler).Post("/login", handler.Login)
			r.Post("/refresh", handler.Refresh)
			r.Post("/logout", handler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", handler.GetCurrentUser)
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/members", func(r chi.Router) {
				r.Get("/", handler.ListMembers)
				r.Post("/", handler.CreateMember)
				r.Get("/{id}", handler.GetMember)
				r.Put("/{id}", handler.UpdateMember)
				r.Delete("/{id}", handler.DeleteMember)
			})

			r.Route("/faculties", func(r chi.Router) {
				r.Get("/", handler.ListFaculties)
				r.Post("/", handler.CreateFaculty)
				r.Get("/{id}", handler.GetFaculty)
				r.Put("/{id}", handler.UpdateFaculty)
				r.Delete("/{id}", handler.DeleteFaculty)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", handler.ListDepartments)
				r.Post("/", handler.CreateDepartment)
				r.Get("/{id}", handler.GetDepartment)
				r.Put("/{id}", handler.UpdateDepartment)
				r.Delete("/{id}", handler.DeleteDepartment)
			})

			r.Route("/contests", func(r chi.Router) {
				r.Get("/", handler.ListContests)
				r.Post("/", handler.CreateContest)
				r.Get("/{id}", handler.GetContest)
				r.Put("/{id}", handler.UpdateContest)
				r.Delete("/{id}", handler.DeleteContest)
			})

			r.Route("/specialties", func(r chi.Router) {
				r.Get("/", handler.ListSpecialties)
				r.Post("/", handler.CreateSpecialty)
				r.Get("/{id}", handler.GetSpecialty)
				r.Put("/{id}", handler.UpdateSpecialty)
				r.Delete("/{id}", handler.DeleteSpecialty)
			})

			r.Route("/candidates", func(r chi.Router) {
				r.Get("/", handler.ListCandidates)
				r.Post("/", handler.CreateCandidate)
				r.Get("/{id}", handler.GetCandidate)
				r.Put("/{id}", handler.UpdateCandidate)
				r.Delete("/{id}", handler.DeleteCandidate)
			})

			// Account and audit administration.
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireRoles(domain.RoleAdmin))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", handler.ListUsers)
					r.Post("/", handler.CreateUser)
					r.Get("/{id}", handler.GetUser)
					r.Put("/{id}", handler.UpdateUser)
					r.Delete("/{id}", handler.DeleteUser)
				})

				r.Route("/audit", func(r chi.Router) {
					r.Get("/auth-events", handler.ListAuthEvents)
					r.Get("/auth-events/stats", handler.AuthEventStats)
				})
			})
		})
	})

	return r
}
