package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsehq/pulse/pkg/auth"
)

// Handle builds the account router. Registration, login, and public profile
// reads are open; everything else sits behind the authentication middleware.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api/auth", svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Get("/users/{userID}", s.userProfile)

	r.Group(func(protected chi.Router) {
		protected.Use(auth.Middleware(s.sessions, s.users,
			auth.WithReadiness(s.readiness),
			auth.WithReadinessTimeout(s.readinessTimeout),
			auth.WithMiddlewareLogger(s.logger),
		))
		protected.Get("/me", s.me)
		protected.Post("/logout", s.logout)
		protected.Post("/logout-all", s.logoutAll)
	})

	return r
}
