package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/lingua-backend/internal/handlers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth  *handlers.AuthHandler
	Chat  *handlers.ChatHandler
	Users *handlers.UserHandler
	// Protect is the session gate for authenticated routes.
	Protect func(http.Handler) http.Handler
}

func SetupRoutes(r chi.Router, h Handlers) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.Protect)
			r.Post("/onboarding", h.Auth.Onboard)
			r.Get("/me", h.Auth.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.Protect)
		r.Get("/api/chat/token", h.Chat.Token)
		r.Post("/api/users/profile-pic", h.Users.UploadProfilePic)
	})
}
