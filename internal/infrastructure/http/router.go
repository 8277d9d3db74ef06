// Package http wires the Task API orchestrator's chi router: global
// middleware, the unauthenticated health surface, and every authenticated
// route named in §6, each bound to its handler.Handler method.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tasktrack/platform/internal/infrastructure/http/handler"
	mw "github.com/tasktrack/platform/internal/infrastructure/http/middleware"
)

// NewRouter builds the full chi.Mux: health/ready unauthenticated, every
// other route behind auth.Validate.
func NewRouter(h *handler.Handler, auth *mw.Auth, db handler.Pinger, maxBodyBytes int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready(db))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(auth.Validate)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Validate)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.CreateTask)
			r.Get("/", h.ListTasks)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
			r.Patch("/{id}/complete", h.CompleteTask)
			r.Patch("/{id}/incomplete", h.IncompleteTask)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.ListHistory)
			r.Delete("/{id}", h.DeleteHistory)
		})

		r.Get("/stats/weekly", h.WeeklyStats)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Patch("/{id}/read", h.MarkNotificationRead)
			r.Patch("/mark-all-read", h.MarkAllNotificationsRead)
			r.Get("/unread/count", h.UnreadNotificationCount)
		})

		r.Route("/recurring-tasks", func(r chi.Router) {
			r.Post("/", h.CreateSeries)
			r.Get("/", h.ListSeries)
			r.Get("/{id}", h.GetSeries)
			r.Put("/{id}", h.UpdateSeries)
			r.Delete("/{id}", h.DeleteSeries)
			r.Get("/{id}/tasks", h.ListSeriesTasks)
		})

		r.Post("/chat", h.Chat)

		r.Route("/{user_id}/conversations", func(r chi.Router) {
			r.Get("/", h.ListConversations)
			r.Get("/{id}/messages", h.ListConversationMessages)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/cleanup/messages", h.CleanupMessages)
		})
	})

	return r
}
