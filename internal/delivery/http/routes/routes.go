package routes

import (
	"skillproof/internal/delivery/http/handler"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds every handler and wires the route tree. Only the auth
// endpoints and the health probe stay outside the session middleware;
// everything else requires one.
type Registry struct {
	Auth        *handler.AuthHandler
	Challenges  *handler.ChallengesHandler
	Submissions *handler.SubmissionsHandler
	Interviews  *handler.InterviewsHandler
	Dashboard   *handler.DashboardHandler
	Health      *handler.HealthHandler
	WS          *ws.Handler

	AuthMw *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/health", r.Health.Health)

	api := app.Group("/api")

	api.Post("/register", r.Auth.Register)

	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/logout", r.Auth.Logout)
	auth.Get("/google", r.Auth.GoogleRedirect)
	auth.Get("/google/callback", r.Auth.GoogleCallback)

	session := r.AuthMw.Middleware()

	api.Get("/challenges", r.Challenges.List, session)
	api.Post("/challenges", r.Challenges.Create, session)
	api.Post("/challenges/:id/ratings", r.Challenges.Rate, session)

	api.Post("/submissions", r.Submissions.Create, session)
	api.Patch("/submissions/:id/review", r.Submissions.Review, session)

	api.Post("/interviews", r.Interviews.Request, session)
	api.Patch("/interviews/:id/schedule", r.Interviews.Schedule, session)

	dashboard := api.Group("/dashboard", session)
	dashboard.Get("/stats", r.Dashboard.Stats)
	dashboard.Get("/activity", r.Dashboard.Activity)
	dashboard.Get("/schedule", r.Dashboard.Schedule)

	app.Get("/ws/dashboard", r.WS.HandleDashboardWS, session)
}
