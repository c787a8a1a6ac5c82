package details

import (
	"github.com/gofiber/fiber/v2"

	enquiryctrl "coursedig_backend/internals/features/admissions/enquiries/controller"
	coursectrl "coursedig_backend/internals/features/courses/controller"
	newsletterctrl "coursedig_backend/internals/features/newsletter/controller"
	authctrl "coursedig_backend/internals/features/users/auth/controller"
	middlewares "coursedig_backend/internals/middlewares"
)

// PublicRoutes: no authentication; the write endpoints are rate-limited and
// anti-bot gated inside the controllers.
func PublicRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	auth := &authctrl.AuthController{DB: deps.DB, Mailer: deps.Mailer}
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middlewares.RegisterRateLimiter(), auth.Register)
	authGroup.Post("/login", middlewares.LoginRateLimiter(), auth.Login)
	authGroup.Post("/google", middlewares.LoginRateLimiter(), auth.GoogleLogin)
	authGroup.Post("/refresh", auth.Refresh)
	authGroup.Get("/verify-email", auth.VerifyEmail)

	enquiries := &enquiryctrl.EnquiryController{DB: deps.DB, Mailer: deps.Mailer}
	api.Post("/enquiries", middlewares.SubmissionRateLimiter(), enquiries.Create)

	courses := &coursectrl.CourseController{DB: deps.DB}
	api.Get("/courses", courses.List)
	api.Get("/courses/:slug", courses.GetBySlug)
	api.Get("/home/featured", courses.Featured)

	newsletter := &newsletterctrl.NewsletterController{DB: deps.DB, Mailer: deps.Mailer}
	nl := api.Group("/newsletter")
	nl.Post("/subscribe", middlewares.SubmissionRateLimiter(), newsletter.Subscribe)
	nl.Get("/confirm", newsletter.Confirm)
	nl.Post("/unsubscribe", newsletter.Unsubscribe)
}
