package details

import (
	"github.com/gofiber/fiber/v2"

	appctrl "coursedig_backend/internals/features/admissions/applications/controller"
	uploadctrl "coursedig_backend/internals/features/admissions/uploads/controller"
	authctrl "coursedig_backend/internals/features/users/auth/controller"
	authMw "coursedig_backend/internals/middlewares/auth"
)

// UserRoutes: any authenticated account.
func UserRoutes(app *fiber.App, deps Deps) {
	u := app.Group("/api/u", authMw.AuthMiddleware(deps.DB))

	auth := &authctrl.AuthController{DB: deps.DB, Mailer: deps.Mailer}
	u.Get("/me", auth.Me)
	u.Post("/logout", auth.Logout)

	applications := &appctrl.ApplicationController{DB: deps.DB, Mailer: deps.Mailer}
	u.Post("/applications", applications.Create)
	u.Get("/applications", applications.Mine)

	uploads := &uploadctrl.UploadController{}
	if deps.OSS != nil {
		uploads.Signer = deps.OSS
	}
	u.Post("/uploads/presign", uploads.Presign)
}
