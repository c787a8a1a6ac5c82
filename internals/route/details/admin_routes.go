package details

import (
	"github.com/gofiber/fiber/v2"

	appctrl "coursedig_backend/internals/features/admissions/applications/controller"
	enquiryctrl "coursedig_backend/internals/features/admissions/enquiries/controller"
	auditctrl "coursedig_backend/internals/features/audit/controller"
	coursectrl "coursedig_backend/internals/features/courses/controller"
	paymentctrl "coursedig_backend/internals/features/payments/controller"
	useradminctrl "coursedig_backend/internals/features/users/admin/controller"
	authMw "coursedig_backend/internals/middlewares/auth"
)

// AdminRoutes: authenticated admin or super admin. The role middleware gates
// access; fine-grained rules (who may change roles, second factor, self
// guard) live in the elevated-action gate.
func AdminRoutes(app *fiber.App, deps Deps) {
	admin := app.Group("/api/admin",
		authMw.AuthMiddleware(deps.DB),
		authMw.OnlyAdmins("admin area"),
	)

	users := &useradminctrl.UserAdminController{DB: deps.DB}
	admin.Get("/users", users.List)
	admin.Patch("/users/:id/role", users.ChangeRole)
	admin.Post("/users/:id/verify-email", users.VerifyEmail)
	admin.Post("/users/me/second-password", users.SetSecondPassword)

	enquiries := &enquiryctrl.EnquiryAdminController{DB: deps.DB}
	admin.Get("/enquiries", enquiries.List)
	admin.Get("/enquiries/:id", enquiries.Detail)
	admin.Patch("/enquiries/:id/status", enquiries.UpdateStatus)

	applications := &appctrl.ApplicationAdminController{DB: deps.DB}
	admin.Get("/applications", applications.List)
	admin.Get("/applications/:id", applications.Detail)
	admin.Patch("/applications/:id/status", applications.UpdateStatus)

	invoices := &paymentctrl.InvoiceAdminController{DB: deps.DB, Gateway: deps.Gateway}
	admin.Post("/applications/:id/fee-invoice", invoices.CreateFeeInvoice)
	admin.Get("/applications/:id/invoices", invoices.ListForApplication)

	courses := &coursectrl.CourseAdminController{DB: deps.DB, OSS: deps.OSS}
	admin.Get("/courses", courses.List)
	admin.Post("/courses", courses.Create)
	admin.Patch("/courses/:id", courses.Update)
	admin.Delete("/courses/:id", courses.Delete)
	admin.Put("/courses/:id/cover", courses.UploadCover)
	admin.Put("/courses/:id/fee", courses.UpsertFee)
	admin.Patch("/home/featured", courses.UpdateFeaturedRanks)

	audit := &auditctrl.AuditAdminController{DB: deps.DB}
	admin.Get("/audit-events", audit.List)
}
