package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	payservice "coursedig_backend/internals/features/payments/service"
	"coursedig_backend/internals/helpers/mailer"
	helperOSS "coursedig_backend/internals/helpers/oss"
	details "coursedig_backend/internals/route/details"
)

// SetupRoutes wires every feature group. Optional upstreams (object storage,
// payment gateway, mailer) degrade to disabled instead of failing startup.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	mail := mailer.NewMailerFromEnv()

	var ossSvc *helperOSS.OSSService
	if svc, err := helperOSS.NewOSSServiceFromEnv(); err != nil {
		log.Printf("[WARN] object storage disabled: %v", err)
	} else {
		ossSvc = svc
	}

	var gateway payservice.SnapGateway
	if g := payservice.NewMidtransGatewayFromEnv(); g != nil {
		gateway = g
	}

	deps := details.Deps{
		DB:      db,
		Mailer:  mail,
		OSS:     ossSvc,
		Gateway: gateway,
	}

	details.PublicRoutes(app, deps)
	details.UserRoutes(app, deps)
	details.AdminRoutes(app, deps)
}
