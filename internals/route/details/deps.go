package details

import (
	"gorm.io/gorm"

	payservice "coursedig_backend/internals/features/payments/service"
	"coursedig_backend/internals/helpers/mailer"
	helperOSS "coursedig_backend/internals/helpers/oss"
)

// Deps carries the shared infrastructure handed to every route group. OSS
// and Gateway may be nil when the corresponding upstream is not configured;
// controllers answer 502 for the operations that need them.
type Deps struct {
	DB      *gorm.DB
	Mailer  mailer.Mailer
	OSS     *helperOSS.OSSService
	Gateway payservice.SnapGateway
}
