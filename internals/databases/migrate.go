package database

import (
	"log"

	"gorm.io/gorm"

	appmodel "coursedig_backend/internals/features/admissions/applications/model"
	countermodel "coursedig_backend/internals/features/admissions/counters/model"
	enquirymodel "coursedig_backend/internals/features/admissions/enquiries/model"
	auditmodel "coursedig_backend/internals/features/audit/model"
	coursemodel "coursedig_backend/internals/features/courses/model"
	newslettermodel "coursedig_backend/internals/features/newsletter/model"
	paymentmodel "coursedig_backend/internals/features/payments/model"
	usermodel "coursedig_backend/internals/features/users/auth/model"
)

// AllModels is the full schema, in dependency order. Tests reuse this list
// against in-memory sqlite.
func AllModels() []interface{} {
	return []interface{}{
		&usermodel.UserModel{},
		&usermodel.TokenBlacklist{},
		&auditmodel.AuditEventModel{},
		&countermodel.EnquiryCounter{},
		&countermodel.ApplicationCounter{},
		&enquirymodel.EnquiryModel{},
		&coursemodel.CourseModel{},
		&coursemodel.CourseFeeModel{},
		&appmodel.ApplicationModel{},
		&appmodel.ApplicationAttachmentModel{},
		&paymentmodel.ApplicationInvoiceModel{},
		&newslettermodel.SubscriberModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// MigrateIfRequested runs AutoMigrate when DB_AUTOMIGRATE=true. Production
// schemas are managed outside the app; this is for dev and small deploys.
func MigrateIfRequested() {
	if getenv("DB_AUTOMIGRATE", "false") != "true" {
		return
	}
	log.Println("🛠  Running auto-migration...")
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("❌ auto-migration failed: %v", err)
	}
	log.Println("✅ Auto-migration done.")
}
