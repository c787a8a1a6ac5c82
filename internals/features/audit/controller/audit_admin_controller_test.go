package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	controller "coursedig_backend/internals/features/audit/controller"
	model "coursedig_backend/internals/features/audit/model"
	auditservice "coursedig_backend/internals/features/audit/service"
	usermodel "coursedig_backend/internals/features/users/auth/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&usermodel.UserModel{}, &model.AuditEventModel{}))
	return db
}

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	h := &controller.AuditAdminController{DB: db}
	app.Get("/api/admin/audit-events", h.List)
	return app
}

func listEvents(t *testing.T, app *fiber.App, query string) []interface{} {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/audit-events"+query, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["data"].(map[string]interface{})["audit_events"].([]interface{})
}

func TestAuditList_FiltersAndOrdering(t *testing.T) {
	db := openTestDB(t)

	actor := &usermodel.UserModel{
		UserName: "ops-admin",
		Email:    "ops@coursedig.test",
		Password: "x",
		Role:     "super_admin",
		IsActive: true,
	}
	require.NoError(t, db.Create(actor).Error)

	target := uuid.New()
	require.NoError(t, auditservice.Record(db, auditservice.Entry{
		Action:  "USER_PROMOTE_ADMIN",
		ActorID: actor.ID,
		TargetID: &target,
		Before:  map[string]interface{}{"role": "user"},
		After:   map[string]interface{}{"role": "admin"},
	}))
	require.NoError(t, auditservice.Record(db, auditservice.Entry{
		Action:  "ENQUIRY_STATUS_CHANGE",
		ActorID: actor.ID,
		Meta:    map[string]interface{}{"enquiry_ref": "ENQ-08-2026-0001"},
	}))

	all := listEvents(t, newApp(db), "")
	require.Len(t, all, 2)

	byAction := listEvents(t, newApp(db), "?action=USER_PROMOTE_ADMIN")
	require.Len(t, byAction, 1)
	first := byAction[0].(map[string]interface{})
	require.Equal(t, "USER_PROMOTE_ADMIN", first["action"])
	require.Equal(t, "ops@coursedig.test", first["actor_email"])

	// substring filter reaches into the serialized meta blob
	byBlob := listEvents(t, newApp(db), "?q=ENQ-08-2026")
	require.Len(t, byBlob, 1)
	require.Equal(t, "ENQUIRY_STATUS_CHANGE", byBlob[0].(map[string]interface{})["action"])

	// actor email search matches both rows
	byEmail := listEvents(t, newApp(db), "?q=ops%40coursedig.test")
	require.Len(t, byEmail, 2)

	limited := listEvents(t, newApp(db), "?limit=1")
	require.Len(t, limited, 1)
}
