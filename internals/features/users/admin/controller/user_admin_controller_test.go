package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coursedig_backend/internals/constants"
	auditmodel "coursedig_backend/internals/features/audit/model"
	controller "coursedig_backend/internals/features/users/admin/controller"
	usermodel "coursedig_backend/internals/features/users/auth/model"
	authservice "coursedig_backend/internals/features/users/auth/service"
)

const justification = "access review follow-up approved in ticket OPS-2210"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&usermodel.UserModel{}, &auditmodel.AuditEventModel{}))
	return db
}

func makeUser(t *testing.T, db *gorm.DB, role string) *usermodel.UserModel {
	t.Helper()
	u := &usermodel.UserModel{
		UserName: "u-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@coursedig.test",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newAdminApp(db *gorm.DB, actor *usermodel.UserModel) *fiber.App {
	app := fiber.New()
	h := &controller.UserAdminController{DB: db}
	g := app.Group("/api/admin", func(c *fiber.Ctx) error {
		c.Locals("user_id", actor.ID.String())
		c.Locals("userRole", actor.Role)
		return c.Next()
	})
	g.Patch("/users/:id/role", h.ChangeRole)
	g.Post("/users/:id/verify-email", h.VerifyEmail)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestChangeRole_SecondFactorScenario(t *testing.T) {
	db := openTestDB(t)
	super := makeUser(t, db, constants.RoleSuperAdmin)
	hash, err := authservice.HashPassword("second-pass-123")
	require.NoError(t, err)
	require.NoError(t, db.Model(super).Update("second_password_hash", hash).Error)
	super.SecondPasswordHash = &hash

	target := makeUser(t, db, constants.RoleUser)
	app := newAdminApp(db, super)
	path := "/api/admin/users/" + target.ID.String() + "/role"

	// missing second factor
	resp := doJSON(t, app, http.MethodPatch, path, map[string]interface{}{
		"role": "admin", "justification": justification,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "SECOND_FACTOR_REQUIRED", decodeBody(t, resp)["error_code"])

	// wrong second factor
	resp = doJSON(t, app, http.MethodPatch, path, map[string]interface{}{
		"role": "admin", "justification": justification, "second_password": "nope",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "SECOND_FACTOR_INVALID", decodeBody(t, resp)["error_code"])

	var unchanged usermodel.UserModel
	require.NoError(t, db.First(&unchanged, "id = ?", target.ID).Error)
	require.Equal(t, constants.RoleUser, unchanged.Role)

	// correct second factor
	resp = doJSON(t, app, http.MethodPatch, path, map[string]interface{}{
		"role": "admin", "justification": justification, "second_password": "second-pass-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var promoted usermodel.UserModel
	require.NoError(t, db.First(&promoted, "id = ?", target.ID).Error)
	require.Equal(t, constants.RoleAdmin, promoted.Role)

	var events int64
	require.NoError(t, db.Model(&auditmodel.AuditEventModel{}).
		Where("audit_event_action = ?", "USER_PROMOTE_ADMIN").
		Count(&events).Error)
	require.EqualValues(t, 1, events, "only the successful attempt writes an audit row")
}

func TestChangeRole_SelfEscalationForbidden(t *testing.T) {
	db := openTestDB(t)
	super := makeUser(t, db, constants.RoleSuperAdmin)
	app := newAdminApp(db, super)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/users/"+super.ID.String()+"/role",
		map[string]interface{}{"role": "admin", "justification": justification})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "SELF_ACTION_FORBIDDEN", decodeBody(t, resp)["error_code"])
}

func TestChangeRole_AdminActorForbidden(t *testing.T) {
	db := openTestDB(t)
	admin := makeUser(t, db, constants.RoleAdmin)
	target := makeUser(t, db, constants.RoleUser)
	app := newAdminApp(db, admin)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/users/"+target.ID.String()+"/role",
		map[string]interface{}{"role": "admin", "justification": justification})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", decodeBody(t, resp)["error_code"])
}

func TestChangeRole_SameRoleIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	super := makeUser(t, db, constants.RoleSuperAdmin)
	target := makeUser(t, db, constants.RoleAdmin)
	app := newAdminApp(db, super)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/users/"+target.ID.String()+"/role",
		map[string]interface{}{"role": "admin", "justification": justification})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, true, data["already_applied"])

	var events int64
	require.NoError(t, db.Model(&auditmodel.AuditEventModel{}).Count(&events).Error)
	require.Zero(t, events, "no-op actions write no audit row")
}

func TestVerifyEmail_IdempotentShortCircuit(t *testing.T) {
	db := openTestDB(t)
	admin := makeUser(t, db, constants.RoleAdmin)
	target := makeUser(t, db, constants.RoleUser)
	app := newAdminApp(db, admin)
	path := "/api/admin/users/" + target.ID.String() + "/verify-email"
	body := map[string]interface{}{"justification": justification}

	resp := doJSON(t, app, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verified usermodel.UserModel
	require.NoError(t, db.First(&verified, "id = ?", target.ID).Error)
	require.NotNil(t, verified.EmailVerifiedAt)

	// second call: no mutation, no extra audit row
	resp = doJSON(t, app, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, true, data["already_applied"])

	var events int64
	require.NoError(t, db.Model(&auditmodel.AuditEventModel{}).
		Where("audit_event_action = ?", "USER_VERIFY_EMAIL").
		Count(&events).Error)
	require.EqualValues(t, 1, events)
}
