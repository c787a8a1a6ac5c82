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

	auditmodel "coursedig_backend/internals/features/audit/model"
	controller "coursedig_backend/internals/features/courses/controller"
	model "coursedig_backend/internals/features/courses/model"
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
	require.NoError(t, db.AutoMigrate(
		&usermodel.UserModel{},
		&model.CourseModel{},
		&model.CourseFeeModel{},
		&auditmodel.AuditEventModel{},
	))
	return db
}

func makeAdmin(t *testing.T, db *gorm.DB, role string) *usermodel.UserModel {
	t.Helper()
	u := &usermodel.UserModel{
		UserName: "admin-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@coursedig.test",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func fakeAuth(u *usermodel.UserModel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", u.ID.String())
		c.Locals("userRole", u.Role)
		return c.Next()
	}
}

func newAdminApp(db *gorm.DB, actor *usermodel.UserModel) *fiber.App {
	app := fiber.New()
	h := &controller.CourseAdminController{DB: db}
	g := app.Group("/api/admin", fakeAuth(actor))
	g.Post("/courses", h.Create)
	g.Put("/courses/:id/fee", h.UpsertFee)
	g.Patch("/home/featured", h.UpdateFeaturedRanks)
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

func TestCourseCreate_SlugConflictGetsSuffix(t *testing.T) {
	db := openTestDB(t)
	admin := makeAdmin(t, db, "admin")
	app := newAdminApp(db, admin)

	body := map[string]interface{}{
		"title":   "Cloud Foundations",
		"summary": "Core cloud concepts for beginners.",
		"level":   "foundation",
	}

	resp := doJSON(t, app, http.MethodPost, "/api/admin/courses", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, "cloud-foundations", data["slug"])

	resp = doJSON(t, app, http.MethodPost, "/api/admin/courses", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data = decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, "cloud-foundations-2", data["slug"])
}

func TestFeeUpsert_KeepsExactlyOneRowPerCourse(t *testing.T) {
	db := openTestDB(t)
	admin := makeAdmin(t, db, "admin")
	app := newAdminApp(db, admin)

	course := model.CourseModel{
		CourseSlug:    "cloud-foundations",
		CourseTitle:   "Cloud Foundations",
		CourseSummary: "Core cloud concepts.",
		CourseLevel:   model.CourseLevelFoundation,
	}
	require.NoError(t, db.Create(&course).Error)

	path := "/api/admin/courses/" + course.CourseID.String() + "/fee"

	resp := doJSON(t, app, http.MethodPut, path, map[string]interface{}{
		"currency": "idr", "tuition_cents": 150_000_00, "registration_cents": 25_000_00,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, path, map[string]interface{}{
		"currency": "IDR", "tuition_cents": 175_000_00,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fees []model.CourseFeeModel
	require.NoError(t, db.Where("course_fee_course_id = ?", course.CourseID).Find(&fees).Error)
	require.Len(t, fees, 1, "repeat upserts update in place")
	require.Equal(t, "IDR", fees[0].CourseFeeCurrency)
	require.EqualValues(t, 175_000_00, fees[0].CourseFeeTuitionCents)
	require.EqualValues(t, 0, fees[0].CourseFeeRegistrationCents)
}

func TestFeaturedRanks_RequireJustification(t *testing.T) {
	db := openTestDB(t)
	admin := makeAdmin(t, db, "admin")
	app := newAdminApp(db, admin)

	course := model.CourseModel{
		CourseSlug:        "cloud-foundations",
		CourseTitle:       "Cloud Foundations",
		CourseSummary:     "Core cloud concepts.",
		CourseLevel:       model.CourseLevelFoundation,
		CourseIsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	rank := 1
	resp := doJSON(t, app, http.MethodPatch, "/api/admin/home/featured", map[string]interface{}{
		"ranks": []map[string]interface{}{{"course_id": course.CourseID.String(), "rank": rank}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "JUSTIFICATION_REQUIRED", decodeBody(t, resp)["error_code"])

	resp = doJSON(t, app, http.MethodPatch, "/api/admin/home/featured", map[string]interface{}{
		"ranks":         []map[string]interface{}{{"course_id": course.CourseID.String(), "rank": rank}},
		"justification": "weekly home page rotation for the new intake season",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded model.CourseModel
	require.NoError(t, db.First(&reloaded, "course_id = ?", course.CourseID).Error)
	require.NotNil(t, reloaded.CourseFeaturedRank)
	require.Equal(t, 1, *reloaded.CourseFeaturedRank)
}

func TestFeaturedRanks_RegularUserIsForbidden(t *testing.T) {
	db := openTestDB(t)
	user := makeAdmin(t, db, "user")
	app := newAdminApp(db, user)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/home/featured", map[string]interface{}{
		"ranks":         []map[string]interface{}{{"course_id": uuid.NewString(), "rank": 1}},
		"justification": "this should never get past the gate's role check",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", decodeBody(t, resp)["error_code"])
}
