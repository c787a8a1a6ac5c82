package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	controller "coursedig_backend/internals/features/newsletter/controller"
	model "coursedig_backend/internals/features/newsletter/model"
	"coursedig_backend/internals/helpers/mailer"
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
	require.NoError(t, db.AutoMigrate(&model.SubscriberModel{}))
	return db
}

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	h := &controller.NewsletterController{DB: db, Mailer: &mailer.DisabledMailer{}}
	app.Post("/api/newsletter/subscribe", h.Subscribe)
	app.Get("/api/newsletter/confirm", h.Confirm)
	app.Post("/api/newsletter/unsubscribe", h.Unsubscribe)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func TestNewsletter_DoubleOptInLifecycle(t *testing.T) {
	db := openTestDB(t)
	app := newApp(db)

	resp := postJSON(t, app, "/api/newsletter/subscribe", map[string]string{"email": "Reader@Example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sub model.SubscriberModel
	require.NoError(t, db.First(&sub, "subscriber_email = ?", "reader@example.com").Error)
	require.Equal(t, model.SubscriberStatusPending, sub.SubscriberStatus)
	require.NotEmpty(t, sub.SubscriberToken)

	// pending rows are not announced as conflicts; re-subscribe re-sends with
	// a fresh token
	resp = postJSON(t, app, "/api/newsletter/subscribe", map[string]string{"email": "reader@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&sub, "subscriber_email = ?", "reader@example.com").Error)

	resp = get(t, app, "/api/newsletter/confirm?token="+sub.SubscriberToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&sub, "subscriber_id = ?", sub.SubscriberID).Error)
	require.Equal(t, model.SubscriberStatusActive, sub.SubscriberStatus)
	require.NotNil(t, sub.SubscriberConfirmedAt)

	// active duplicate → conflict
	resp = postJSON(t, app, "/api/newsletter/subscribe", map[string]string{"email": "reader@example.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, app, "/api/newsletter/unsubscribe", map[string]string{"token": sub.SubscriberToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&sub, "subscriber_id = ?", sub.SubscriberID).Error)
	require.Equal(t, model.SubscriberStatusUnsubscribed, sub.SubscriberStatus)

	// re-subscribe after unsubscription reuses the row and goes back to pending
	resp = postJSON(t, app, "/api/newsletter/subscribe", map[string]string{"email": "reader@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.SubscriberModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, db.First(&sub, "subscriber_id = ?", sub.SubscriberID).Error)
	require.Equal(t, model.SubscriberStatusPending, sub.SubscriberStatus)
}

func TestNewsletter_ConfirmUnknownToken(t *testing.T) {
	app := newApp(openTestDB(t))
	resp := get(t, app, "/api/newsletter/confirm?token=deadbeef")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewsletter_SubscribeRejectsBadEmail(t *testing.T) {
	app := newApp(openTestDB(t))
	resp := postJSON(t, app, "/api/newsletter/subscribe", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
