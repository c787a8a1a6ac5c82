package controller_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	controller "coursedig_backend/internals/features/admissions/uploads/controller"
	"coursedig_backend/internals/helpers/oss"
)

type fakeSigner struct{ fail bool }

func (s *fakeSigner) SignPutURL(objectKey, mimeType string, expiry time.Duration) (string, error) {
	if s.fail {
		return "", errors.New("backend down")
	}
	return "https://bucket.test/" + objectKey + "?sig=x", nil
}

func newApp(signer oss.UploadSigner, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	h := &controller.UploadController{Signer: signer}
	app.Post("/api/u/uploads/presign", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	}, h.Presign)
	return app
}

func post(t *testing.T, app *fiber.App, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/u/uploads/presign", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestPresign_IssuesBatch(t *testing.T) {
	userID := uuid.New()
	app := newApp(&fakeSigner{}, userID)

	resp := post(t, app, map[string]interface{}{
		"files": []map[string]interface{}{
			{"file_name": "transcript.pdf", "mime_type": "application/pdf", "size_bytes": 1000},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	uploads := body["data"].(map[string]interface{})["uploads"].([]interface{})
	require.Len(t, uploads, 1)
	first := uploads[0].(map[string]interface{})
	require.Contains(t, first["object_key"], "applications/"+userID.String()+"/")
	require.NotEmpty(t, first["upload_url"])
}

func TestPresign_RejectsOversizedFileAsBadRequest(t *testing.T) {
	app := newApp(&fakeSigner{}, uuid.New())

	resp := post(t, app, map[string]interface{}{
		"files": []map[string]interface{}{
			{"file_name": "huge.pdf", "mime_type": "application/pdf", "size_bytes": 11 << 20},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPresign_SignerOutageIsBadGateway(t *testing.T) {
	app := newApp(&fakeSigner{fail: true}, uuid.New())

	resp := post(t, app, map[string]interface{}{
		"files": []map[string]interface{}{
			{"file_name": "a.pdf", "mime_type": "application/pdf", "size_bytes": 1000},
		},
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPresign_NoStorageConfigured(t *testing.T) {
	app := newApp(nil, uuid.New())

	resp := post(t, app, map[string]interface{}{
		"files": []map[string]interface{}{
			{"file_name": "a.pdf", "mime_type": "application/pdf", "size_bytes": 1000},
		},
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
