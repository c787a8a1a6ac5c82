package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
	"coursedig_backend/internals/helpers/oss"
)

// UploadController issues presigned PUT authorizations; it never tracks
// whether a signed upload is actually performed.
type UploadController struct {
	Signer oss.UploadSigner
}

type presignRequest struct {
	Files []oss.FileDescriptor `json:"files"`
}

// =========================================================
// PRESIGN - POST /api/u/uploads/presign (authenticated)
// Whole-batch semantics: one bad descriptor rejects everything.
// =========================================================
func (h *UploadController) Presign(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if h.Signer == nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "File storage is not configured")
	}

	var req presignRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	signed, err := oss.SignBatch(h.Signer, userID, req.Files)
	if err != nil {
		if verr := oss.ValidateBatch(req.Files); verr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, verr.Error())
		}
		log.Printf("[UPLOADS] presign failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Could not authorize the upload, please retry")
	}

	return helper.JsonOK(c, "Uploads authorized", fiber.Map{"uploads": signed})
}
