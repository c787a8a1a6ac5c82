package constants

// Upload ceilings for application attachments. Enforced both when issuing
// presigned authorizations and again when the submission records attachment
// metadata.
const (
	MaxAttachmentCount     = 5
	MaxAttachmentBytes     = 10 << 20 // per file
	MaxAttachmentBatchSize = 25 << 20 // whole batch
)

// AllowedAttachmentMIME is the attachment content-type allow-list.
var AllowedAttachmentMIME = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}
