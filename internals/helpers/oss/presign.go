package oss

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"

	"coursedig_backend/internals/constants"
)

// Presigned authorizations are valid for this window; after expiry the client
// must request new ones.
const PresignExpiry = 10 * time.Minute

const maxSanitizedNameLen = 80

// FileDescriptor is one requested upload, as declared by the client.
type FileDescriptor struct {
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// SignedUpload is one issued authorization.
type SignedUpload struct {
	FileName  string    `json:"file_name"`
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadSigner signs one PUT for a constructed object key. Satisfied by
// *OSSService in production and by fakes in tests.
type UploadSigner interface {
	SignPutURL(objectKey, mimeType string, expiry time.Duration) (string, error)
}

func (s *OSSService) SignPutURL(objectKey, mimeType string, expiry time.Duration) (string, error) {
	return s.Bucket.SignURL(objectKey, oss.HTTPPut, int64(expiry/time.Second), oss.ContentType(mimeType))
}

// ValidateBatch applies the full set of batch rules. Any single violation
// rejects the whole batch; no partial authorization is ever issued.
func ValidateBatch(files []FileDescriptor) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	if len(files) > constants.MaxAttachmentCount {
		return fmt.Errorf("at most %d files per batch", constants.MaxAttachmentCount)
	}
	var total int64
	for i, f := range files {
		if strings.TrimSpace(f.FileName) == "" {
			return fmt.Errorf("file #%d: file name is required", i+1)
		}
		if !constants.AllowedAttachmentMIME[f.MimeType] {
			return fmt.Errorf("file #%d: type %q is not allowed (PDF, JPEG, PNG, WEBP only)", i+1, f.MimeType)
		}
		if f.SizeBytes <= 0 {
			return fmt.Errorf("file #%d: size is required", i+1)
		}
		if f.SizeBytes > constants.MaxAttachmentBytes {
			return fmt.Errorf("file #%d: exceeds the %d MiB per-file limit", i+1, constants.MaxAttachmentBytes>>20)
		}
		total += f.SizeBytes
	}
	if total > constants.MaxAttachmentBatchSize {
		return fmt.Errorf("batch exceeds the %d MiB total limit", constants.MaxAttachmentBatchSize>>20)
	}
	return nil
}

// SignBatch validates the batch and issues one authorization per file.
// Object keys embed the caller's identity, a timestamp, and a random token so
// keys are never guessable or colliding across users.
func SignBatch(signer UploadSigner, userID uuid.UUID, files []FileDescriptor) ([]SignedUpload, error) {
	if err := ValidateBatch(files); err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]SignedUpload, 0, len(files))
	for _, f := range files {
		key := BuildObjectKey("applications", userID, now, f.FileName)
		url, err := signer.SignPutURL(key, f.MimeType, PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("sign %s: %w", f.FileName, err)
		}
		out = append(out, SignedUpload{
			FileName:  f.FileName,
			ObjectKey: key,
			UploadURL: url,
			ExpiresAt: now.Add(PresignExpiry),
		})
	}
	return out, nil
}

// BuildObjectKey constructs <prefix>/<userID>/<unix-ts>-<token>-<sanitized-name>.
func BuildObjectKey(prefix string, userID uuid.UUID, now time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s-%s",
		prefix, userID.String(), now.Unix(), randomToken(), SanitizeFileName(fileName))
}

// SanitizeFileName keeps [a-zA-Z0-9._-], replaces everything else with "_",
// and caps the length. Guards against path traversal and weird unicode keys.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	// strip any path component the client sent
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	if len(out) > maxSanitizedNameLen {
		out = out[len(out)-maxSanitizedNameLen:]
	}
	return out
}

func randomToken() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is effectively fatal elsewhere; fall back to a UUID
		return uuid.NewString()[:16]
	}
	return hex.EncodeToString(buf)
}
