package oss_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"coursedig_backend/internals/helpers/oss"
)

// fakeSigner records calls and can be told to fail on the nth file.
type fakeSigner struct {
	calls  int
	failAt int // 0 = never fail
}

func (s *fakeSigner) SignPutURL(objectKey, mimeType string, expiry time.Duration) (string, error) {
	s.calls++
	if s.failAt != 0 && s.calls == s.failAt {
		return "", errors.New("signing backend unavailable")
	}
	return "https://bucket.example.com/" + objectKey + "?sig=abc", nil
}

func pdf(name string, size int64) oss.FileDescriptor {
	return oss.FileDescriptor{FileName: name, MimeType: "application/pdf", SizeBytes: size}
}

func TestValidateBatch(t *testing.T) {
	require.Error(t, oss.ValidateBatch(nil), "empty batch")

	require.NoError(t, oss.ValidateBatch([]oss.FileDescriptor{pdf("a.pdf", 1000)}))

	six := make([]oss.FileDescriptor, 6)
	for i := range six {
		six[i] = pdf("a.pdf", 1000)
	}
	require.Error(t, oss.ValidateBatch(six), "too many files")

	require.Error(t, oss.ValidateBatch([]oss.FileDescriptor{
		{FileName: "a.bin", MimeType: "application/octet-stream", SizeBytes: 10},
	}), "disallowed mime")

	require.Error(t, oss.ValidateBatch([]oss.FileDescriptor{pdf("a.pdf", 11<<20)}), "per-file limit")

	// three files of 9 MiB each: individually fine, 27 MiB total is over
	require.Error(t, oss.ValidateBatch([]oss.FileDescriptor{
		pdf("a.pdf", 9<<20), pdf("b.pdf", 9<<20), pdf("c.pdf", 9<<20),
	}), "batch limit")

	require.Error(t, oss.ValidateBatch([]oss.FileDescriptor{pdf("", 10)}), "missing name")
	require.Error(t, oss.ValidateBatch([]oss.FileDescriptor{pdf("a.pdf", 0)}), "missing size")
}

func TestSignBatch_IssuesOneAuthorizationPerFile(t *testing.T) {
	signer := &fakeSigner{}
	userID := uuid.New()

	out, err := oss.SignBatch(signer, userID, []oss.FileDescriptor{
		pdf("transcript.pdf", 1000),
		{FileName: "photo.png", MimeType: "image/png", SizeBytes: 2000},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, s := range out {
		require.True(t, strings.HasPrefix(s.ObjectKey, "applications/"+userID.String()+"/"),
			"key %s must be namespaced to the user", s.ObjectKey)
		require.NotEmpty(t, s.UploadURL)
		require.WithinDuration(t, time.Now().Add(oss.PresignExpiry), s.ExpiresAt, 5*time.Second)
	}
	require.NotEqual(t, out[0].ObjectKey, out[1].ObjectKey)
}

func TestSignBatch_WholeBatchFailsOnSignerError(t *testing.T) {
	signer := &fakeSigner{failAt: 2}

	out, err := oss.SignBatch(signer, uuid.New(), []oss.FileDescriptor{
		pdf("a.pdf", 1000),
		pdf("b.pdf", 1000),
	})
	require.Error(t, err)
	require.Nil(t, out, "no partial authorization on failure")
}

func TestSignBatch_RejectsInvalidBatchBeforeSigning(t *testing.T) {
	signer := &fakeSigner{}
	_, err := oss.SignBatch(signer, uuid.New(), []oss.FileDescriptor{pdf("a.pdf", 11<<20)})
	require.Error(t, err)
	require.Zero(t, signer.calls, "nothing signed for a rejected batch")
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"transcript.pdf":         "transcript.pdf",
		"../../etc/passwd":       "passwd",
		`C:\docs\résumé.pdf`:     "r_sum_.pdf",
		"my file (final).pdf":    "my_file__final_.pdf",
		"   ":                    "file",
		"....":                   "file",
	}
	for in, want := range cases {
		require.Equal(t, want, oss.SanitizeFileName(in), "input %q", in)
	}

	long := strings.Repeat("a", 200) + ".pdf"
	got := oss.SanitizeFileName(long)
	require.LessOrEqual(t, len(got), 80)
	require.True(t, strings.HasSuffix(got, ".pdf"))
}
