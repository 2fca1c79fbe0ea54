package stage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStage(t *testing.T, ttl time.Duration) *Stage {
	t.Helper()
	s, err := New(Config{
		Name:       "PDF_REPORTS",
		Root:       t.TempDir(),
		BaseURL:    "https://stage.sam-demo.example",
		SigningKey: "test-signing-key",
		URLTTL:     ttl,
	})
	require.NoError(t, err)
	return s
}

func TestStage_PutAndList(t *testing.T) {
	s := newTestStage(t, time.Hour)

	_, err := s.Put("internal_Q3_Review_20250115_093000.pdf", []byte("%PDF-1.4 one"))
	require.NoError(t, err)
	_, err = s.Put("internal_Q3_Review_20250115_093001.pdf", []byte("%PDF-1.4 two"))
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Contains(t, names, "internal_Q3_Review_20250115_093000.pdf")
	assert.Contains(t, names, "internal_Q3_Review_20250115_093001.pdf")
}

func TestStage_RejectsPathTraversal(t *testing.T) {
	s := newTestStage(t, time.Hour)

	_, err := s.Put("../escape.pdf", []byte("x"))
	assert.Error(t, err)

	_, err = s.Put("", []byte("x"))
	assert.Error(t, err)
}

func TestStage_PresignRoundTrip(t *testing.T) {
	s := newTestStage(t, time.Hour)

	path, err := s.Put("report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	u, err := s.PresignURL("report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://stage.sam-demo.example/PDF_REPORTS/report.pdf?"))
	assert.Contains(t, u, "signature=")

	verified, err := s.Verify(u)
	require.NoError(t, err)
	assert.Equal(t, path, verified)
}

func TestStage_PresignUnknownObject(t *testing.T) {
	s := newTestStage(t, time.Hour)

	_, err := s.PresignURL("missing.pdf")
	assert.Error(t, err)
}

func TestStage_VerifyRejectsTamperedSignature(t *testing.T) {
	s := newTestStage(t, time.Hour)

	_, err := s.Put("report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	u, err := s.PresignURL("report.pdf")
	require.NoError(t, err)

	tampered := strings.Replace(u, "signature=", "signature=00", 1)
	_, err = s.Verify(tampered)
	assert.ErrorContains(t, err, "signature mismatch")
}

func TestStage_VerifyRejectsExpired(t *testing.T) {
	s := newTestStage(t, -time.Minute)

	_, err := s.Put("report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	u, err := s.PresignURL("report.pdf")
	require.NoError(t, err)

	_, err = s.Verify(u)
	assert.ErrorContains(t, err, "expired")
}

func TestStage_Drop(t *testing.T) {
	s := newTestStage(t, time.Hour)

	_, err := s.Put("report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, s.Drop())

	_, err = s.PresignURL("report.pdf")
	assert.Error(t, err)
}
