package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 180 * 24 * time.Hour

func newTestDeviceTrust(now time.Time) *DeviceTrustService {
	svc := NewDeviceTrustService([]byte("test-secret"), testWindow, false)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDeviceTrust_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestDeviceTrust(issued)
	principalID := uuid.New()

	token, expiresAt := svc.Issue(principalID)
	require.NotEmpty(t, token)
	assert.Equal(t, issued.Add(testWindow), expiresAt)

	assert.True(t, svc.Verify(principalID, token))
}

func TestDeviceTrust_TokenShape(t *testing.T) {
	svc := newTestDeviceTrust(time.Now())
	principalID := uuid.New()

	token, _ := svc.Issue(principalID)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
}

func TestDeviceTrust_WrongPrincipal(t *testing.T) {
	svc := newTestDeviceTrust(time.Now())

	token, _ := svc.Issue(uuid.New())
	assert.False(t, svc.Verify(uuid.New(), token))
}

func TestDeviceTrust_Expired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestDeviceTrust(issued)
	principalID := uuid.New()

	token, _ := svc.Issue(principalID)

	svc.now = func() time.Time { return issued.Add(testWindow - time.Minute) }
	assert.True(t, svc.Verify(principalID, token))

	svc.now = func() time.Time { return issued.Add(testWindow + time.Minute) }
	assert.False(t, svc.Verify(principalID, token))
}

func TestDeviceTrust_Malformed(t *testing.T) {
	svc := newTestDeviceTrust(time.Now())
	principalID := uuid.New()

	for _, token := range []string{
		"",
		"only-one-part",
		"two.parts",
		"a.b.c.d",
		"!!!.123.deadbeef",
		"aGVsbG8.notanumber.deadbeef",
	} {
		assert.False(t, svc.Verify(principalID, token), "token %q should not verify", token)
	}
}

func TestDeviceTrust_TamperedSignature(t *testing.T) {
	svc := newTestDeviceTrust(time.Now())
	principalID := uuid.New()

	token, _ := svc.Issue(principalID)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("0", len(parts[2]))
	assert.False(t, svc.Verify(principalID, tampered))
}

func TestDeviceTrust_SecretMatters(t *testing.T) {
	principalID := uuid.New()
	issued := time.Now()

	issuer := newTestDeviceTrust(issued)
	verifier := NewDeviceTrustService([]byte("another-secret"), testWindow, false)
	verifier.now = func() time.Time { return issued }

	token, _ := issuer.Issue(principalID)
	assert.False(t, verifier.Verify(principalID, token))
}

func TestDeviceTrust_Cookie(t *testing.T) {
	svc := newTestDeviceTrust(time.Now())
	principalID := uuid.New()

	token, expiresAt := svc.Issue(principalID)
	cookie := svc.Cookie(principalID, token, expiresAt)

	assert.Equal(t, "trusted_device_"+principalID.String(), cookie.Name)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, expiresAt, cookie.Expires)
}
