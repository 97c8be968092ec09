package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const deviceCookiePrefix = "trusted_device_"

// DeviceTrustService issues and verifies the self-contained tokens that let a
// principal skip the one-time-passcode step-up. Tokens are never stored
// server-side; the signature and the trust window are the whole contract.
type DeviceTrustService struct {
	secret []byte
	window time.Duration
	secure bool
	now    func() time.Time
}

func NewDeviceTrustService(secret []byte, window time.Duration, secure bool) *DeviceTrustService {
	return &DeviceTrustService{
		secret: secret,
		window: window,
		secure: secure,
		now:    time.Now,
	}
}

func (s *DeviceTrustService) Window() time.Duration {
	return s.window
}

// Issue returns a fresh token and its expiry. Issuing again simply replaces
// the previous token; nothing is ever updated in place.
func (s *DeviceTrustService) Issue(principalID uuid.UUID) (string, time.Time) {
	issuedAt := s.now()
	millis := issuedAt.UnixMilli()
	token := fmt.Sprintf(
		"%s.%d.%s",
		base64.RawURLEncoding.EncodeToString([]byte(principalID.String())),
		millis,
		s.sign(principalID.String(), millis),
	)
	return token, issuedAt.Add(s.window)
}

// Verify accepts a token iff it parses, the signature matches, it names the
// given principal and the trust window has not elapsed. Every failure mode
// returns false; the caller falls back to a fresh passcode challenge.
func (s *DeviceTrustService) Verify(principalID uuid.UUID, token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}

	rawID, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	embeddedID, err := uuid.Parse(string(rawID))
	if err != nil {
		return false
	}

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(s.sign(string(rawID), millis))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}
	if !hmac.Equal(got, expected) {
		return false
	}

	if embeddedID != principalID {
		return false
	}

	issuedAt := time.UnixMilli(millis)
	return s.now().Sub(issuedAt) < s.window
}

// Cookie builds the client-side carrier for the token. The name embeds the
// principal id so principals sharing a browser do not clobber each other.
func (s *DeviceTrustService) Cookie(principalID uuid.UUID, token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     s.CookieName(principalID),
		Value:    token,
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		Path:     "/",
	}
}

func (s *DeviceTrustService) CookieName(principalID uuid.UUID) string {
	return deviceCookiePrefix + principalID.String()
}

func (s *DeviceTrustService) sign(principalID string, issuedAtMillis int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(principalID + "." + strconv.FormatInt(issuedAtMillis, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
