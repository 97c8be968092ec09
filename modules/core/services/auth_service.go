package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/northstarhq/northstar/modules/core/domain/aggregates/user"
	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/domain/entities/otp"
	"github.com/northstarhq/northstar/modules/core/domain/entities/session"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/serrors"
)

// Notifier delivers the one-time passcode out of band. Delivery transport is
// an external collaborator; sign-in fails closed when it errors.
type Notifier interface {
	SendPasscode(ctx context.Context, recipient user.User, code string) error
}

type SignInResult struct {
	PrincipalID uuid.UUID
	// RequiresOtp is false when a valid trusted-device token was presented
	// or step-up is disabled; Session is then populated directly.
	RequiresOtp bool
	Session     *session.Session
}

type StepUpResult struct {
	Session *session.Session
	// DeviceToken is set only when the principal chose to remember the device.
	DeviceToken     string
	DeviceExpiresAt time.Time
}

type AuthService struct {
	users           user.Repository
	accounts        account.Repository
	sessions        session.Repository
	challenges      otp.Repository
	deviceTrust     *DeviceTrustService
	notifier        Notifier
	otpEnforced     bool
	otpTTL          time.Duration
	sessionDuration time.Duration
}

type AuthServiceOptions struct {
	Users           user.Repository
	Accounts        account.Repository
	Sessions        session.Repository
	Challenges      otp.Repository
	DeviceTrust     *DeviceTrustService
	Notifier        Notifier
	OtpEnforced     bool
	OtpTTL          time.Duration
	SessionDuration time.Duration
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		users:           opts.Users,
		accounts:        opts.Accounts,
		sessions:        opts.Sessions,
		challenges:      opts.Challenges,
		deviceTrust:     opts.DeviceTrust,
		notifier:        opts.Notifier,
		otpEnforced:     opts.OtpEnforced,
		otpTTL:          opts.OtpTTL,
		sessionDuration: opts.SessionDuration,
	}
}

// SignIn checks credentials and either opens a session directly (trusted
// device, or step-up disabled) or issues a passcode challenge. A failed
// passcode delivery fails the sign-in rather than skipping verification.
func (s *AuthService) SignIn(ctx context.Context, email, password, deviceToken string) (*SignInResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, serrors.ErrUnauthenticated
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)) != nil {
		return nil, serrors.ErrUnauthenticated
	}

	if !s.otpEnforced || s.deviceTrust.Verify(u.ID(), deviceToken) {
		sess, err := s.openSession(ctx, u.ID())
		if err != nil {
			return nil, err
		}
		return &SignInResult{PrincipalID: u.ID(), RequiresOtp: false, Session: sess}, nil
	}

	if err := s.issueChallenge(ctx, u); err != nil {
		return nil, err
	}
	return &SignInResult{PrincipalID: u.ID(), RequiresOtp: true}, nil
}

// VerifyOtp consumes a pending challenge and opens the session. When the
// principal opted to remember the device, a fresh trusted-device token is
// issued alongside; it simply overwrites any previous one.
func (s *AuthService) VerifyOtp(ctx context.Context, principalID uuid.UUID, code string, rememberDevice bool) (*StepUpResult, error) {
	var result StepUpResult
	err := inTxFn(ctx, func(txCtx context.Context) error {
		challenge, err := s.challenges.GetActive(txCtx, principalID, code)
		if err != nil {
			if errors.Is(err, otp.ErrNotFound) {
				return serrors.ErrUnauthenticated
			}
			return err
		}
		if err := s.challenges.Consume(txCtx, challenge.ID); err != nil {
			return err
		}
		sess, err := s.createSession(txCtx, principalID)
		if err != nil {
			return err
		}
		result.Session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rememberDevice {
		result.DeviceToken, result.DeviceExpiresAt = s.deviceTrust.Issue(principalID)
	}
	return &result, nil
}

// Authenticate resolves a session token for the auth middleware. accountID
// is uuid.Nil when the principal owns no account yet.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if sess.Expired() {
		return uuid.Nil, uuid.Nil, serrors.ErrUnauthenticated
	}

	acc, err := s.accounts.GetByPrincipal(ctx, sess.PrincipalID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return sess.PrincipalID, uuid.Nil, nil
		}
		return uuid.Nil, uuid.Nil, err
	}
	return sess.PrincipalID, acc.ID(), nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *AuthService) DeviceTrust() *DeviceTrustService {
	return s.deviceTrust
}

func (s *AuthService) issueChallenge(ctx context.Context, u user.User) error {
	code, err := newPasscode()
	if err != nil {
		return err
	}
	challenge := &otp.Challenge{
		ID:          uuid.New(),
		PrincipalID: u.ID(),
		Code:        code,
		ExpiresAt:   time.Now().Add(s.otpTTL),
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.challenges.Create(txCtx, challenge)
	}); err != nil {
		return err
	}
	if err := s.notifier.SendPasscode(ctx, u, code); err != nil {
		return fmt.Errorf("failed to deliver passcode: %w", err)
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, principalID uuid.UUID) (*session.Session, error) {
	var sess *session.Session
	err := inTxFn(ctx, func(txCtx context.Context) error {
		var innerErr error
		sess, innerErr = s.createSession(txCtx, principalID)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) createSession(ctx context.Context, principalID uuid.UUID) (*session.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	ip, _ := composables.UseIP(ctx)
	userAgent, _ := composables.UseUserAgent(ctx)

	sess := &session.Session{
		Token:       token,
		PrincipalID: principalID,
		IP:          ip,
		UserAgent:   userAgent,
		ExpiresAt:   time.Now().Add(s.sessionDuration),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func newSessionToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func newPasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
