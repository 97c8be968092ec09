package eskiz

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	eskizapi "github.com/iota-uz/eskiz"
)

const (
	defaultSendEndpoint = "https://notify.eskiz.uz/api/message/sms/send"
	loginAttempts       = 3
)

// Sender delivers SMS messages through the Eskiz gateway. It authenticates
// lazily on first use and re-authenticates once when the gateway rejects the
// cached bearer token.
type Sender struct {
	cfg      Config
	api      *eskizapi.APIClient
	httpc    *http.Client
	endpoint string

	mu    sync.Mutex
	token string
}

func NewSender(cfg Config) *Sender {
	return &Sender{
		cfg:      cfg,
		api:      eskizapi.NewAPIClient(eskizapi.NewConfiguration()),
		httpc:    &http.Client{Timeout: 15 * time.Second},
		endpoint: defaultSendEndpoint,
	}
}

func (s *Sender) SendSMS(ctx context.Context, phone, message string) error {
	token, err := s.bearer(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to authenticate with eskiz")
	}

	status, err := s.post(ctx, token, phone, message)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		if token, err = s.relogin(ctx); err != nil {
			return errors.Wrap(err, "failed to re-authenticate with eskiz")
		}
		if status, err = s.post(ctx, token, phone, message); err != nil {
			return err
		}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return errors.Errorf("eskiz send returned status %d", status)
	}
	return nil
}

// bearer returns the cached token, logging in when none is held yet.
func (s *Sender) bearer(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, nil
	}
	return s.loginLocked(ctx)
}

// relogin discards the cached token unconditionally; the caller saw the
// gateway reject it.
func (s *Sender) relogin(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return s.loginLocked(ctx)
}

func (s *Sender) loginLocked(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 0; attempt < loginAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, httpResp, err := s.api.DefaultApi.
			Login(ctx).
			Email(s.cfg.Email()).
			Password(s.cfg.Password()).
			Execute()
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}
		if err != nil {
			lastErr = err
			continue
		}

		data := resp.GetData()
		if data.Token == nil || data.GetToken() == "" {
			lastErr = errors.New("eskiz login response carries no token")
			continue
		}
		s.token = data.GetToken()
		return s.token, nil
	}
	return "", errors.Wrap(lastErr, "eskiz login failed")
}

func (s *Sender) post(ctx context.Context, token, phone, message string) (int, error) {
	form := url.Values{}
	form.Set("mobile_phone", phone)
	form.Set("message", message)
	form.Set("from", s.cfg.Sender())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, errors.Wrap(err, "failed to build eskiz request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "failed to call eskiz send API")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
