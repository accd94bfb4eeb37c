package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wheretogonext/go-auth/social"
	"golang.org/x/oauth2"
)

const (
	// DefaultUserInfoURL is the Google OAuth2 v2 userinfo endpoint
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	// DefaultTimeout bounds a single userinfo round trip
	DefaultTimeout = 10 * time.Second

	operationUserInfo = "user_info"
)

// Config holds Google userinfo configuration.
type Config struct {
	UserInfoURL string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Provider implements social.IdentityProvider for Google access tokens
// obtained by the browser.
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ social.IdentityProvider = (*Provider)(nil)

// New creates a new Google provider.
func New(cfg Config) *Provider {
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = DefaultUserInfoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements social.IdentityProvider.
func (p *Provider) Name() string {
	return "google"
}

// UserInfo implements social.IdentityProvider. A non success response from
// Google is reported as social.ErrUserInfoFailed, transport failures as
// social.ErrProviderUnreachable.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*social.Profile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, social.ErrMissingAccessToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), ts)
	client.Timeout = p.config.Timeout

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, social.Fail(social.ErrProviderUnreachable, p.failure(0, "", "", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, social.Fail(social.ErrProviderUnreachable, p.failure(0, "", "", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, social.Fail(social.ErrProviderUnreachable, p.failure(resp.StatusCode, "", "", err))
	}

	if resp.StatusCode != http.StatusOK {
		reason, message := parseGoogleError(body)
		return nil, social.Fail(social.ErrUserInfoFailed, p.failure(resp.StatusCode, reason, message, nil))
	}

	var userInfo googleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, social.Fail(social.ErrUserInfoFailed,
			p.failure(resp.StatusCode, "invalid_response", "failed to decode userinfo response", err))
	}

	return mapProfile(&userInfo), nil
}

type googleErrorResponse struct {
	Error string `json:"error"`
	Desc  string `json:"error_description"`
}

type googleAPIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// parseGoogleError reads the reason and message of either the OAuth error
// shape or the Google API error shape.
func parseGoogleError(body []byte) (string, string) {
	var plain googleErrorResponse
	if err := json.Unmarshal(body, &plain); err == nil && (plain.Error != "" || plain.Desc != "") {
		return plain.Error, plain.Desc
	}

	var api googleAPIError
	if err := json.Unmarshal(body, &api); err == nil && (api.Error.Message != "" || api.Error.Status != "") {
		reason := api.Error.Status
		if reason == "" && api.Error.Code != 0 {
			reason = fmt.Sprintf("%d", api.Error.Code)
		}
		return reason, api.Error.Message
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "google request failed"
	}
	return "", msg
}

func (p *Provider) failure(status int, reason, message string, err error) *social.ProviderError {
	return &social.ProviderError{
		Provider:  p.Name(),
		Operation: operationUserInfo,
		Status:    status,
		Reason:    reason,
		Message:   message,
		Err:       err,
	}
}
