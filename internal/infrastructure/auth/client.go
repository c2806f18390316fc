package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/httputil"
	log "github.com/sirupsen/logrus"
)

var pinRegexp = regexp.MustCompile(`^\d{4}$`)

type client struct {
	baseURL string
	http    *httputil.Client
}

// NewService returns a client for the hive auth service at the given url.
// The client keeps the session cookie set by register and login, required by
// the service to disable the pin.
func NewService(baseURL string, timeout time.Duration) (ports.AuthService, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if len(baseURL) <= 0 {
		return nil, fmt.Errorf("missing auth service url")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid auth service url: %w", err)
	}

	return &client{
		baseURL: baseURL,
		http:    httputil.NewClientWithCookies(timeout),
	}, nil
}

type authRequest struct {
	WalletID string `json:"wallet_id"`
	Pin      string `json:"pin,omitempty"`
}

type disablePinRequest struct {
	ID  string `json:"id"`
	Pin string `json:"pin"`
}

func (c *client) Register(
	ctx context.Context, walletID, pin string,
) (string, error) {
	if err := validateAuthParams(walletID, pin, false); err != nil {
		return "", err
	}

	status, body, err := c.doJSON(
		ctx, http.MethodPost, "/register", authRequest{walletID, pin},
	)
	if err != nil {
		return "", &domain.NetworkError{Op: "register", Err: err}
	}
	if status != http.StatusOK {
		return "", decodeAuthError(status, body)
	}

	log.Debug("registered wallet")
	return parseToken(body)
}

func (c *client) Login(
	ctx context.Context, walletID, pin string,
) (string, error) {
	if err := validateAuthParams(walletID, pin, true); err != nil {
		return "", err
	}

	status, body, err := c.doJSON(
		ctx, http.MethodPost, "/login", authRequest{walletID, pin},
	)
	if err != nil {
		return "", &domain.NetworkError{Op: "login", Err: err}
	}
	if status != http.StatusOK {
		return "", decodeAuthError(status, body)
	}

	log.Debug("authenticated wallet")
	return parseToken(body)
}

func (c *client) ResetPin(ctx context.Context, walletID string) error {
	if len(walletID) <= 0 {
		return domain.ErrNullWalletID
	}

	path := "/reset?wallet_id=" + url.QueryEscape(walletID)
	status, body, err := c.http.NewHTTPRequest(
		ctx, http.MethodGet, c.baseURL+path, "", nil,
	)
	if err != nil {
		return &domain.NetworkError{Op: "reset pin", Err: err}
	}
	if status != http.StatusOK {
		return decodeAuthError(status, body)
	}
	return nil
}

func (c *client) DisablePin(
	ctx context.Context, walletID, pin string,
) error {
	if err := validateAuthParams(walletID, pin, false); err != nil {
		return err
	}

	status, body, err := c.doJSON(
		ctx, http.MethodDelete, "/pin", disablePinRequest{walletID, pin},
	)
	if err != nil {
		return &domain.NetworkError{Op: "disable pin", Err: err}
	}
	if status != http.StatusOK {
		return decodeAuthError(status, body)
	}
	return nil
}

func (c *client) Exist(ctx context.Context, walletID string) (bool, error) {
	if len(walletID) <= 0 {
		return false, domain.ErrNullWalletID
	}

	path := "/exist?wallet_id=" + url.QueryEscape(walletID)
	status, body, err := c.http.NewHTTPRequest(
		ctx, http.MethodGet, c.baseURL+path, "", nil,
	)
	if err != nil {
		return false, &domain.NetworkError{Op: "exist", Err: err}
	}
	if status != http.StatusOK {
		return false, decodeAuthError(status, body)
	}

	exists, err := strconv.ParseBool(strings.TrimSpace(body))
	if err != nil {
		return false, fmt.Errorf("unexpected exist response %q", body)
	}
	return exists, nil
}

func (c *client) doJSON(
	ctx context.Context, method, path string, req interface{},
) (int, string, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return 0, "", err
	}
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	return c.http.NewHTTPRequest(ctx, method, c.baseURL+path, string(buf), headers)
}

// validateAuthParams requires a wallet id and a pin of 4 digits. The pin can
// be omitted only if allowMissingPin is true.
func validateAuthParams(walletID, pin string, allowMissingPin bool) error {
	if len(walletID) <= 0 {
		return domain.ErrNullWalletID
	}
	if len(pin) <= 0 && allowMissingPin {
		return nil
	}
	if !pinRegexp.MatchString(pin) {
		return domain.NewValidationError("pin must be a 4 digits number")
	}
	return nil
}

func parseToken(body string) (string, error) {
	token := strings.TrimSpace(body)
	if strings.HasPrefix(token, `"`) {
		if err := json.Unmarshal([]byte(token), &token); err != nil {
			return "", fmt.Errorf("unexpected token format: %w", err)
		}
	}
	if len(token) <= 0 {
		return "", fmt.Errorf("auth service returned an empty token")
	}
	return token, nil
}

// decodeAuthError maps the body of a failed response to an AuthError. The
// service replies either with {"error": "<code>"} or with the plain code.
func decodeAuthError(status int, body string) error {
	if status == http.StatusUnauthorized {
		return &domain.AuthError{Code: domain.AuthCodeUnauthorized}
	}

	var resp struct {
		Error string `json:"error"`
	}
	code := strings.TrimSpace(body)
	if err := json.Unmarshal([]byte(body), &resp); err == nil && resp.Error != "" {
		code = resp.Error
	}
	if code == "invalid_pin" {
		code = domain.AuthCodeInvalidPin
	}
	if len(code) <= 0 {
		code = http.StatusText(status)
	}
	return &domain.AuthError{Code: code}
}
