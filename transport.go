package arenauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Backend endpoint paths, fixed by the wire contract.
const (
	pathLogin           = "/api/login"
	pathVerifyLoginOTP  = "/api/verify-login-otp"
	pathSignup          = "/api/signup"
	pathVerifySignupOTP = "/api/verify-signup-otp"
	pathForgotPassword  = "/api/forgot-password"
	pathVerifyResetOTP  = "/api/verify-forgot-password-otp"
	pathResetPassword   = "/api/reset-password"
	pathSession         = "/api/session"
	pathRestoreAccount  = "/api/restore-account"
)

type apiUser struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// apiResponse is the union of every field the backend may return. Bodies are
// best-effort JSON: a non-parseable body decodes to the zero value, which
// reads as a failure with no message.
type apiResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	PreviewURL  string   `json:"previewUrl"`
	RedirectURL string   `json:"redirectUrl"`
	ResetToken  string   `json:"resetToken"`
	Token       string   `json:"token"`
	User        *apiUser `json:"user"`

	// Login-specific restore signalling.
	RestoreRequired bool   `json:"restoreRequired"`
	DeletedUserID   string `json:"deletedUserId"`
	DeletedUserRole string `json:"deletedUserRole"`

	// Session endpoint fields.
	UserEmail string `json:"userEmail"`
	UserRole  string `json:"userRole"`
	Username  string `json:"username"`
}

// failureMessage picks the error string to surface for a non-success
// response: the body's message wins, otherwise the generic fallback.
func (r apiResponse) failureMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return msgNetworkError
}

// backendClient is the one place HTTP happens. It owns the base URL, the
// request timeout, and the JSON envelope handling; flows deal only in
// apiResponse values and the error taxonomy.
type backendClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func newBackendClient(cfg Config, client *http.Client) *backendClient {
	if client == nil {
		client = &http.Client{}
	}
	return &backendClient{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		client:  client,
		timeout: cfg.HTTP.RequestTimeout,
	}
}

// postJSON sends a JSON payload and decodes the response envelope. The
// returned error is non-nil only for transport-level failures (wrapped in
// ErrBackendUnreachable); a non-2xx status with a readable body is NOT an
// error here, since the flows need the body's message and restore fields.
func (b *backendClient) postJSON(ctx context.Context, path string, payload any) (apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apiResponse{}, fmt.Errorf("%w: encode request: %v", ErrBackendUnreachable, err)
	}

	req, err := b.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return apiResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	return b.do(req)
}

func (b *backendClient) getJSON(ctx context.Context, path string) (apiResponse, error) {
	req, err := b.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return apiResponse{}, err
	}
	return b.do(req)
}

func (b *backendClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrBackendUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := requestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	return req, nil
}

func (b *backendClient) do(req *http.Request) (apiResponse, error) {
	ctx := req.Context()
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	// Cap the body read; auth responses are small.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiResponse{}, fmt.Errorf("%w: read response: %v", ErrBackendUnreachable, err)
	}

	var parsed apiResponse
	decoded := true
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Best-effort JSON: an unparseable body is treated as an empty
		// object, which reads as a failure with the generic message.
		parsed = apiResponse{}
		decoded = false
	}

	// A 2xx status with no explicit success flag still counts as success
	// for endpoints that return bare data (the session endpoint) — but
	// only when the body actually decoded; garbage is never a success.
	if decoded && resp.StatusCode >= 200 && resp.StatusCode < 300 && !parsed.Success {
		if parsed.Message == "" && !parsed.RestoreRequired {
			parsed.Success = true
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		parsed.Success = false
	}

	return parsed, nil
}
