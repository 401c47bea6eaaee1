package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Client talks to the HRMS backend. The API is an uncontrolled third
// party; every response is normalized defensively and nothing returned
// from here is trusted beyond one poll cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client

	token      string
	clientID   string
	EmployeeID string
	UserName   string
	Role       string
}

// ErrUnauthorized marks a 401 from the backend; callers surface it to the
// user instead of retrying silently.
var ErrUnauthorized = fmt.Errorf("invalid credentials")

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    trimSlash(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		clientID:   uuid.NewString(),
	}
}

func trimSlash(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}

// LoggedIn reports whether a bearer token is held.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// Login exchanges credentials for a bearer token. The backend free tier
// cold-starts slowly, so transient failures are retried a few times
// before giving up. A 401 is returned immediately as ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := sonic.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		util.LogInfof("Login attempt %d", attempt)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/auth/login", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			util.LogWarnf("Login connection failed: %v", err)
			if !sleepCtx(ctx, 2*time.Second) {
				return ctx.Err()
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return c.applyLogin(body)
		case resp.StatusCode == http.StatusUnauthorized:
			return ErrUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("login endpoint not found (404)")
		default:
			lastErr = fmt.Errorf("login failed with status %d", resp.StatusCode)
			util.LogWarnf("Login server error %d, retrying", resp.StatusCode)
			if !sleepCtx(ctx, time.Second) {
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("login failed after 3 attempts: %w", lastErr)
}

// applyLogin extracts token and user identity from the login response.
// User info may sit under "data", "user", or at the top level, and the
// employee identifier goes by several names.
func (c *Client) applyLogin(body []byte) error {
	var payload map[string]interface{}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("malformed login response: %w", err)
	}

	token, _ := payload["token"].(string)
	if token == "" {
		return fmt.Errorf("login response carried no token")
	}
	c.token = token

	userData := payload
	for _, key := range []string{"data", "user"} {
		if m, ok := payload[key].(map[string]interface{}); ok {
			userData = m
			break
		}
	}

	c.EmployeeID = firstString(userData, []string{"employeeId", "empId", "employeeCode"})
	if c.EmployeeID == "" {
		c.EmployeeID = "UNKNOWN_ID"
	}
	c.UserName = firstString(userData, []string{"name"})
	c.Role = firstString(userData, []string{"role", "designation"})
	if c.Role == "" {
		if exp, ok := userData["experienceDetails"].([]interface{}); ok && len(exp) > 0 {
			if m, ok := exp[0].(map[string]interface{}); ok {
				c.Role = firstString(m, []string{"role"})
			}
		}
	}
	if c.Role == "" {
		c.Role = "Employee"
	}

	util.LogInfof("Logged in as %s (%s)", c.EmployeeID, c.Role)
	return nil
}

// FetchAttendance retrieves and normalizes today's punch record.
func (c *Client) FetchAttendance(ctx context.Context) (*model.PunchRecord, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not logged in")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/attendance", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attendance fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return NormalizeAttendance(body)
}

// UploadActivity posts the current status and duration to the backend.
// Best effort only: failures are logged at debug and ignored.
func (c *Client) UploadActivity(ctx context.Context, status string, durationSeconds int) {
	if c.token == "" {
		return
	}

	payload, err := sonic.Marshal(map[string]interface{}{
		"clientId": c.clientID,
		"status":   status,
		"duration": durationSeconds,
	})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/attendance/activity", bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.LogDebugf("Activity upload failed: %v", err)
		return
	}
	resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
