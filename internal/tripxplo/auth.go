package tripxplo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned when a login response carries no token.
	ErrNoToken = errors.New("no accessToken or jwt in login response")
	// ErrUnauthorized is returned when the API still rejects a fresh token.
	ErrUnauthorized = errors.New("tripxplo: unauthorized")
)

// Authenticator logs in with admin credentials.
type Authenticator struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
}

func NewAuthenticator(baseURL, email, password string, httpClient *http.Client) *Authenticator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Authenticator{baseURL: baseURL, email: email, password: password, http: httpClient}
}

// Login exchanges the credentials for a bearer token.
func (a *Authenticator) Login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"email": a.email, "password": a.password})
	if err != nil {
		return "", fmt.Errorf("encoding login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.baseURL+"/admin/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: login rejected (status %d)", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
		JWT         string `json:"jwt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if out.AccessToken != "" {
		return out.AccessToken, nil
	}
	if out.JWT != "" {
		return out.JWT, nil
	}
	return "", ErrNoToken
}
