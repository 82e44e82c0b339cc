package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrEmailExists is returned when creating an account with an email that
	// is already registered with the identity provider.
	ErrEmailExists = errors.New("email already registered")
	// ErrAccountNotFound is returned when no provider account matches the query.
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a user account held by the identity provider. UID is the
// provider-assigned identifier and is used as the user document ID.
type Account struct {
	UID           string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	Disabled      bool   `json:"disabled"`
}

// CreateAccountParams holds the fields for registering a new provider account.
// The password is forwarded to the provider and never stored by this service.
type CreateAccountParams struct {
	Email       string
	Password    string
	DisplayName string
	PhoneNumber string
}

// UpdateAccountParams holds the mutable provider-side profile fields.
// Nil pointers leave the corresponding field unchanged.
type UpdateAccountParams struct {
	Email       *string
	DisplayName *string
	PhoneNumber *string
	PhotoURL    *string
}

// IdentityClient talks to the identity provider's account management REST API
// (the identitytoolkit surface). All requests carry the project API key.
type IdentityClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewIdentityClient creates a client for the given API base URL. An empty
// baseURL falls back to the hosted identitytoolkit endpoint.
func NewIdentityClient(baseURL, apiKey string) *IdentityClient {
	if baseURL == "" {
		baseURL = "https://identitytoolkit.googleapis.com/v1"
	}
	return &IdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateAccount registers a new account with the provider and returns it.
// Returns ErrEmailExists if the email is already taken.
func (ic *IdentityClient) CreateAccount(ctx context.Context, p CreateAccountParams) (*Account, error) {
	body := map[string]interface{}{
		"email":             p.Email,
		"password":          p.Password,
		"returnSecureToken": false,
	}
	if p.DisplayName != "" {
		body["displayName"] = p.DisplayName
	}
	if p.PhoneNumber != "" {
		body["phoneNumber"] = p.PhoneNumber
	}

	var resp struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := ic.post(ctx, "accounts:signUp", body, &resp); err != nil {
		return nil, err
	}
	return &Account{
		UID:         resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhoneNumber: p.PhoneNumber,
	}, nil
}

// GetAccountByEmail looks up a provider account by email.
// Returns ErrAccountNotFound if no account matches.
func (ic *IdentityClient) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	body := map[string]interface{}{
		"email": []string{email},
	}
	var resp struct {
		Users []Account `json:"users"`
	}
	if err := ic.post(ctx, "accounts:lookup", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, ErrAccountNotFound
	}
	return &resp.Users[0], nil
}

// GetAccount looks up a provider account by UID.
// Returns ErrAccountNotFound if no account matches.
func (ic *IdentityClient) GetAccount(ctx context.Context, uid string) (*Account, error) {
	body := map[string]interface{}{
		"localId": []string{uid},
	}
	var resp struct {
		Users []Account `json:"users"`
	}
	if err := ic.post(ctx, "accounts:lookup", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, ErrAccountNotFound
	}
	return &resp.Users[0], nil
}

// UpdateAccount applies the given profile changes to the provider account.
func (ic *IdentityClient) UpdateAccount(ctx context.Context, uid string, p UpdateAccountParams) error {
	body := map[string]interface{}{
		"localId":           uid,
		"returnSecureToken": false,
	}
	if p.Email != nil {
		body["email"] = *p.Email
	}
	if p.DisplayName != nil {
		body["displayName"] = *p.DisplayName
	}
	if p.PhoneNumber != nil {
		body["phoneNumber"] = *p.PhoneNumber
	}
	if p.PhotoURL != nil {
		body["photoUrl"] = *p.PhotoURL
	}
	return ic.post(ctx, "accounts:update", body, nil)
}

// DeleteAccount removes the provider account for the given UID.
func (ic *IdentityClient) DeleteAccount(ctx context.Context, uid string) error {
	body := map[string]interface{}{
		"localId": uid,
	}
	return ic.post(ctx, "accounts:delete", body, nil)
}

// post sends a JSON request to the named accounts endpoint and decodes the
// response into out (when out is non-nil). Provider error codes are mapped
// to the package sentinel errors.
func (ic *IdentityClient) post(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", endpoint, err)
	}

	reqURL := ic.baseURL + "/" + endpoint
	if ic.apiKey != "" {
		reqURL += "?key=" + url.QueryEscape(ic.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ic.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return mapProviderError(endpoint, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
	}
	return nil
}

// mapProviderError turns an identitytoolkit error payload into a sentinel
// error where one applies, otherwise a descriptive error.
func mapProviderError(endpoint string, status int, raw []byte) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
		return fmt.Errorf("%s returned status %d", endpoint, status)
	}

	msg := envelope.Error.Message
	switch {
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return ErrEmailExists
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"), strings.HasPrefix(msg, "USER_NOT_FOUND"):
		return ErrAccountNotFound
	default:
		return fmt.Errorf("%s failed: %s", endpoint, msg)
	}
}
