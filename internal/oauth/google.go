// Package oauth verifies third-party access tokens against the provider's
// userinfo endpoint.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ErrTokenRejected is returned when the provider refuses the access token.
var ErrTokenRejected = errors.New("provider rejected the access token")

// UserInfo holds the identity claims retrieved from the provider. Treated as
// untrusted input: Email may be empty and must be validated by the caller.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier exchanges an access token for verified identity claims.
type Verifier interface {
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// GoogleVerifier calls Google's userinfo endpoint with the token as a bearer
// credential. The HTTP client carries a bounded timeout so a slow provider
// cannot stall a request indefinitely.
type GoogleVerifier struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleVerifier creates a verifier against the given userinfo endpoint.
func NewGoogleVerifier(userInfoURL string, timeout time.Duration) *GoogleVerifier {
	return &GoogleVerifier{
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// UserInfo implements Verifier.
func (g *GoogleVerifier) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTokenRejected, resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &info, nil
}
