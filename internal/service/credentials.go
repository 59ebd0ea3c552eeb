package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rawa7/hightech/internal/model"
)

// OAuth2 scope required by the FCM v1 send API.
const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// serviceAccount is the subset of the Firebase service account JSON we need.
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// TokenSource mints short-lived FCM access tokens from a service account file.
//
// Each call signs a fresh RS256 JWT-bearer assertion (iss = service account
// email, aud = the token endpoint, 1h expiry) and exchanges it at the identity
// provider. Tokens are valid for an hour but are not cached: send volume is
// low and a fresh exchange per send batch keeps the source stateless.
type TokenSource struct {
	credentialsFile string
	tokenURL        string
	httpClient      *http.Client
}

func NewTokenSource(credentialsFile, tokenURL string, timeout time.Duration) *TokenSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TokenSource{
		credentialsFile: credentialsFile,
		tokenURL:        tokenURL,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// GetAccessToken returns a bearer token for the FCM send API.
func (s *TokenSource) GetAccessToken(ctx context.Context) (string, error) {
	sa, err := s.loadServiceAccount()
	if err != nil {
		return "", err
	}

	assertion, err := signAssertion(sa, s.tokenURL, time.Now())
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrTokenExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", model.ErrTokenExchangeFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", model.ErrTokenExchangeFailed, resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", model.ErrTokenExchangeFailed, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access_token", model.ErrTokenExchangeFailed)
	}

	return tokenResp.AccessToken, nil
}

func (s *TokenSource) loadServiceAccount() (*serviceAccount, error) {
	raw, err := os.ReadFile(s.credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrCredentialNotFound, s.credentialsFile)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrCredentialNotFound, err)
	}

	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCredential, err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("%w: missing client_email or private_key", model.ErrInvalidCredential)
	}
	return &sa, nil
}

// signAssertion builds the RS256-signed JWT the token endpoint expects.
func signAssertion(sa *serviceAccount, audience string, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("%w: parse private key: %v", model.ErrInvalidCredential, err)
	}

	claims := jwt.MapClaims{
		"iss":   sa.ClientEmail,
		"scope": messagingScope,
		"aud":   audience,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: sign assertion: %v", model.ErrInvalidCredential, err)
	}
	return signed, nil
}
