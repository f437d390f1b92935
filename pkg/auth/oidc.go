package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// OIDCAuthenticator supports optional SSO login against an external identity
// provider. When the issuer is unset the /auth/sso routes are not mounted.
type OIDCAuthenticator struct {
	config *oauth2.Config
	issuer string
}

func NewOIDCAuthenticator(issuer, clientID, clientSecret, redirectURL string) (*OIDCAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &OIDCAuthenticator{
		config: config,
		issuer: issuer,
	}, nil
}

func (a *OIDCAuthenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// ExchangeCode redeems the authorization code and returns the e-mail claim
// from the provider's userinfo endpoint; the caller maps it to a local user.
func (a *OIDCAuthenticator) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oidc code exchange failed: %w", err)
	}

	client := a.config.Client(ctx, token)
	resp, err := client.Get(fmt.Sprintf("%s/userinfo", a.issuer))
	if err != nil {
		return "", fmt.Errorf("oidc userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc userinfo returned %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("oidc userinfo missing email claim")
	}
	return info.Email, nil
}
