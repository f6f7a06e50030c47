// Package identity реализует клиента userinfo-эндпоинта identity-провайдера.
// Профиль запрашивается один раз — при первом появлении нового subject,
// чтобы заполнить email создаваемого аккаунта.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
)

// Profile — данные профиля пользователя у identity-провайдера.
type Profile struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

// Client — HTTP-клиент userinfo-эндпоинта.
type Client struct {
	userinfoURL string
	httpClient  *http.Client
}

// NewClient создаёт клиента identity-провайдера.
func NewClient(cfg config.IdentityProvider) *Client {
	return &Client{
		userinfoURL: cfg.UserinfoURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchProfile запрашивает профиль пользователя тем же bearer-токеном,
// с которым пришёл исходный запрос.
func (c *Client) FetchProfile(ctx context.Context, rawToken string) (*Profile, error) {
	const op = "identity.FetchProfile"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var profile Profile
	if err = json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%s: userinfo response without email", op)
	}
	return &profile, nil
}
