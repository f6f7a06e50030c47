// Package billing реализует клиента платёжного провайдера и проверку
// подписи его webhook-уведомлений.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
)

// Client — HTTP-клиент API платёжного провайдера.
type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

// NewClient создаёт нового клиента платёжного провайдера.
func NewClient(cfg config.Billing) *Client {
	return &Client{
		apiURL:     cfg.APIURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// RetrieveSubscription возвращает подписку провайдера по её id.
func (c *Client) RetrieveSubscription(ctx context.Context, id string) (*Subscription, error) {
	const op = "billing.RetrieveSubscription"

	req, err := c.newRequest(ctx, http.MethodGet, "/subscriptions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub Subscription
	if err = c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CancelAtPeriodEnd просит провайдера отменить подписку по окончании
// оплаченного периода. Возвращает обновлённую подписку с датой окончания.
func (c *Client) CancelAtPeriodEnd(ctx context.Context, id string) (*Subscription, error) {
	const op = "billing.CancelAtPeriodEnd"

	form := url.Values{}
	form.Set("cancel_at_period_end", "true")
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions/"+id, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub Subscription
	if err = c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
