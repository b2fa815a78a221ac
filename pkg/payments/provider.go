// Package payments talks to the external payment provider. Only intent
// creation lives here; charge confirmation happens on the client against the
// provider directly.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (*Intent, error)
}

// HTTPProvider speaks the provider's form-encoded REST dialect. The secret
// key never leaves the server; clients only ever see the client secret of a
// single intent.
type HTTPProvider struct {
	Client    *http.Client
	BaseURL   string
	SecretKey string
}

func NewHTTPProvider(client *http.Client, baseURL, secretKey string) *HTTPProvider {
	return &HTTPProvider{Client: client, BaseURL: baseURL, SecretKey: secretKey}
}

func (p *HTTPProvider) CreateIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned %d", resp.StatusCode)
	}

	intent := &Intent{}
	if err := json.NewDecoder(resp.Body).Decode(intent); err != nil {
		return nil, err
	}

	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("payment provider returned no client secret")
	}

	return intent, nil
}
