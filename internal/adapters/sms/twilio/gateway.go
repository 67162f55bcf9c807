// Package twilio implementa el gateway SMS contra Twilio, que solo envía de a
// un mensaje: el bulk es el secuencial con throttle del port.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vet-connect/internal/platform/httpclient"
	"vet-connect/internal/platform/phone"
	"vet-connect/internal/ports/sms"
)

var ErrNotConfigured = errors.New("twilio gateway not configured")

const (
	defaultBaseURL = "https://api.twilio.com"

	// DefaultThrottle es la pausa entre envíos en bulk, para no pasar el rate
	// limit del proveedor.
	DefaultThrottle = 1 * time.Second
)

type Config struct {
	BaseURL    string // vacío => api.twilio.com
	AccountSID string
	AuthToken  string
	FromNumber string

	CountryPrefix string
	Throttle      time.Duration
	Timeout       time.Duration
}

type Gateway struct {
	http          *httpclient.Client
	accountSID    string
	fromNumber    string
	countryPrefix string
	throttle      time.Duration
}

func New(cfg Config) (*Gateway, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.BasicUser = strings.TrimSpace(cfg.AccountSID)
	hc.BasicPass = strings.TrimSpace(cfg.AuthToken)

	throttle := cfg.Throttle
	if throttle <= 0 {
		throttle = DefaultThrottle
	}

	return &Gateway{
		http:          hc,
		accountSID:    strings.TrimSpace(cfg.AccountSID),
		fromNumber:    strings.TrimSpace(cfg.FromNumber),
		countryPrefix: strings.TrimSpace(cfg.CountryPrefix),
		throttle:      throttle,
	}, nil
}

func (g *Gateway) IsConfigured() bool {
	return g != nil && g.accountSID != "" && g.fromNumber != ""
}

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (g *Gateway) Send(ctx context.Context, to, message string) sms.Result {
	normalized := phone.Normalize(to, g.countryPrefix)

	if !g.IsConfigured() {
		return sms.Result{Phone: normalized, Success: false, Error: ErrNotConfigured.Error()}
	}

	form := url.Values{}
	form.Set("To", normalized)
	form.Set("From", g.fromNumber)
	form.Set("Body", message)

	path := fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", g.accountSID)

	var resp messageResponse
	if err := g.http.DoForm(ctx, http.MethodPost, path, nil, form, &resp); err != nil {
		return sms.Result{Phone: normalized, Success: false, Error: err.Error()}
	}

	switch resp.Status {
	case "queued", "sent", "delivered":
		return sms.Result{Phone: normalized, Success: true}
	}

	errMsg := resp.ErrorMessage
	if errMsg == "" {
		errMsg = resp.Status
	}
	return sms.Result{Phone: normalized, Success: false, Error: errMsg}
}

// SendBulk usa el secuencial del port: Twilio no tiene endpoint bulk.
func (g *Gateway) SendBulk(ctx context.Context, to []string, message string) []sms.Result {
	return sms.SequentialBulk(ctx, g, to, message, g.throttle)
}
