// Package africastalking implementa el gateway SMS contra Africa's Talking,
// que tiene endpoint bulk nativo: un solo round trip y el estado por
// destinatario viene en la respuesta.
package africastalking

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vet-connect/internal/platform/httpclient"
	"vet-connect/internal/platform/phone"
	"vet-connect/internal/ports/sms"
)

var ErrNotConfigured = errors.New("africastalking gateway not configured")

const (
	defaultBaseURL = "https://api.africastalking.com"
	messagingPath  = "/version1/messaging"

	// statusSuccess es el status string que el proveedor devuelve por
	// destinatario aceptado.
	statusSuccess = "Success"
)

// Config del gateway. APIKey y Username vienen del entorno del caller; acá no
// se lee ninguna env var.
type Config struct {
	BaseURL  string // vacío => producción; sandbox: https://api.sandbox.africastalking.com
	APIKey   string
	Username string
	SenderID string // opcional ("from")

	// Prefijo de país para normalizar teléfonos. Vacío => +250.
	CountryPrefix string

	Timeout time.Duration
}

type Gateway struct {
	http          *httpclient.Client
	apiKey        string
	username      string
	senderID      string
	countryPrefix string
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

	return &Gateway{
		http:          hc,
		apiKey:        strings.TrimSpace(cfg.APIKey),
		username:      strings.TrimSpace(cfg.Username),
		senderID:      strings.TrimSpace(cfg.SenderID),
		countryPrefix: strings.TrimSpace(cfg.CountryPrefix),
	}, nil
}

func (g *Gateway) IsConfigured() bool {
	return g != nil && g.apiKey != "" && g.username != ""
}

// respuesta del endpoint de messaging
type sendResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			Number     string `json:"number"`
			Status     string `json:"status"`
			StatusCode int    `json:"statusCode"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

func (g *Gateway) Send(ctx context.Context, to, message string) sms.Result {
	results := g.SendBulk(ctx, []string{to}, message)
	if len(results) == 0 {
		return sms.Result{Phone: to, Success: false, Error: "no recipients processed"}
	}
	return results[0]
}

// SendBulk manda el batch completo en un request. Devuelve un Result por
// entrada, alineado por índice; destinatarios sin delivery report en la
// respuesta quedan como fallados.
func (g *Gateway) SendBulk(ctx context.Context, to []string, message string) []sms.Result {
	normalized := make([]string, 0, len(to))
	for _, p := range to {
		normalized = append(normalized, phone.Normalize(p, g.countryPrefix))
	}

	if !g.IsConfigured() {
		return failAll(normalized, ErrNotConfigured.Error())
	}

	form := url.Values{}
	form.Set("username", g.username)
	form.Set("to", strings.Join(normalized, ","))
	form.Set("message", message)
	if g.senderID != "" {
		form.Set("from", g.senderID)
	}

	var resp sendResponse
	err := g.http.DoForm(ctx, http.MethodPost, messagingPath, map[string]string{
		"apiKey": g.apiKey,
	}, form, &resp)
	if err != nil {
		return failAll(normalized, err.Error())
	}

	// El proveedor reporta por número; indexamos para reatribuir en el orden
	// de entrada.
	byNumber := make(map[string]string, len(resp.SMSMessageData.Recipients))
	for _, r := range resp.SMSMessageData.Recipients {
		byNumber[r.Number] = r.Status
	}

	out := make([]sms.Result, 0, len(normalized))
	for _, p := range normalized {
		status, ok := byNumber[p]
		switch {
		case !ok:
			out = append(out, sms.Result{Phone: p, Success: false, Error: "no delivery report"})
		case status == statusSuccess:
			out = append(out, sms.Result{Phone: p, Success: true})
		default:
			out = append(out, sms.Result{Phone: p, Success: false, Error: status})
		}
	}
	return out
}

func failAll(phones []string, errMsg string) []sms.Result {
	out := make([]sms.Result, 0, len(phones))
	for _, p := range phones {
		out = append(out, sms.Result{Phone: p, Success: false, Error: errMsg})
	}
	return out
}
