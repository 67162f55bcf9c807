// Package logsms es el gateway de desarrollo: loguea cada envío y siempre
// reporta éxito. Es el default del router cuando no hay proveedor configurado.
package logsms

import (
	"context"

	"vet-connect/internal/platform/logger"
	"vet-connect/internal/platform/phone"
	"vet-connect/internal/ports/sms"
)

type Gateway struct {
	log           logger.Logger
	countryPrefix string
}

func New(log logger.Logger, countryPrefix string) *Gateway {
	if log == nil {
		log = logger.Nop{}
	}
	return &Gateway{log: log, countryPrefix: countryPrefix}
}

func (g *Gateway) Send(ctx context.Context, to, message string) sms.Result {
	normalized := phone.Normalize(to, g.countryPrefix)
	g.log.Info("sms (dev, not delivered)", map[string]any{
		"to":  normalized,
		"len": len(message),
	})
	return sms.Result{Phone: normalized, Success: true}
}

func (g *Gateway) SendBulk(ctx context.Context, to []string, message string) []sms.Result {
	// sin throttle: acá no hay proveedor al que respetarle rate limits
	return sms.SequentialBulk(ctx, g, to, message, 0)
}
