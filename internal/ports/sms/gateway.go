package sms

import (
	"context"
	"time"
)

// Result es el resultado de un envío a un destinatario.
// Phone es el número ya normalizado (o el crudo si ni siquiera se intentó).
// Las fallas por destinatario son datos, no errores: el caller decide qué
// hacer con ellas.
type Result struct {
	Phone   string
	Success bool
	Error   string
}

// Sender envía un único SMS.
type Sender interface {
	Send(ctx context.Context, to, message string) Result
}

// Gateway unifica los dos tipos de proveedor: los que tienen endpoint bulk
// nativo y los que solo envían de a uno. SendBulk devuelve siempre un Result
// por destinatario, alineado por índice con la entrada.
type Gateway interface {
	Sender
	SendBulk(ctx context.Context, to []string, message string) []Result
}

// SequentialBulk es el SendBulk por defecto para proveedores sin bulk nativo:
// envía secuencialmente con una pausa fija entre envíos cuando hay más de un
// destinatario (rate limit del proveedor). Una falla no aborta el resto.
// La cancelación de ctx solo se observa entre envíos; un batch empezado corre
// hasta el final salvo cancelación explícita.
func SequentialBulk(ctx context.Context, s Sender, to []string, message string, delay time.Duration) []Result {
	out := make([]Result, 0, len(to))

	for i, phone := range to {
		if i > 0 && len(to) > 1 && delay > 0 {
			select {
			case <-ctx.Done():
				out = append(out, Result{Phone: phone, Success: false, Error: ctx.Err().Error()})
				continue
			case <-time.After(delay):
			}
		}
		out = append(out, s.Send(ctx, phone, message))
	}

	return out
}
