// Package notification define el envío de mensajes salientes a los clientes
// del salón. El despachador es una interfaz para que los services no
// dependan del canal concreto.
package notification

import "context"

// Dispatcher envía un mensaje de texto a un destinatario. "to" es el
// identificador del destinatario en el canal (para WhatsApp, el número en
// formato internacional).
type Dispatcher interface {
	Send(ctx context.Context, to string, message string) error
}
