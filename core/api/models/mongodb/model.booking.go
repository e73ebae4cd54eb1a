package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking - Reserva de cita (colección `bookings`).
// notifWS1/notifWS2 marcan los recordatorios ya enviados (2 días antes y
// mismo día) para que los barridos no re-notifiquen.
type Booking struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Date          *time.Time          `json:"date" bson:"date" index:"single:1"` // Día de la cita
	StartDateTime *time.Time          `json:"startDateTime,omitempty" bson:"startDateTime,omitempty"`
	EndDateTime   *time.Time          `json:"endDateTime,omitempty" bson:"endDateTime,omitempty"`
	ClientUserID  *primitive.ObjectID `json:"clientUserId,omitempty" bson:"clientUserId,omitempty"`
	ServiceID     *primitive.ObjectID `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	AsesorID      *primitive.ObjectID `json:"asesorId,omitempty" bson:"asesorId,omitempty"`
	ServiceName   string              `json:"serviceName,omitempty" bson:"serviceName,omitempty"`
	AsesorName    string              `json:"asesorName,omitempty" bson:"asesorName,omitempty"`
	BookingStatus string              `json:"bookingStatus,omitempty" bson:"bookingStatus,omitempty"`
	NombreCliente string              `json:"nombreCliente,omitempty" bson:"nombreCliente,omitempty"`
	NumeroCliente string              `json:"numeroCliente,omitempty" bson:"numeroCliente,omitempty"` // Teléfono de contacto (WhatsApp)
	Comments      string              `json:"comments,omitempty" bson:"comments,omitempty"`
	Year          int                 `json:"year,omitempty" bson:"year,omitempty"`
	Month         int                 `json:"month,omitempty" bson:"month,omitempty"`
	IsPaid        bool                `json:"isPaid,omitempty" bson:"isPaid,omitempty"`
	IsCancelled   bool                `json:"isCancelled,omitempty" bson:"isCancelled,omitempty"`
	NotifWS1      bool                `json:"notifWS1" bson:"notifWS1"` // Recordatorio de 2 días enviado
	NotifWS2      bool                `json:"notifWS2" bson:"notifWS2"` // Recordatorio del mismo día enviado
}
