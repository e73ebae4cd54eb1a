package services

import (
	"context"
	"fmt"
	"time"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/global"
	"github.com/manilex2/studio-app-functions/core/logger"
	"github.com/manilex2/studio-app-functions/core/notification"
	"github.com/manilex2/studio-app-functions/core/notification/channels"
)

// diasSemana y meses para formatear fechas en español
var diasSemana = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var meses = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// ReminderService envía recordatorios de citas por WhatsApp: uno con dos
// días o menos de antelación y otro el mismo día de la cita.
type ReminderService struct {
	bookings   *BookingService
	dispatcher notification.Dispatcher
}

// NewReminderService crea un ReminderService con el canal de WhatsApp
// configurado desde las variables de entorno.
func NewReminderService() (*ReminderService, error) {
	cfg := global.ServerConfig
	dispatcher := channels.NewWhatsAppChannel(cfg.WhatsAppAPIToken, cfg.WhatsAppPhoneNumberID)
	return NewReminderServiceWithDispatcher(dispatcher)
}

// NewReminderServiceWithDispatcher crea el service con un despachador ya
// construido.
func NewReminderServiceWithDispatcher(dispatcher notification.Dispatcher) (*ReminderService, error) {
	bookings, err := NewBookingService()
	if err != nil {
		return nil, err
	}

	return &ReminderService{
		bookings:   bookings,
		dispatcher: dispatcher,
	}, nil
}

// NotifyTwoDaysBefore envía el recordatorio a las reservas con cita entre
// hoy y dos días en adelante que aún no lo recibieron.
func (s *ReminderService) NotifyTwoDaysBefore(ctx context.Context) (string, error) {
	log := logger.WithModule("whatsapp.reminder")
	log.Info("Iniciando verificación de reservas para notificación de 2 días o menos")

	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)

	desde := startOfDay(now)
	hasta := endOfDay(now.AddDate(0, 0, 2))

	pendientes, err := s.bookings.FindPendingReminder(ctx, desde, hasta, "notifWS1")
	if err != nil {
		return "", err
	}

	exitos, fallos := 0, 0
	for _, booking := range pendientes {
		if booking.Date == nil || booking.NumeroCliente == "" {
			log.WithField("booking", booking.ID.Hex()).
				Warn("Reserva omitida por datos incompletos (fecha o número de cliente)")
			continue
		}

		fecha := formatFechaLarga(booking.Date.In(loc))
		mensaje := fmt.Sprintf(
			"¡Hola %s! Te recordamos tu cita de %s en 2 días o menos, el %s. ¡Te esperamos!",
			nombreODefecto(booking.NombreCliente), servicioODefecto(booking.ServiceName), fecha,
		)

		if err := s.notify(ctx, booking, mensaje, "notifWS1"); err != nil {
			log.WithError(err).WithField("booking", booking.ID.Hex()).
				Error("Error procesando reserva para notificación de 2 días")
			fallos++
			continue
		}
		exitos++
	}

	resumen := fmt.Sprintf("Proceso de notificación de 2 días o menos completado. Éxitos: %d, Fallos: %d.", exitos, fallos)
	log.Info(resumen)
	return resumen, nil
}

// NotifySameDay envía el recordatorio a las reservas con cita hoy que aún no
// lo recibieron.
func (s *ReminderService) NotifySameDay(ctx context.Context) (string, error) {
	log := logger.WithModule("whatsapp.reminder")
	log.Info("Iniciando verificación de reservas para notificación del mismo día")

	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)

	pendientes, err := s.bookings.FindPendingReminder(ctx, startOfDay(now), endOfDay(now), "notifWS2")
	if err != nil {
		return "", err
	}

	exitos, fallos := 0, 0
	for _, booking := range pendientes {
		if booking.Date == nil || booking.NumeroCliente == "" {
			log.WithField("booking", booking.ID.Hex()).
				Warn("Reserva omitida por datos incompletos (fecha o número de cliente)")
			continue
		}

		hora := "la hora programada"
		if booking.StartDateTime != nil {
			hora = booking.StartDateTime.In(loc).Format("3:04 PM")
		}
		mensaje := fmt.Sprintf(
			"¡Hola %s! Solo un recordatorio rápido: tienes tu cita de %s hoy a las %s. ¡Te esperamos!",
			nombreODefecto(booking.NombreCliente), servicioODefecto(booking.ServiceName), hora,
		)

		if err := s.notify(ctx, booking, mensaje, "notifWS2"); err != nil {
			log.WithError(err).WithField("booking", booking.ID.Hex()).
				Error("Error procesando reserva para notificación del mismo día")
			fallos++
			continue
		}
		exitos++
	}

	resumen := fmt.Sprintf("Proceso de notificación del mismo día completado. Éxitos: %d, Fallos: %d.", exitos, fallos)
	log.Info(resumen)
	return resumen, nil
}

// notify despacha el mensaje y marca el flag de enviado
func (s *ReminderService) notify(ctx context.Context, booking models.Booking, mensaje, flagField string) error {
	if err := s.dispatcher.Send(ctx, booking.NumeroCliente, mensaje); err != nil {
		return err
	}
	return s.bookings.MarkReminderSent(ctx, booking, flagField)
}

func nombreODefecto(nombre string) string {
	if nombre == "" {
		return "cliente"
	}
	return nombre
}

func servicioODefecto(servicio string) string {
	if servicio == "" {
		return "servicio"
	}
	return servicio
}

// formatFechaLarga devuelve la fecha en formato largo en español, por
// ejemplo "lunes 2 de septiembre"
func formatFechaLarga(t time.Time) string {
	return fmt.Sprintf("%s %d de %s", diasSemana[t.Weekday()], t.Day(), meses[t.Month()-1])
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
