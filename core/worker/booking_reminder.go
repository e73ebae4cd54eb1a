package worker

import (
	"context"
	"time"

	"github.com/manilex2/studio-app-functions/core/api/services"
	"github.com/manilex2/studio-app-functions/core/logger"
)

// BookingReminderWorker ejecuta los recordatorios de citas como proceso
// interno. Igual que el de sincronización, es opcional frente al cron
// externo.
type BookingReminderWorker struct {
	reminderService *services.ReminderService
	interval        time.Duration
}

// NewBookingReminderWorker crea un nuevo BookingReminderWorker
func NewBookingReminderWorker(interval time.Duration) (*BookingReminderWorker, error) {
	reminderService, err := services.NewReminderService()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = 24 * time.Hour
	}

	return &BookingReminderWorker{
		reminderService: reminderService,
		interval:        interval,
	}, nil
}

// Start corre el worker hasta que el contexto se cancele
func (w *BookingReminderWorker) Start(ctx context.Context) {
	log := logger.WithModule("worker.reminder")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("Iniciando worker de recordatorios de citas")

	for {
		select {
		case <-ctx.Done():
			log.Info("Worker de recordatorios de citas detenido")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithField("panic", r).Error("Panic en los recordatorios, se reintenta en la próxima corrida")
					}
				}()

				if message, err := w.reminderService.NotifyTwoDaysBefore(ctx); err != nil {
					log.WithError(err).Error("Falló el recordatorio de 2 días")
				} else {
					log.Info(message)
				}

				if message, err := w.reminderService.NotifySameDay(ctx); err != nil {
					log.WithError(err).Error("Falló el recordatorio del mismo día")
				} else {
					log.Info(message)
				}
			}()
		}
	}
}
