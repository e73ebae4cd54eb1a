package worker

import (
	"context"
	"time"

	"github.com/manilex2/studio-app-functions/core/api/services"
	"github.com/manilex2/studio-app-functions/core/logger"
)

// ContificoSyncWorker ejecuta la sincronización diaria de documentos como
// proceso interno. Es opcional: el disparador principal sigue siendo el cron
// externo que llama a GET /contifico/documentos.
type ContificoSyncWorker struct {
	syncService *services.ContificoSyncService
	interval    time.Duration
}

// NewContificoSyncWorker crea un nuevo ContificoSyncWorker
func NewContificoSyncWorker(interval time.Duration) (*ContificoSyncWorker, error) {
	syncService, err := services.NewContificoSyncService()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = 24 * time.Hour
	}

	return &ContificoSyncWorker{
		syncService: syncService,
		interval:    interval,
	}, nil
}

// Start corre el worker hasta que el contexto se cancele
func (w *ContificoSyncWorker) Start(ctx context.Context) {
	log := logger.WithModule("worker.contifico")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("Iniciando worker de sincronización de Contifico")

	for {
		select {
		case <-ctx.Done():
			log.Info("Worker de sincronización de Contifico detenido")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithField("panic", r).Error("Panic en la sincronización, se reintenta en la próxima corrida")
					}
				}()

				message, err := w.syncService.SynchronizeDailyDocuments(ctx)
				if err != nil {
					log.WithError(err).Error("Falló la sincronización de documentos")
					return
				}
				log.Info(message)
			}()
		}
	}
}
