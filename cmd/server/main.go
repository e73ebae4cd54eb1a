package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/manilex2/studio-app-functions/core/global"
	"github.com/manilex2/studio-app-functions/core/logger"
	"github.com/manilex2/studio-app-functions/core/worker"
)

// initLogger inicializa y configura el logger para toda la aplicación
func initLogger() {
	// El logger lee las variables de entorno para su configuración
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// startWorkers arranca los workers internos opcionales. El disparador
// principal de ambos procesos sigue siendo el cron externo vía HTTP.
func startWorkers(ctx context.Context) {
	log := logger.GetAppLogger()
	cfg := global.ServerConfig

	if cfg.SyncWorkerEnabled {
		syncWorker, err := worker.NewContificoSyncWorker(0)
		if err != nil {
			log.WithError(err).Error("Failed to create contifico sync worker, continuing without it")
		} else {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("Contifico sync worker goroutine panic")
					}
				}()
				syncWorker.Start(ctx)
			}()
			log.Info("Contifico sync worker started")
		}
	}

	if cfg.ReminderWorkerEnabled {
		reminderWorker, err := worker.NewBookingReminderWorker(0)
		if err != nil {
			log.WithError(err).Error("Failed to create booking reminder worker, continuing without it")
		} else {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("Booking reminder worker goroutine panic")
					}
				}()
				reminderWorker.Start(ctx)
			}()
			log.Info("Booking reminder worker started")
		}
	}
}

// main_thread inicializa y corre el servidor Fiber
func main_thread() {
	app := InitFiberApp()

	cfg := global.ServerConfig
	address := ":" + cfg.Address

	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	listenConfig := fiber.ListenConfig{}
	if err := app.Listen(address, listenConfig); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Función main
func main() {
	// Inicializa el logger
	initLogger()

	// Inicializa las variables globales
	InitGlobal()

	// Inicializa el registry de colecciones
	InitRegistry()

	// Workers internos opcionales (sincronización y recordatorios)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx)

	// Corre el servidor Fiber en el hilo principal
	main_thread()
}
