package router

import (
	"fmt"

	"github.com/manilex2/studio-app-functions/core/api/handler"

	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registra todas las rutas HTTP de la aplicación. Los endpoints
// están pensados para ser invocados por el cron externo y por el panel de
// administración.
func SetupRoutes(app *fiber.App) error {
	contificoHandler, err := handler.NewContificoHandler()
	if err != nil {
		return fmt.Errorf("failed to create contifico handler: %v", err)
	}

	whatsappHandler, err := handler.NewWhatsappHandler()
	if err != nil {
		return fmt.Errorf("failed to create whatsapp handler: %v", err)
	}

	// Sincronización y aprovisionamiento de Contifico
	contifico := app.Group("/contifico")
	contifico.Get("/documentos", contificoHandler.HandleDocumentos)
	contifico.Get("/barrido", contificoHandler.HandleBarrido)
	contifico.Post("/createCategory", contificoHandler.HandleCreateCategory)
	contifico.Post("/createProdServ", contificoHandler.HandleCreateProdServ)
	contifico.Post("/createMovInv", contificoHandler.HandleCreateMovInv)
	contifico.Post("/createUser", contificoHandler.HandleCreateUser)
	contifico.Post("/createDoc", contificoHandler.HandleCreateDoc)

	// Recordatorios de citas por WhatsApp
	whatsapp := app.Group("/whatsapp")
	whatsapp.Get("/notify-two-days-before", whatsappHandler.HandleNotifyTwoDaysBefore)
	whatsapp.Get("/notify-same-day", whatsappHandler.HandleNotifySameDay)

	return nil
}
