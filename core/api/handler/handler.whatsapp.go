package handler

import (
	"fmt"

	"github.com/manilex2/studio-app-functions/core/api/services"
	"github.com/manilex2/studio-app-functions/core/logger"

	"github.com/gofiber/fiber/v3"
)

// WhatsappHandler expone los recordatorios de citas por WhatsApp sobre HTTP
type WhatsappHandler struct {
	reminderService *services.ReminderService
}

// NewWhatsappHandler crea un nuevo WhatsappHandler
func NewWhatsappHandler() (*WhatsappHandler, error) {
	reminderService, err := services.NewReminderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder service: %v", err)
	}

	return &WhatsappHandler{
		reminderService: reminderService,
	}, nil
}

// HandleNotifyTwoDaysBefore envía los recordatorios de 2 días o menos.
// GET /whatsapp/notify-two-days-before
func (h *WhatsappHandler) HandleNotifyTwoDaysBefore(c fiber.Ctx) error {
	log := logger.WithModule("whatsapp.handler")
	log.Info("Recibida solicitud de recordatorios de 2 días o menos.")

	message, err := h.reminderService.NotifyTwoDaysBefore(c.Context())
	if err != nil {
		log.WithError(err).Error("Error al enviar recordatorios de 2 días")
		return sendError(c, err)
	}

	return sendMessage(c, message)
}

// HandleNotifySameDay envía los recordatorios del mismo día.
// GET /whatsapp/notify-same-day
func (h *WhatsappHandler) HandleNotifySameDay(c fiber.Ctx) error {
	log := logger.WithModule("whatsapp.handler")
	log.Info("Recibida solicitud de recordatorios del mismo día.")

	message, err := h.reminderService.NotifySameDay(c.Context())
	if err != nil {
		log.WithError(err).Error("Error al enviar recordatorios del mismo día")
		return sendError(c, err)
	}

	return sendMessage(c, message)
}
