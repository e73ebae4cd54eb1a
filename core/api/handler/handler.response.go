package handler

import (
	"errors"

	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/logger"

	"github.com/gofiber/fiber/v3"
)

// sendMessage responde el sobre estándar {message} con status 200
func sendMessage(c fiber.Ctx, message string) error {
	return c.Status(common.StatusOK).JSON(fiber.Map{
		"message": message,
	})
}

// sendError traduce un error de la aplicación al sobre {message} con el
// status que lleva el error; cualquier otro error es un 500 genérico.
func sendError(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(fiber.Map{
			"message": appErr.Message,
		})
	}

	logger.WithError(err).Error("Error no tipificado en el handler")
	return c.Status(common.StatusInternalServerError).JSON(fiber.Map{
		"message": "Error interno del servidor",
	})
}

// parseBody parsea el body JSON al input indicado
func parseBody(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Body(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			"Datos enviados no tienen un formato JSON válido",
			common.StatusBadRequest,
			err,
		)
	}
	return nil
}
