package handler

import (
	"fmt"

	"github.com/manilex2/studio-app-functions/core/api/dto"
	"github.com/manilex2/studio-app-functions/core/api/services"
	"github.com/manilex2/studio-app-functions/core/logger"

	"github.com/gofiber/fiber/v3"
)

// ContificoHandler expone la sincronización y el aprovisionamiento de
// Contifico sobre HTTP. El disparador habitual es un cron externo.
type ContificoHandler struct {
	syncService      *services.ContificoSyncService
	provisionService *services.ContificoProvisionService
	backfillService  *services.ContificoBackfillService
}

// NewContificoHandler crea un nuevo ContificoHandler
func NewContificoHandler() (*ContificoHandler, error) {
	syncService, err := services.NewContificoSyncService()
	if err != nil {
		return nil, fmt.Errorf("failed to create contifico sync service: %v", err)
	}

	backfillService, err := services.NewContificoBackfillService()
	if err != nil {
		return nil, fmt.Errorf("failed to create contifico backfill service: %v", err)
	}

	return &ContificoHandler{
		syncService:      syncService,
		provisionService: services.NewContificoProvisionService(),
		backfillService:  backfillService,
	}, nil
}

// HandleDocumentos sincroniza los documentos contables del día.
// GET /contifico/documentos
func (h *ContificoHandler) HandleDocumentos(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para obtener los documentos de Contifico.")

	message, err := h.syncService.SynchronizeDailyDocuments(c.Context())
	if err != nil {
		log.WithError(err).Error("Error al obtener los documentos de Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, message)
}

// HandleCreateCategory crea una categoría en Contifico.
// POST /contifico/createCategory
func (h *ContificoHandler) HandleCreateCategory(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para crear la categoría en Contifico.")

	var input dto.CategoryCreateInput
	if err := parseBody(c, &input); err != nil {
		return sendError(c, err)
	}

	id, err := h.provisionService.CreateCategory(c.Context(), input)
	if err != nil {
		log.WithError(err).Error("Error al crear categoría en Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, id)
}

// HandleCreateProdServ crea un producto o servicio en Contifico.
// POST /contifico/createProdServ
func (h *ContificoHandler) HandleCreateProdServ(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para crear el producto/servicio en Contifico.")

	var input dto.ProductServiceCreateInput
	if err := parseBody(c, &input); err != nil {
		return sendError(c, err)
	}

	id, err := h.provisionService.CreateProductOrService(c.Context(), input)
	if err != nil {
		log.WithError(err).Error("Error al crear producto/servicio en Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, id)
}

// HandleCreateMovInv registra un movimiento de inventario en Contifico.
// POST /contifico/createMovInv
func (h *ContificoHandler) HandleCreateMovInv(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para crear el movimiento de inventario en Contifico.")

	var input dto.InventoryMovementCreateInput
	if err := parseBody(c, &input); err != nil {
		return sendError(c, err)
	}

	if err := h.provisionService.CreateInventoryMovement(c.Context(), input); err != nil {
		log.WithError(err).Error("Error al crear movimiento en el inventario en Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, "Movimiento de inventario registrado correctamente")
}

// HandleCreateUser crea una persona en Contifico.
// POST /contifico/createUser
func (h *ContificoHandler) HandleCreateUser(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para crear el usuario dentro de Contifico.")

	var input dto.ClientCreateInput
	if err := parseBody(c, &input); err != nil {
		return sendError(c, err)
	}

	id, err := h.provisionService.CreateClient(c.Context(), input)
	if err != nil {
		log.WithError(err).Error("Error al crear usuario en Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, id)
}

// HandleCreateDoc emite un documento electrónico en Contifico.
// POST /contifico/createDoc
func (h *ContificoHandler) HandleCreateDoc(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para crear el documento en Contifico.")

	var input dto.DocumentCreateInput
	if err := parseBody(c, &input); err != nil {
		return sendError(c, err)
	}

	id, err := h.provisionService.CreateElectronicDocument(c.Context(), input)
	if err != nil {
		log.WithError(err).Error("Error al crear el documento en Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, id)
}

// HandleBarrido ejecuta el barrido de catálogo hacia Contifico.
// GET /contifico/barrido
func (h *ContificoHandler) HandleBarrido(c fiber.Ctx) error {
	log := logger.WithModule("contifico.handler")
	log.Info("Recibida solicitud para ejecutar el barrido de catálogo de Contifico.")

	message, err := h.backfillService.SynchronizeCatalog(c.Context())
	if err != nil {
		log.WithError(err).Error("Error durante el barrido de catálogo de Contifico")
		return sendError(c, err)
	}

	return sendMessage(c, message)
}
