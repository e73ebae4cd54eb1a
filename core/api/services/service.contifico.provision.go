package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manilex2/studio-app-functions/core/api/dto"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/contifico"
	"github.com/manilex2/studio-app-functions/core/global"
	"github.com/manilex2/studio-app-functions/core/logger"
)

// ContificoProvisionService crea recursos en Contifico a pedido de la
// aplicación: categorías, productos, movimientos de inventario, personas y
// documentos electrónicos.
type ContificoProvisionService struct {
	client *contifico.Client
}

// NewContificoProvisionService crea un nuevo ContificoProvisionService
func NewContificoProvisionService() *ContificoProvisionService {
	cfg := global.ServerConfig
	return &ContificoProvisionService{
		client: contifico.NewClient(cfg.ContificoURI, cfg.ContificoAuthToken, cfg.ContificoAPIKey),
	}
}

// NewContificoProvisionServiceWithClient crea el service con un cliente ya
// construido
func NewContificoProvisionServiceWithClient(client *contifico.Client) *ContificoProvisionService {
	return &ContificoProvisionService{client: client}
}

// CreateCategory crea una categoría en Contifico y devuelve su id
func (s *ContificoProvisionService) CreateCategory(ctx context.Context, input dto.CategoryCreateInput) (string, error) {
	if err := global.Validate.Struct(input); err != nil {
		return "", common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	id, err := s.client.CreateCategory(ctx, contifico.CategoryPayload{
		Nombre:       input.Category,
		TipoProducto: input.Tipo,
	})
	if err != nil {
		return "", wrapContificoError(err)
	}

	return id, nil
}

// CreateProductOrService crea un producto o servicio en Contifico. Cuando el
// producto trae stock inicial se encadena un movimiento de ingreso (ING) con
// el precio de compra.
func (s *ContificoProvisionService) CreateProductOrService(ctx context.Context, input dto.ProductServiceCreateInput) (string, error) {
	if err := validateProductServiceInput(input); err != nil {
		return "", err
	}

	estado := "I"
	if input.Estado {
		estado = "A"
	}

	id, err := s.client.CreateProduct(ctx, contifico.ProductPayload{
		Tipo:        input.Tipo,
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		CategoriaID: input.Categoria,
		Minimo:      1,
		PVP1:        input.Precio,
		Estado:      estado,
		Codigo:      input.Sku,
	})
	if err != nil {
		return "", wrapContificoError(err)
	}

	// Sin stock inicial no se registra movimiento de inventario
	if input.Stock <= 0 {
		return id, nil
	}

	compra := input.Compra
	err = s.CreateInventoryMovement(ctx, dto.InventoryMovementCreateInput{
		Tipo: "ING",
		ProductDetails: []dto.MovementDetailInput{
			{ID: id, Cantidad: input.Stock, Precio: &compra},
		},
		Descripcion: "Ingreso de Inventario",
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// CreateInventoryMovement registra un movimiento de inventario. La bodega se
// resuelve consultando GET /bodega/ y tomando la primera.
func (s *ContificoProvisionService) CreateInventoryMovement(ctx context.Context, input dto.InventoryMovementCreateInput) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	if input.Tipo == "ING" {
		for _, detail := range input.ProductDetails {
			if detail.Precio == nil {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("El producto/servicio con ID %s debe tener un precio para un movimiento de ingreso (ING).", detail.ID),
					common.StatusBadRequest,
					nil,
				)
			}
			if *detail.Precio <= 0 {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("El precio del producto/servicio con ID %s no puede ser negativo o 0.", detail.ID),
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	warehouses, err := s.client.ListWarehouses(ctx)
	if err != nil {
		return wrapContificoError(err)
	}
	if len(warehouses) == 0 || warehouses[0].ID == "" {
		return common.NewError(
			common.ErrCodeValidationInput,
			"No se encontró una bodega para registrar el movimiento de inventario",
			common.StatusBadRequest,
			nil,
		)
	}

	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return err
	}

	detalles := make([]contifico.MovementDetail, 0, len(input.ProductDetails))
	for _, detail := range input.ProductDetails {
		detalles = append(detalles, contifico.MovementDetail{
			ProductoID: detail.ID,
			Cantidad:   detail.Cantidad,
			Precio:     detail.Precio,
		})
	}

	descripcion := input.Descripcion
	if descripcion == "" {
		descripcion = "Movimiento de inventario"
	}

	err = s.client.CreateInventoryMovement(ctx, contifico.InventoryMovementPayload{
		Tipo:        input.Tipo,
		BodegaID:    warehouses[0].ID,
		Detalles:    detalles,
		Fecha:       time.Now().In(loc).Format(contifico.FechaLayout),
		Descripcion: descripcion,
	})
	if err != nil {
		return wrapContificoError(err)
	}

	logger.WithModule("contifico.provision").
		WithField("tipo", input.Tipo).
		WithField("lineas", len(detalles)).
		Info("Movimiento de inventario registrado en Contifico")
	return nil
}

// CreateClient crea una persona natural en Contifico y devuelve su id
func (s *ContificoProvisionService) CreateClient(ctx context.Context, input dto.ClientCreateInput) (string, error) {
	if err := global.Validate.Struct(input); err != nil {
		return "", common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	id, err := s.client.CreatePerson(ctx, contifico.Persona{
		Tipo:        "N",
		Cedula:      input.Cedula,
		Telefonos:   input.Telefono,
		Email:       input.Email,
		Direccion:   input.Direccion,
		RazonSocial: input.RazonSocial,
		EsCliente:   input.EsCliente,
		EsEmpleado:  input.EsEmpleado,
		EsVendedor:  input.EsVendedor,
		EsProveedor: false,
	})
	if err != nil {
		// Contifico responde el duplicado con el id de la persona ya
		// registrada; se confirma que exista y se reutiliza ese id
		if dupID := duplicateID(err); dupID != "" {
			if persona, getErr := s.client.GetPerson(ctx, dupID); getErr == nil && persona != nil {
				logger.WithModule("contifico.provision").
					WithField("personaId", dupID).
					Info("Persona ya registrada en Contifico, se reutiliza el id existente")
				return dupID, nil
			}
		}
		return "", wrapContificoError(err)
	}

	return id, nil
}

// CreateElectronicDocument emite un documento electrónico (factura) en
// Contifico y devuelve su id
func (s *ContificoProvisionService) CreateElectronicDocument(ctx context.Context, input dto.DocumentCreateInput) (string, error) {
	if err := global.Validate.Struct(input); err != nil {
		return "", common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return "", err
	}
	hoy := time.Now().In(loc).Format(contifico.FechaLayout)

	detalles := make([]contifico.Detalle, 0, len(input.Detalles))
	for _, d := range input.Detalles {
		detalle := contifico.Detalle{
			ProductoID: d.ProductoID,
			Cantidad:   floatToNumber(d.Cantidad),
			Precio:     floatToNumber(d.Precio),
		}
		porcentajeIVA := floatToNumber(d.PorcentajeIVA)
		porcentajeDesc := floatToNumber(d.PorcentajeDescuento)
		baseCero := floatToNumber(d.BaseCero)
		baseGravable := floatToNumber(d.BaseGravable)
		baseNoGravable := floatToNumber(d.BaseNoGravable)
		detalle.PorcentajeIVA = &porcentajeIVA
		detalle.PorcentajeDescuento = &porcentajeDesc
		detalle.BaseCero = &baseCero
		detalle.BaseGravable = &baseGravable
		detalle.BaseNoGravable = &baseNoGravable
		detalles = append(detalles, detalle)
	}

	cobros := make([]contifico.Cobro, 0, len(input.Cobros))
	for _, c := range input.Cobros {
		cobros = append(cobros, contifico.Cobro{
			FormaCobro:        c.FormaCobro,
			Fecha:             hoy,
			Monto:             floatToNumber(c.Monto),
			NumeroComprobante: c.NumeroComprobante,
		})
	}

	id, err := s.client.CreateDocument(ctx, contifico.DocumentPayload{
		POS:           global.ServerConfig.ContificoAuthToken,
		FechaEmision:  hoy,
		TipoDocumento: "FAC",
		Documento:     input.Documento,
		Electronico:   input.Electronico,
		Autorizacion:  input.Autorizacion,
		CajaID:        input.CajaID,
		Cliente: contifico.Persona{
			Tipo:        "N",
			Cedula:      input.Cliente.Cedula,
			Telefonos:   input.Cliente.Telefono,
			Email:       input.Cliente.Email,
			Direccion:   input.Cliente.Direccion,
			RazonSocial: input.Cliente.RazonSocial,
			EsCliente:   true,
		},
		Descripcion: input.Descripcion,
		Detalles:    detalles,
		Cobros:      cobros,
	})
	if err != nil {
		return "", wrapContificoError(err)
	}

	return id, nil
}

// validateProductServiceInput aplica las reglas de negocio de creación de
// productos y servicios con sus mensajes exactos
func validateProductServiceInput(input dto.ProductServiceCreateInput) error {
	badRequest := func(message string) error {
		return common.NewError(common.ErrCodeValidationInput, message, common.StatusBadRequest, nil)
	}

	if input.Precio <= 0 {
		return badRequest("El precio debe ser mayor a 0 para registrar el producto/servicio")
	}
	if input.Tipo == "" {
		return badRequest("El tipo de producto/servicio es obligatorio para registrar el producto/servicio")
	}
	if input.Categoria == "" {
		return badRequest("La categoría del producto/servicio es obligatoria para registrar el producto/servicio")
	}
	if input.Tipo != "PROD" && input.Tipo != "SERV" {
		return badRequest(`El tipo de producto/servicio debe ser "PROD" o "SERV"`)
	}
	if input.Tipo == "PROD" && input.Sku == "" {
		return badRequest("El SKU del producto es obligatorio para registrar el producto")
	}
	if input.Tipo == "PROD" && input.Compra <= 0 {
		return badRequest("El precio de compra debe ser mayor a 0 para registrar el movimiento de inventario")
	}
	if input.Nombre == "" {
		return badRequest("El nombre del producto/servicio es obligatorio para registrar el producto/servicio")
	}

	return nil
}

// wrapContificoError traduce un error del cliente de Contifico al error común
// de la aplicación, conservando el mensaje y el status del upstream
func wrapContificoError(err error) error {
	var apiErr *contifico.APIError
	if errors.As(err, &apiErr) {
		mensaje := apiErr.Mensaje
		if mensaje == "" {
			mensaje = "Error al comunicarse con Contifico"
		}
		return common.NewExternalError(mensaje, apiErr.StatusCode, err)
	}

	var appErr *common.Error
	if errors.As(err, &appErr) {
		return err
	}

	return common.NewExternalError("", common.StatusInternalServerError, err)
}
