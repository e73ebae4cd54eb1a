// Package contifico implementa el cliente HTTP contra la API de Contifico
// (sistema contable externo).
package contifico

import (
	"encoding/json"
	"fmt"
)

// FechaLayout es el formato de fecha que usa la API (DD/MM/YYYY)
const FechaLayout = "02/01/2006"

// Estados de documento contable
const (
	EstadoPendiente = "P"
	EstadoCobrado   = "C"
	EstadoGenerado  = "G"
	EstadoAnulado   = "A"
	EstadoEnviado   = "E"
)

// Formas de cobro
const (
	FormaCobroTarjeta       = "TC"
	FormaCobroTransferencia = "TRA"
)

// Persona es el bloque de vendedor/cliente dentro de un documento y el
// payload de creación de personas.
type Persona struct {
	ID          string `json:"id,omitempty"`
	Tipo        string `json:"tipo,omitempty"` // "N" natural, "J" jurídica
	Cedula      string `json:"cedula,omitempty"`
	RUC         string `json:"ruc,omitempty"`
	RazonSocial string `json:"razon_social,omitempty"`
	Telefonos   string `json:"telefonos,omitempty"`
	Email       string `json:"email,omitempty"`
	Direccion   string `json:"direccion,omitempty"`
	EsCliente   bool   `json:"es_cliente,omitempty"`
	EsEmpleado  bool   `json:"es_empleado,omitempty"`
	EsVendedor  bool   `json:"es_vendedor,omitempty"`
	EsProveedor bool   `json:"es_proveedor,omitempty"`
}

// Detalle es una línea de un documento contable. La API devuelve los campos
// numéricos a veces como string, por eso json.Number.
type Detalle struct {
	ProductoID string      `json:"producto_id"`
	Cantidad   json.Number `json:"cantidad"`
	Precio     json.Number `json:"precio"`

	// Desglose de impuestos, solo para creación de documentos
	PorcentajeIVA       *json.Number `json:"porcentaje_iva,omitempty"`
	PorcentajeDescuento *json.Number `json:"porcentaje_descuento,omitempty"`
	BaseCero            *json.Number `json:"base_cero,omitempty"`
	BaseGravable        *json.Number `json:"base_gravable,omitempty"`
	BaseNoGravable      *json.Number `json:"base_no_gravable,omitempty"`
}

// Cobro es un pago registrado sobre un documento
type Cobro struct {
	FormaCobro        string      `json:"forma_cobro"`
	Fecha             string      `json:"fecha,omitempty"` // DD/MM/YYYY
	Monto             json.Number `json:"monto,omitempty"`
	NumeroComprobante string      `json:"numero_comprobante,omitempty"`
}

// Document es un documento contable (factura) devuelto por
// GET /registro/documento/.
type Document struct {
	ID           string      `json:"id"`
	Documento    string      `json:"documento"` // "EST-PTO-SECUENCIAL"
	FechaEmision string      `json:"fecha_emision"`
	Estado       string      `json:"estado"`
	URLRide      string      `json:"url_ride"`
	Subtotal12   json.Number `json:"subtotal_12"`
	IVA          json.Number `json:"iva"`
	Total        json.Number `json:"total"`
	Vendedor     *Persona    `json:"vendedor"`
	Cliente      *Persona    `json:"cliente"`
	Detalles     []Detalle   `json:"detalles"`
	Cobros       []Cobro     `json:"cobros"`
}

// CategoryPayload es el cuerpo de POST /categoria/
type CategoryPayload struct {
	Nombre       string `json:"nombre"`
	TipoProducto string `json:"tipo_producto"` // PROD o SERV
}

// ProductPayload es el cuerpo de POST /producto/ (productos y servicios)
type ProductPayload struct {
	Tipo        string  `json:"tipo"` // PRO, SER (catálogo) o PROD, SERV (provisión)
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	CategoriaID string  `json:"categoria_id,omitempty"`
	Minimo      int     `json:"minimo"`
	PVP1        float64 `json:"pvp1"`
	Estado      string  `json:"estado"` // A activo, I inactivo
	Codigo      string  `json:"codigo,omitempty"`
}

// Warehouse es una bodega devuelta por GET /bodega/
type Warehouse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// MovementDetail es una línea de movimiento de inventario
type MovementDetail struct {
	ProductoID string   `json:"producto_id"`
	Cantidad   float64  `json:"cantidad"`
	Precio     *float64 `json:"precio,omitempty"`
}

// InventoryMovementPayload es el cuerpo de POST /movimiento-inventario/
type InventoryMovementPayload struct {
	Tipo        string           `json:"tipo"` // ING o EGR
	BodegaID    string           `json:"bodega_id"`
	Detalles    []MovementDetail `json:"detalles"`
	Fecha       string           `json:"fecha"` // DD/MM/YYYY
	Descripcion string           `json:"descripcion"`
}

// DocumentPayload es el cuerpo de POST /documento/ (emisión electrónica)
type DocumentPayload struct {
	POS           string    `json:"pos"` // Token del punto de venta
	FechaEmision  string    `json:"fecha_emision"`
	TipoDocumento string    `json:"tipo_documento"` // "FAC"
	Documento     string    `json:"documento,omitempty"`
	Estado        string    `json:"estado,omitempty"`
	Electronico   bool      `json:"electronico"`
	Autorizacion  string    `json:"autorizacion,omitempty"`
	CajaID        string    `json:"caja_id,omitempty"`
	Cliente       Persona   `json:"cliente"`
	Vendedor      *Persona  `json:"vendedor,omitempty"`
	Descripcion   string    `json:"descripcion,omitempty"`
	Detalles      []Detalle `json:"detalles"`
	Cobros        []Cobro   `json:"cobros,omitempty"`
}

// IDResponse es la respuesta mínima de las operaciones de creación
type IDResponse struct {
	ID string `json:"id"`
}

// APIError es un error devuelto por la API. Algunas respuestas de duplicado
// igual incluyen el id del recurso existente; los consumidores pueden
// tratarlas como éxito.
type APIError struct {
	StatusCode int
	Mensaje    string
	ID         string // Id devuelto junto con el error, si existe
}

func (e *APIError) Error() string {
	if e.Mensaje != "" {
		return fmt.Sprintf("contifico: %s (status %d)", e.Mensaje, e.StatusCode)
	}
	return fmt.Sprintf("contifico: request failed with status %d", e.StatusCode)
}
