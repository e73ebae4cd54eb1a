package dto

// CategoryCreateInput es el input para crear una categoría en Contifico
type CategoryCreateInput struct {
	Category string `json:"category" validate:"required"`             // Nombre de la categoría
	Tipo     string `json:"tipo" validate:"required,oneof=PROD SERV"` // PROD o SERV
}

// ProductServiceCreateInput es el input para crear un producto o servicio en
// Contifico. Las reglas condicionales (sku y compra para PROD) se validan en
// el service para devolver los mensajes de negocio exactos.
type ProductServiceCreateInput struct {
	Nombre      string  `json:"nombre"`      // Nombre del producto/servicio
	Descripcion string  `json:"descripcion"` // Descripción opcional
	Precio      float64 `json:"precio"`      // Precio de venta (pvp1)
	Compra      float64 `json:"compra"`      // Precio de compra, requerido para PROD con stock
	Tipo        string  `json:"tipo"`        // PROD o SERV
	Categoria   string  `json:"categoria"`   // Id de la categoría en Contifico
	Sku         string  `json:"sku"`         // Código, requerido para PROD
	Stock       float64 `json:"stock"`       // Stock inicial; si es > 0 genera un movimiento ING
	Estado      bool    `json:"estado"`      // true activo, false inactivo
}

// MovementDetailInput es una línea de movimiento de inventario
type MovementDetailInput struct {
	ID       string   `json:"id" validate:"required"` // Id del producto en Contifico
	Cantidad float64  `json:"cantidad"`               // Cantidad movida
	Precio   *float64 `json:"precio,omitempty"`       // Precio unitario, requerido para ING
}

// InventoryMovementCreateInput es el input para registrar un movimiento de
// inventario
type InventoryMovementCreateInput struct {
	Tipo           string                `json:"tipo" validate:"required,oneof=ING EGR"`  // ING ingreso, EGR egreso
	ProductDetails []MovementDetailInput `json:"productDetails" validate:"required,dive"` // Líneas del movimiento
	Descripcion    string                `json:"descripcion"`                             // Descripción opcional
}

// ClientCreateInput es el input para crear una persona en Contifico
type ClientCreateInput struct {
	Cedula      string `json:"cedula" validate:"required,cedula"` // Cédula ecuatoriana
	RazonSocial string `json:"razonSocial" validate:"required"`   // Nombre completo o razón social
	Email       string `json:"email" validate:"required,email"`
	Telefono    string `json:"telefono,omitempty" validate:"omitempty,telefono_ec"`
	Direccion   string `json:"direccion,omitempty"`
	EsCliente   bool   `json:"esCliente"`
	EsEmpleado  bool   `json:"esEmpleado"`
	EsVendedor  bool   `json:"esVendedor"`
}

// DocumentDetailInput es una línea de un documento electrónico
type DocumentDetailInput struct {
	ProductoID          string  `json:"productoId" validate:"required"` // Id del producto en Contifico
	Cantidad            float64 `json:"cantidad" validate:"required,gt=0"`
	Precio              float64 `json:"precio" validate:"required,gt=0"`
	PorcentajeIVA       float64 `json:"porcentajeIva"`       // Porcentaje de IVA de la línea
	PorcentajeDescuento float64 `json:"porcentajeDescuento"` // Descuento aplicado
	BaseCero            float64 `json:"baseCero"`            // Base no gravada con IVA
	BaseGravable        float64 `json:"baseGravable"`        // Base gravada con IVA
	BaseNoGravable      float64 `json:"baseNoGravable"`
}

// DocumentCobroInput es un cobro aplicado a un documento electrónico
type DocumentCobroInput struct {
	FormaCobro        string  `json:"formaCobro" validate:"required"` // TC, TRA, EF, etc.
	Monto             float64 `json:"monto" validate:"required,gt=0"`
	NumeroComprobante string  `json:"numeroComprobante,omitempty"`
}

// DocumentCreateInput es el input para emitir un documento electrónico
type DocumentCreateInput struct {
	Documento    string                `json:"documento,omitempty"` // Número EST-PTO-SECUENCIAL, opcional
	Descripcion  string                `json:"descripcion,omitempty"`
	Cliente      ClientCreateInput     `json:"cliente" validate:"required"`
	Detalles     []DocumentDetailInput `json:"detalles" validate:"required,min=1,dive"`
	Cobros       []DocumentCobroInput  `json:"cobros,omitempty" validate:"omitempty,dive"`
	Electronico  bool                  `json:"electronico"`
	Autorizacion string                `json:"autorizacion,omitempty"`
	CajaID       string                `json:"cajaId,omitempty"`
}
