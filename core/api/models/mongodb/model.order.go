package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de orden derivados del estado del documento contable
const (
	OrderStatusPagoPendiente  = "Pago_Pendiente"
	OrderStatusPagoPorValidar = "Pago_Por_Validar"
	OrderStatusEnProceso      = "En_proceso"
	OrderStatusCancelado      = "Cancelado"
	OrderStatusEnviado        = "Enviado"
	OrderStatusCompletado     = "Completado"
)

// Formas de pago normalizadas
const (
	PaymentMethodCreditCard   = "creditCard"
	PaymentMethodBankTransfer = "bankTransfer"
	PaymentMethodPayInStore   = "payInStore"
)

// OrderItem - Línea de producto dentro de una orden
type OrderItem struct {
	ProductID  primitive.ObjectID `json:"productId" bson:"productId"` // Referencia a productos
	Quantity   float64            `json:"quantity" bson:"quantity"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"` // precio * cantidad de la línea
}

// Order - Orden facturada con al menos una línea de producto (colección
// `orders`). idContifico es la clave de idempotencia: un documento contable
// produce como máximo una orden.
type Order struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	IDContifico string             `json:"idContifico" bson:"idContifico" index:"unique"` // Id del documento en Contifico
	OrderDate   *time.Time         `json:"orderDate" bson:"orderDate" index:"single:1;order:-1"`
	UrlRide     *string            `json:"urlRide" bson:"urlRide"` // URL del RIDE (comprobante PDF)
	OrderStatus string             `json:"orderStatus" bson:"orderStatus" index:"single:1"`
	Subtotal    float64            `json:"subtotal" bson:"subtotal"`
	Tax         float64            `json:"tax" bson:"tax"`
	TotalValue  float64            `json:"totalValue" bson:"totalValue"`

	// Datos del primer cobro registrado (null si no hay cobros)
	PaymentTransactionID *string    `json:"paymentTransactionId" bson:"paymentTransactionId"`
	PaymentDate          *time.Time `json:"paymentDate" bson:"paymentDate"`
	PaymentMethods       *string    `json:"paymentMethods" bson:"paymentMethods"`

	ClientUserID *primitive.ObjectID `json:"clientUserId" bson:"clientUserId" index:"single:1"`

	ProductsList []OrderItem `json:"productsList" bson:"productsList"`
	OrderNumber  int64       `json:"orderNumber" bson:"orderNumber"` // Secuencial, asignado al crear

	// Workflow de despacho; solo se materializa al crear, nunca se pisa en
	// actualizaciones del pipeline
	TransferProofImage         *string             `json:"transferProofImage" bson:"transferProofImage"`
	TransferValidationBy       *primitive.ObjectID `json:"transferValidationBy" bson:"transferValidationBy"`
	TransferValidationComments *string             `json:"transferValidationComments" bson:"transferValidationComments"`
	ShippingMethod             string              `json:"shippingMethod" bson:"shippingMethod"` // "pickup" por defecto
	ShippingAddress            *string             `json:"shippingAddress" bson:"shippingAddress"`
	ShippingCost               float64             `json:"shippingCost" bson:"shippingCost"`
	PromoCode                  *string             `json:"promoCode" bson:"promoCode"`
	InternalNote               []string            `json:"internalNote" bson:"internalNote"`

	// Fechas del ciclo de vida, todas null al crear
	ProcessedDate      *time.Time `json:"processedDate" bson:"processedDate"`
	ReadyForPickupDate *time.Time `json:"readyForPickupDate" bson:"readyForPickupDate"`
	ShippedDate        *time.Time `json:"shippedDate" bson:"shippedDate"`
	DeliveryDate       *time.Time `json:"deliveryDate" bson:"deliveryDate"`
	CompletedDate      *time.Time `json:"completedDate" bson:"completedDate"`
	PickUpDate         *time.Time `json:"pickUpDate" bson:"pickUpDate"`
}
