package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceItem - Línea de servicio dentro de un registro facturado
type ServiceItem struct {
	ServiceID  primitive.ObjectID `json:"serviceId" bson:"serviceId"` // Referencia a servicios
	Quantity   float64            `json:"quantity" bson:"quantity"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"`
}

// BilledService - Registro de servicios facturados (colección
// `serviciosFacturados`). Comparte la proyección financiera de Order pero
// lleva líneas de servicio y no tiene workflow de despacho.
type BilledService struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	IDContifico string             `json:"idContifico" bson:"idContifico" index:"unique"`
	OrderDate   *time.Time         `json:"orderDate" bson:"orderDate" index:"single:1;order:-1"`
	UrlRide     *string            `json:"urlRide" bson:"urlRide"`
	OrderStatus string             `json:"orderStatus" bson:"orderStatus" index:"single:1"`
	Subtotal    float64            `json:"subtotal" bson:"subtotal"`
	Tax         float64            `json:"tax" bson:"tax"`
	TotalValue  float64            `json:"totalValue" bson:"totalValue"`

	PaymentTransactionID *string    `json:"paymentTransactionId" bson:"paymentTransactionId"`
	PaymentDate          *time.Time `json:"paymentDate" bson:"paymentDate"`
	PaymentMethods       *string    `json:"paymentMethods" bson:"paymentMethods"`

	ClientUserID *primitive.ObjectID `json:"clientUserId" bson:"clientUserId" index:"single:1"`

	ServiceList []ServiceItem `json:"serviceList" bson:"serviceList"`
}
