package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MonthlyStatistic - Bucket de contadores mensuales (colección
// `monthlyStatistics`). La clave de dimensión son (year, month) más las cinco
// referencias: todas null = bucket global; como máximo una no-null. El index
// compuesto único garantiza un solo bucket por clave; los incrementos se
// aplican con $inc sobre el filtro completo de la clave.
type MonthlyStatistic struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Year  int                `json:"year" bson:"year" index:"compound:dimension_unique"`
	Month int                `json:"month" bson:"month" index:"compound:dimension_unique"`

	StoreRef   *primitive.ObjectID `json:"storeRef" bson:"storeRef" index:"compound:dimension_unique"`
	AsesorRef  *primitive.ObjectID `json:"asesorRef" bson:"asesorRef" index:"compound:dimension_unique"`
	ClientRef  *primitive.ObjectID `json:"clientRef" bson:"clientRef" index:"compound:dimension_unique"`
	ProductRef *primitive.ObjectID `json:"productRef" bson:"productRef" index:"compound:dimension_unique"`
	ServiceRef *primitive.ObjectID `json:"serviceRef" bson:"serviceRef" index:"compound:dimension_unique"`

	ProductTotalValue float64 `json:"productTotalValue" bson:"productTotalValue"` // Ingresos por productos
	ServiceTotalValue float64 `json:"serviceTotalValue" bson:"serviceTotalValue"` // Ingresos por servicios
	ProductCount      float64 `json:"productCount" bson:"productCount"`           // Unidades de producto
	ServiceCount      float64 `json:"serviceCount" bson:"serviceCount"`           // Unidades de servicio
	TotalValue        float64 `json:"totalValue" bson:"totalValue"`               // Ingresos totales
	TotalTransactions int64   `json:"totalTransactions" bson:"totalTransactions"` // Líneas o documentos contados

	LastUpdate time.Time `json:"lastUpdate" bson:"lastUpdate"`
}
