package models

// Nombres de secuencias en la colección counters
const (
	CounterOrderNumber = "orderNumber"
)

// Counter - Secuencia atómica (colección `counters`).
// Los números de orden se obtienen con FindOneAndUpdate + $inc sobre seq,
// nunca consultando el máximo existente.
type Counter struct {
	ID  string `json:"id" bson:"_id"` // Nombre de la secuencia
	Seq int64  `json:"seq" bson:"seq"`
}
