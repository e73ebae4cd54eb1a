package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service - Servicio del catálogo (colección `servicios`).
// La referencia de categoría conserva la clave histórica `RefCategoria`.
type Service struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre       string              `json:"nombre" bson:"nombre"`
	Descripcion  string              `json:"descripcion,omitempty" bson:"descripcion,omitempty"`
	Precio       float64             `json:"precio" bson:"precio"`
	Sku          string              `json:"sku,omitempty" bson:"sku,omitempty"`
	IDContifico  string              `json:"idContifico,omitempty" bson:"idContifico,omitempty" index:"single:1"`
	RefCategoria *primitive.ObjectID `json:"refCategoria,omitempty" bson:"RefCategoria,omitempty"` // Referencia a categories
}
