package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product - Producto del catálogo (colección `productos`).
// idContifico es la referencia cruzada contra el sistema contable; las líneas
// de factura se enrutan primero contra esta colección.
type Product struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre      string              `json:"nombre" bson:"nombre"`
	Descripcion string              `json:"descripcion,omitempty" bson:"descripcion,omitempty"`
	Precio      float64             `json:"precio" bson:"precio"`
	Sku         string              `json:"sku,omitempty" bson:"sku,omitempty"`
	IDContifico string              `json:"idContifico,omitempty" bson:"idContifico,omitempty" index:"single:1"`
	RefCategory *primitive.ObjectID `json:"refCategory,omitempty" bson:"refCategory,omitempty"` // Referencia a categoriesProducts
}
