package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceCategory - Categoría de servicios (colección `categories`).
// El campo del nombre conserva la clave histórica `Categoria`.
type ServiceCategory struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Categoria   string             `json:"categoria" bson:"Categoria"` // Nombre de la categoría
	IDContifico string             `json:"idContifico,omitempty" bson:"idContifico,omitempty" index:"single:1"`
}

// ProductCategory - Categoría de productos (colección `categoriesProducts`).
type ProductCategory struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CategoryName string             `json:"categoryName" bson:"categoryName"` // Nombre de la categoría
	IDContifico  string             `json:"idContifico,omitempty" bson:"idContifico,omitempty" index:"single:1"`
}
