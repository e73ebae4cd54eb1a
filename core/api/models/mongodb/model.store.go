package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store - Local (sucursal) del negocio.
// El código de establecimiento es el primer segmento del número de documento
// de Contifico (ej: "001" en "001-002-000000123").
type Store struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre                string             `json:"nombre" bson:"nombre"`
	NumeroEstablecimiento string             `json:"numeroEstablecimiento" bson:"numeroEstablecimiento" index:"single:1"` // Código de establecimiento
	Direccion             string             `json:"direccion,omitempty" bson:"direccion,omitempty"`
	Telefono              string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
}
