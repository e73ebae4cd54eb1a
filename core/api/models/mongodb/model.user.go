package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - Usuario del sistema (cliente, asesor o administrativo).
// El pipeline de conciliación lo consulta en modo lectura por cédula.
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Cedula      string             `json:"cedula,omitempty" bson:"cedula,omitempty" index:"unique,sparse"` // Cédula de identidad (única cuando existe)
	DisplayName string             `json:"displayName" bson:"display_name"`                               // Nombre para mostrar
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Telefono    string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Direccion   string             `json:"direccion,omitempty" bson:"direccion,omitempty"`
	RolName     string             `json:"rolName" bson:"rolName" index:"single:1"` // "Cliente", "Asesor" o rol administrativo
	IDContifico string             `json:"idContifico,omitempty" bson:"idContifico,omitempty" index:"single:1"`
	RegCompRRSS *bool              `json:"regCompRRSS,omitempty" bson:"regCompRRSS,omitempty"` // Registro completo (cédula presente para no-clientes)
	CreatedAt   int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
