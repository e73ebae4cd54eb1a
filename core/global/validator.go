package global

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitValidator inicializa el validador y registra los custom validators
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("cedula", validateCedula)
	_ = Validate.RegisterValidation("ruc", validateRUC)
	_ = Validate.RegisterValidation("telefono_ec", validateTelefonoEC)
	_ = Validate.RegisterValidation("exists", validateExists)
}

// validateCedula verifica una cédula ecuatoriana: 10 dígitos, código de
// provincia válido y dígito verificador por módulo 10.
func validateCedula(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // campo opcional con omitempty
	}
	return esCedulaValida(value)
}

// validateRUC verifica un RUC de persona natural: cédula válida seguida del
// sufijo de establecimiento 001.
func validateRUC(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 13 || !strings.HasSuffix(value, "001") {
		return false
	}
	return esCedulaValida(value[:10])
}

func esCedulaValida(cedula string) bool {
	if len(cedula) != 10 {
		return false
	}
	for _, r := range cedula {
		if r < '0' || r > '9' {
			return false
		}
	}

	// Los dos primeros dígitos codifican la provincia (01-24, 30 para exterior)
	provincia, _ := strconv.Atoi(cedula[:2])
	if (provincia < 1 || provincia > 24) && provincia != 30 {
		return false
	}

	// Dígito verificador por coeficientes 2,1,2,1,... módulo 10
	suma := 0
	for i := 0; i < 9; i++ {
		digito := int(cedula[i] - '0')
		if i%2 == 0 {
			digito *= 2
			if digito > 9 {
				digito -= 9
			}
		}
		suma += digito
	}
	verificador := (10 - suma%10) % 10
	return verificador == int(cedula[9]-'0')
}

// validateTelefonoEC verifica un teléfono ecuatoriano en formato local
// (09xxxxxxxx) o internacional (+5939xxxxxxxx).
func validateTelefonoEC(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	telefonoRegex := regexp.MustCompile(`^(\+593|0)[2-9][0-9]{7,8}$`)
	return telefonoRegex.MatchString(value)
}

// validateExists verifica que un ObjectID exista en la colección indicada
// (validación de referencia). Formato: validate:"exists=<collection_name>"
func validateExists(fl validator.FieldLevel) bool {
	value := fl.Field()

	collectionName := fl.Param()
	if collectionName == "" {
		return false
	}

	var objID primitive.ObjectID
	switch v := value.Interface().(type) {
	case string:
		if v == "" {
			return true // vacío = opcional, se omite la validación
		}
		var err error
		objID, err = primitive.ObjectIDFromHex(v)
		if err != nil {
			return false
		}
	case primitive.ObjectID:
		if v == primitive.NilObjectID {
			return true
		}
		objID = v
	case *primitive.ObjectID:
		if v == nil {
			return true
		}
		objID = *v
	default:
		return false
	}

	collection, exist := RegistryCollections.Get(collectionName)
	if !exist {
		return false
	}

	ctx := context.Background()
	count, err := collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return false
	}

	return count > 0
}
