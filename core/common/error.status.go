package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	// Client Error Codes (4xx)
	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	// Server Error Codes (5xx)
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

// Mensajes de respuesta
const (
	MsgSuccess = "Operación exitosa"

	MsgBadRequest      = "Solicitud no válida"
	MsgUnauthorized    = "No autenticado"
	MsgForbidden       = "Sin permisos de acceso"
	MsgNotFound        = "Recurso no encontrado"
	MsgConflict        = "Conflicto de datos"
	MsgInternalError   = "Error interno del servidor"
	MsgValidationError = "Datos no válidos"
	MsgDatabaseError   = "Error al interactuar con la base de datos"
	MsgInvalidFormat   = "Formato de datos no válido"
	MsgExternalAPI     = "Error al comunicarse con el servicio externo"
)

// ErrorCode define un código de error detallado
type ErrorCode struct {
	Code        string // Código (ej: VAL_001)
	Category    string // Categoría (ej: Validation)
	SubCategory string // Subcategoría (ej: Input)
	Description string // Descripción
}

// Códigos de error por categoría
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Error interno del sistema",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Error de validación general",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Error en los datos de entrada",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Error de formato de datos",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Error general de base de datos",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Error de conexión a la base de datos",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Error de consulta de datos",
	}

	// External API Errors (EXT_xxx)
	ErrCodeExternalAPI = ErrorCode{
		Code:        "EXT_001",
		Category:    "External",
		SubCategory: "Contifico",
		Description: "Error del servicio externo de contabilidad",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Error de operación de negocio",
	}
)

// Error define la estructura de error detallada de la aplicación
type Error struct {
	Code       ErrorCode // Código detallado
	Message    string    // Mensaje para el cliente
	StatusCode int       // HTTP status code
	Details    any       // Información adicional
}

// Error devuelve el mensaje del error
func (e *Error) Error() string {
	return e.Message
}

// Is compara contra otro *Error por código y mensaje (soporta errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError crea un error con toda la información
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewExternalError crea un error de API externa conservando el status y el
// mensaje devueltos por el servicio upstream
func NewExternalError(message string, statusCode int, details any) error {
	if message == "" {
		message = MsgExternalAPI
	}
	if statusCode < 400 {
		statusCode = StatusInternalServerError
	}
	return &Error{
		Code:       ErrCodeExternalAPI,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Errores predefinidos
var (
	// Validación
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Datos de entrada no válidos", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Formato de datos no válido", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Falta información obligatoria", StatusBadRequest, nil)

	// Base de datos
	ErrNotFound    = NewError(ErrCodeDatabaseQuery, "No se encontraron datos", StatusNotFound, nil)
	ErrDuplicate   = NewError(ErrCodeDatabaseQuery, "Los datos ya existen", StatusConflict, nil)
	ErrConnection  = NewError(ErrCodeDatabaseConnection, "Error de conexión a la base de datos", StatusServiceUnavailable, nil)
	ErrTransaction = NewError(ErrCodeDatabaseQuery, "Error de transacción en la base de datos", StatusInternalServerError, nil)

	// API externa
	ErrExternalAPI = NewError(ErrCodeExternalAPI, MsgExternalAPI, StatusInternalServerError, nil)
)

// MongoDB Specific Errors
var (
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, "Error de conexión a MongoDB", StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, "Error de red al conectar con MongoDB", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, "La conexión a MongoDB expiró", StatusServiceUnavailable, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, "Error de consulta en MongoDB", StatusInternalServerError, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, "Error al escribir en MongoDB", StatusInternalServerError, nil)
	ErrMongoDuplicate  = NewError(ErrCodeDatabaseQuery, "Datos duplicados en MongoDB", StatusConflict, nil)
)

// ConvertMongoError convierte un error del driver de MongoDB al error del sistema
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// No convertir ErrNotFound: es parte del contrato de los servicios
	if errors.Is(err, ErrNotFound) {
		return err
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return ErrMongoConnection
		case mongoErr.Code >= 300 && mongoErr.Code < 400:
			return ErrMongoQuery
		case mongoErr.Code >= 400 && mongoErr.Code < 500:
			return ErrMongoWrite
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrMongoDuplicate
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoNetwork
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
