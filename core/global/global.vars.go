package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manilex2/studio-app-functions/config"
	"github.com/manilex2/studio-app-functions/core/registry"
)

// MongoDB_CollectionName contiene los nombres de las colecciones en MongoDB
type MongoDB_CollectionName struct {
	Users               string // Colección de usuarios (clientes y asesores)
	Locales             string // Colección de locales (sucursales)
	Productos           string // Colección de productos
	Servicios           string // Colección de servicios
	Categories          string // Colección de categorías de servicios
	CategoriesProducts  string // Colección de categorías de productos
	Orders              string // Colección de órdenes facturadas
	ServiciosFacturados string // Colección de servicios facturados
	MonthlyStatistics   string // Colección de estadísticas mensuales
	Bookings            string // Colección de reservas
	Counters            string // Colección de contadores secuenciales
}

// Variables globales
var Validate *validator.Validate                // Validador de datos
var MongoDB_Session *mongo.Client               // Sesión de conexión a MongoDB
var ServerConfig *config.Configuration          // Configuración del servidor
var MongoDB_ColNames = MongoDB_CollectionName{} // Nombres de las colecciones

// Registries
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry de colecciones
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry de databases
