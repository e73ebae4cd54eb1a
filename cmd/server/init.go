package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/manilex2/studio-app-functions/config"
	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/database"
	"github.com/manilex2/studio-app-functions/core/global"
)

// Inicializa las variables globales
func InitGlobal() {
	initColNames()         // Nombres de las colecciones en la base de datos
	initValidator()        // Validador de datos
	initConfig()           // Configuración del servidor
	initDatabase_MongoDB() // Conexión a la base de datos
}

// Inicializa los nombres de las colecciones en la base de datos. Los nombres
// son parte del contrato con las otras aplicaciones que comparten la base.
func initColNames() {
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Locales = "locales"
	global.MongoDB_ColNames.Productos = "productos"
	global.MongoDB_ColNames.Servicios = "servicios"
	global.MongoDB_ColNames.Categories = "categories"
	global.MongoDB_ColNames.CategoriesProducts = "categoriesProducts"
	global.MongoDB_ColNames.Orders = "orders"
	global.MongoDB_ColNames.ServiciosFacturados = "serviciosFacturados"
	global.MongoDB_ColNames.MonthlyStatistics = "monthlyStatistics"
	global.MongoDB_ColNames.Bookings = "bookings"
	global.MongoDB_ColNames.Counters = "counters"

	logrus.Info("Initialized collection names")
}

// Inicializa el validador (global.InitValidator registra los validadores
// personalizados: cedula, telefono_ec, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Inicializa la configuración del servidor
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Inicializa la conexión a la base de datos
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Crea la base y las colecciones si no existen
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Índices por colección. El índice único sobre idContifico en orders y
	// serviciosFacturados es el que garantiza la idempotencia de la
	// sincronización; el compuesto de monthlyStatistics identifica cada bucket.
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), models.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Locales), models.Store{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Productos), models.Product{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Servicios), models.Service{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Categories), models.ServiceCategory{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.CategoriesProducts), models.ProductCategory{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Orders), models.Order{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ServiciosFacturados), models.BilledService{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.MonthlyStatistics), models.MonthlyStatistic{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Bookings), models.Booking{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Counters), models.Counter{})
}
