package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manilex2/studio-app-functions/config"
	"github.com/manilex2/studio-app-functions/core/global"
)

func InitRegistry() {
	err := InitCollections(global.MongoDB_Session, global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections registra las colecciones de MongoDB en el registry global
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		global.MongoDB_ColNames.Users,
		global.MongoDB_ColNames.Locales,
		global.MongoDB_ColNames.Productos,
		global.MongoDB_ColNames.Servicios,
		global.MongoDB_ColNames.Categories,
		global.MongoDB_ColNames.CategoriesProducts,
		global.MongoDB_ColNames.Orders,
		global.MongoDB_ColNames.ServiciosFacturados,
		global.MongoDB_ColNames.MonthlyStatistics,
		global.MongoDB_ColNames.Bookings,
		global.MongoDB_ColNames.Counters,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}
