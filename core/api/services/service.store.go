package services

import (
	"context"
	"errors"
	"fmt"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/global"

	"go.mongodb.org/mongo-driver/bson"
)

// StoreService es el service de locales (sucursales del salón)
type StoreService struct {
	*BaseServiceMongoImpl[models.Store]
}

// NewStoreService crea un nuevo StoreService
func NewStoreService() (*StoreService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Locales)
	if !exist {
		return nil, fmt.Errorf("failed to get locales collection: %v", common.ErrNotFound)
	}

	return &StoreService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Store](collection),
	}, nil
}

// FindByNumeroEstablecimiento busca el local por su código de establecimiento
// (el primer segmento del número de documento contable). Devuelve nil sin
// error cuando el código no corresponde a ningún local registrado.
func (s *StoreService) FindByNumeroEstablecimiento(ctx context.Context, codigo string) (*models.Store, error) {
	if codigo == "" {
		return nil, nil
	}

	store, err := s.FindOne(ctx, bson.M{"numeroEstablecimiento": codigo}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &store, nil
}
