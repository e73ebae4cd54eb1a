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

// ServicioService es el service de servicios del catálogo (cortes,
// tratamientos, etc.)
type ServicioService struct {
	*BaseServiceMongoImpl[models.Service]
}

// NewServicioService crea un nuevo ServicioService
func NewServicioService() (*ServicioService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Servicios)
	if !exist {
		return nil, fmt.Errorf("failed to get servicios collection: %v", common.ErrNotFound)
	}

	return &ServicioService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Service](collection),
	}, nil
}

// FindByIDContifico busca un servicio por su id en Contifico. Devuelve nil
// sin error cuando no existe.
func (s *ServicioService) FindByIDContifico(ctx context.Context, idContifico string) (*models.Service, error) {
	if idContifico == "" {
		return nil, nil
	}

	servicio, err := s.FindOne(ctx, bson.M{"idContifico": idContifico}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &servicio, nil
}

// FindAll devuelve todos los servicios. Lo usa el barrido de catálogo.
func (s *ServicioService) FindAll(ctx context.Context) ([]models.Service, error) {
	return s.Find(ctx, bson.D{}, nil)
}
