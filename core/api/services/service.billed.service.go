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

// BilledServiceService es el service de servicios facturados (la contraparte
// de las órdenes para las líneas de servicio de un documento)
type BilledServiceService struct {
	*BaseServiceMongoImpl[models.BilledService]
}

// NewBilledServiceService crea un nuevo BilledServiceService
func NewBilledServiceService() (*BilledServiceService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ServiciosFacturados)
	if !exist {
		return nil, fmt.Errorf("failed to get serviciosFacturados collection: %v", common.ErrNotFound)
	}

	return &BilledServiceService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.BilledService](collection),
	}, nil
}

// FindByIDContifico busca un servicio facturado por el id del documento
// contable que lo originó. Devuelve nil sin error cuando no existe.
func (s *BilledServiceService) FindByIDContifico(ctx context.Context, idContifico string) (*models.BilledService, error) {
	if idContifico == "" {
		return nil, nil
	}

	billed, err := s.FindOne(ctx, bson.M{"idContifico": idContifico}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &billed, nil
}
