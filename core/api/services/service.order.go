package services

import (
	"context"
	"errors"
	"fmt"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderService es el service de órdenes de productos facturadas
type OrderService struct {
	*BaseServiceMongoImpl[models.Order]
	counters *mongo.Collection
}

// NewOrderService crea un nuevo OrderService
func NewOrderService() (*OrderService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %v", common.ErrNotFound)
	}

	counters, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Counters)
	if !exist {
		return nil, fmt.Errorf("failed to get counters collection: %v", common.ErrNotFound)
	}

	return &OrderService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Order](collection),
		counters:             counters,
	}, nil
}

// FindByIDContifico busca una orden por el id del documento contable que la
// originó. Devuelve nil sin error cuando no existe.
func (s *OrderService) FindByIDContifico(ctx context.Context, idContifico string) (*models.Order, error) {
	if idContifico == "" {
		return nil, nil
	}

	order, err := s.FindOne(ctx, bson.M{"idContifico": idContifico}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// NextOrderNumber reserva el siguiente número de orden mediante un $inc
// atómico sobre la colección de contadores. El upsert garantiza que el
// contador exista y que dos ejecuciones concurrentes nunca reciban el mismo
// número.
func (s *OrderService) NextOrderNumber(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": models.CounterOrderNumber},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}

	return counter.Seq, nil
}
