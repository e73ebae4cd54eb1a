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

// ProductService es el service de productos del catálogo
type ProductService struct {
	*BaseServiceMongoImpl[models.Product]
}

// NewProductService crea un nuevo ProductService
func NewProductService() (*ProductService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Productos)
	if !exist {
		return nil, fmt.Errorf("failed to get productos collection: %v", common.ErrNotFound)
	}

	return &ProductService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Product](collection),
	}, nil
}

// FindByIDContifico busca un producto por su id en Contifico. Devuelve nil
// sin error cuando no existe.
func (s *ProductService) FindByIDContifico(ctx context.Context, idContifico string) (*models.Product, error) {
	if idContifico == "" {
		return nil, nil
	}

	product, err := s.FindOne(ctx, bson.M{"idContifico": idContifico}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

// FindAll devuelve todos los productos. Lo usa el barrido de catálogo.
func (s *ProductService) FindAll(ctx context.Context) ([]models.Product, error) {
	return s.Find(ctx, bson.D{}, nil)
}
