package services

import (
	"context"
	"fmt"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/global"

	"go.mongodb.org/mongo-driver/bson"
)

// ServiceCategoryService es el service de categorías de servicios
type ServiceCategoryService struct {
	*BaseServiceMongoImpl[models.ServiceCategory]
}

// NewServiceCategoryService crea un nuevo ServiceCategoryService
func NewServiceCategoryService() (*ServiceCategoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return nil, fmt.Errorf("failed to get categories collection: %v", common.ErrNotFound)
	}

	return &ServiceCategoryService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.ServiceCategory](collection),
	}, nil
}

// FindAll devuelve todas las categorías de servicios
func (s *ServiceCategoryService) FindAll(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.Find(ctx, bson.D{}, nil)
}

// ProductCategoryService es el service de categorías de productos
type ProductCategoryService struct {
	*BaseServiceMongoImpl[models.ProductCategory]
}

// NewProductCategoryService crea un nuevo ProductCategoryService
func NewProductCategoryService() (*ProductCategoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CategoriesProducts)
	if !exist {
		return nil, fmt.Errorf("failed to get categoriesProducts collection: %v", common.ErrNotFound)
	}

	return &ProductCategoryService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.ProductCategory](collection),
	}, nil
}

// FindAll devuelve todas las categorías de productos
func (s *ProductCategoryService) FindAll(ctx context.Context) ([]models.ProductCategory, error) {
	return s.Find(ctx, bson.D{}, nil)
}
