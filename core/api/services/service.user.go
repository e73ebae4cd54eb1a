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

// Roles de usuario reconocidos por la sincronización
const (
	RolCliente = "Cliente"
	RolAsesor  = "Asesor"
)

// UserService es el service de usuarios (clientes, asesores y personal)
type UserService struct {
	*BaseServiceMongoImpl[models.User]
}

// NewUserService crea un nuevo UserService
func NewUserService() (*UserService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.User](collection),
	}, nil
}

// FindByCedula busca un usuario por cédula, opcionalmente restringido a un
// rol. Devuelve nil sin error cuando no existe.
func (s *UserService) FindByCedula(ctx context.Context, cedula string, rolName string) (*models.User, error) {
	if cedula == "" {
		return nil, nil
	}

	filter := bson.M{"cedula": cedula}
	if rolName != "" {
		filter["rolName"] = rolName
	}

	user, err := s.FindOne(ctx, filter, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindByIDContifico busca un usuario por su id en Contifico. Devuelve nil
// sin error cuando no existe.
func (s *UserService) FindByIDContifico(ctx context.Context, idContifico string) (*models.User, error) {
	if idContifico == "" {
		return nil, nil
	}

	user, err := s.FindOne(ctx, bson.M{"idContifico": idContifico}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindAll devuelve todos los usuarios. Lo usa el barrido de catálogo.
func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	return s.Find(ctx, bson.D{}, nil)
}
