package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/manilex2/studio-app-functions/core/batch"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/contifico"
	"github.com/manilex2/studio-app-functions/core/global"
	"github.com/manilex2/studio-app-functions/core/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// ContificoBackfillService barre el catálogo local (usuarios, categorías,
// servicios y productos) y crea en Contifico todo registro que aún no tenga
// idContifico, escribiendo el id devuelto de vuelta en MongoDB por lotes.
type ContificoBackfillService struct {
	client     *contifico.Client
	users      *UserService
	categories *ServiceCategoryService
	prodCats   *ProductCategoryService
	servicios  *ServicioService
	products   *ProductService

	newWriter func() *batch.Writer
}

// NewContificoBackfillService crea un nuevo ContificoBackfillService
func NewContificoBackfillService() (*ContificoBackfillService, error) {
	cfg := global.ServerConfig
	client := contifico.NewClient(cfg.ContificoURI, cfg.ContificoAuthToken, cfg.ContificoAPIKey)
	return NewContificoBackfillServiceWithClient(client)
}

// NewContificoBackfillServiceWithClient crea el service con un cliente ya
// construido
func NewContificoBackfillServiceWithClient(client *contifico.Client) (*ContificoBackfillService, error) {
	users, err := NewUserService()
	if err != nil {
		return nil, err
	}
	categories, err := NewServiceCategoryService()
	if err != nil {
		return nil, err
	}
	prodCats, err := NewProductCategoryService()
	if err != nil {
		return nil, err
	}
	servicios, err := NewServicioService()
	if err != nil {
		return nil, err
	}
	products, err := NewProductService()
	if err != nil {
		return nil, err
	}

	return &ContificoBackfillService{
		client:     client,
		users:      users,
		categories: categories,
		prodCats:   prodCats,
		servicios:  servicios,
		products:   products,
		newWriter: func() *batch.Writer {
			return batch.NewWriter(global.MongoDB_Session, global.ServerConfig.MongoDB_DBName)
		},
	}, nil
}

// SynchronizeCatalog ejecuta el barrido completo y devuelve el mensaje de
// resumen con la cantidad de documentos actualizados.
func (s *ContificoBackfillService) SynchronizeCatalog(ctx context.Context) (string, error) {
	log := logger.WithModule("contifico.backfill")
	log.Info("Iniciando el proceso de actualización de Contifico...")

	w := s.newWriter()
	updates := 0

	if err := s.backfillUsers(ctx, w, &updates); err != nil {
		return "", err
	}
	if err := s.backfillServiceCategories(ctx, w, &updates); err != nil {
		return "", err
	}
	if err := s.backfillProductCategories(ctx, w, &updates); err != nil {
		return "", err
	}
	if err := s.backfillServicios(ctx, w, &updates); err != nil {
		return "", err
	}
	if err := s.backfillProducts(ctx, w, &updates); err != nil {
		return "", err
	}

	if err := w.Flush(ctx); err != nil {
		return "", err
	}

	log.WithField("actualizados", updates).Info("Barrido de catálogo completado")
	return fmt.Sprintf("Proceso completado. Se actualizaron %d documentos.", updates), nil
}

// backfillUsers marca el flag de registro completo de cada usuario y crea la
// persona en Contifico cuando falta el idContifico.
func (s *ContificoBackfillService) backfillUsers(ctx context.Context, w *batch.Writer, updates *int) error {
	log := logger.WithModule("contifico.backfill")

	usuarios, err := s.users.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(usuarios) == 0 {
		log.Info("No se encontraron usuarios en la colección \"users\".")
	}

	for _, usuario := range usuarios {
		// Un usuario de personal sin cédula todavía no completó su
		// registro
		regCompleto := usuario.Cedula != "" || usuario.RolName == RolCliente

		err := w.StageUpdate(ctx, s.users.Collection().Name(),
			bson.M{"_id": usuario.ID},
			&UpdateData{Set: map[string]interface{}{"regCompRRSS": regCompleto}},
		)
		if err != nil {
			return err
		}
		*updates++

		if usuario.IDContifico != "" {
			continue
		}

		persona := contifico.Persona{
			Tipo:        "N",
			RazonSocial: usuario.DisplayName,
			Cedula:      usuario.Cedula,
			Telefonos:   usuario.Telefono,
			Email:       usuario.Email,
			Direccion:   usuario.Direccion,
			EsCliente:   true,
			EsEmpleado:  usuario.RolName != RolCliente && usuario.RolName != RolAsesor,
			EsVendedor:  usuario.RolName == RolAsesor,
			EsProveedor: false,
		}

		id, err := s.client.CreatePerson(ctx, persona)
		if err != nil {
			id = duplicateID(err)
			if id == "" {
				log.WithError(err).WithField("usuario", usuario.DisplayName).
					Error("Error al crear el usuario en Contifico")
				continue
			}
		}

		err = w.StageUpdate(ctx, s.users.Collection().Name(),
			bson.M{"_id": usuario.ID},
			&UpdateData{Set: map[string]interface{}{"idContifico": id}},
		)
		if err != nil {
			return err
		}
		*updates++
	}

	return nil
}

func (s *ContificoBackfillService) backfillServiceCategories(ctx context.Context, w *batch.Writer, updates *int) error {
	log := logger.WithModule("contifico.backfill")

	categorias, err := s.categories.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(categorias) == 0 {
		log.Info("No se encontraron categorías de servicios en la colección \"categories\".")
	}

	for _, categoria := range categorias {
		if categoria.IDContifico != "" {
			continue
		}

		id, err := s.client.CreateCategory(ctx, contifico.CategoryPayload{
			Nombre:       categoria.Categoria,
			TipoProducto: "SERV",
		})
		if err != nil {
			id = duplicateID(err)
			if id == "" {
				log.WithError(err).WithField("categoria", categoria.Categoria).
					Error("Error al crear la categoría de servicio en Contifico")
				continue
			}
		}

		err = w.StageUpdate(ctx, s.categories.Collection().Name(),
			bson.M{"_id": categoria.ID},
			&UpdateData{Set: map[string]interface{}{"idContifico": id}},
		)
		if err != nil {
			return err
		}
		*updates++
	}

	return nil
}

func (s *ContificoBackfillService) backfillProductCategories(ctx context.Context, w *batch.Writer, updates *int) error {
	log := logger.WithModule("contifico.backfill")

	categorias, err := s.prodCats.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(categorias) == 0 {
		log.Info("No se encontraron categorías de productos en la colección \"categoriesProducts\".")
	}

	for _, categoria := range categorias {
		if categoria.IDContifico != "" {
			continue
		}

		id, err := s.client.CreateCategory(ctx, contifico.CategoryPayload{
			Nombre:       categoria.CategoryName,
			TipoProducto: "PROD",
		})
		if err != nil {
			id = duplicateID(err)
			if id == "" {
				log.WithError(err).WithField("categoria", categoria.CategoryName).
					Error("Error al crear la categoría de producto en Contifico")
				continue
			}
		}

		err = w.StageUpdate(ctx, s.prodCats.Collection().Name(),
			bson.M{"_id": categoria.ID},
			&UpdateData{Set: map[string]interface{}{"idContifico": id}},
		)
		if err != nil {
			return err
		}
		*updates++
	}

	return nil
}

func (s *ContificoBackfillService) backfillServicios(ctx context.Context, w *batch.Writer, updates *int) error {
	log := logger.WithModule("contifico.backfill")

	servicios, err := s.servicios.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(servicios) == 0 {
		log.Info("No se encontraron servicios en la colección \"servicios\".")
	}

	for _, servicio := range servicios {
		if servicio.IDContifico != "" {
			continue
		}

		categoriaID := ""
		if servicio.RefCategoria != nil {
			categoria, err := s.categories.FindOneById(ctx, *servicio.RefCategoria)
			if err != nil && !isNotFound(err) {
				return err
			}
			categoriaID = categoria.IDContifico
		}

		id, err := s.client.CreateProduct(ctx, contifico.ProductPayload{
			Tipo:        "SER",
			Nombre:      servicio.Nombre,
			Descripcion: servicio.Descripcion,
			CategoriaID: categoriaID,
			Minimo:      0,
			PVP1:        servicio.Precio,
			Estado:      "A",
			Codigo:      servicio.Sku,
		})
		if err != nil {
			id = duplicateID(err)
			if id == "" {
				log.WithError(err).WithField("servicio", servicio.Nombre).
					Error("Error al crear el servicio en Contifico")
				continue
			}
		}

		err = w.StageUpdate(ctx, s.servicios.Collection().Name(),
			bson.M{"_id": servicio.ID},
			&UpdateData{Set: map[string]interface{}{"idContifico": id}},
		)
		if err != nil {
			return err
		}
		*updates++
	}

	return nil
}

func (s *ContificoBackfillService) backfillProducts(ctx context.Context, w *batch.Writer, updates *int) error {
	log := logger.WithModule("contifico.backfill")

	productos, err := s.products.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(productos) == 0 {
		log.Info("No se encontraron productos en la colección \"productos\".")
	}

	for _, producto := range productos {
		if producto.IDContifico != "" {
			continue
		}

		categoriaID := ""
		if producto.RefCategory != nil {
			categoria, err := s.prodCats.FindOneById(ctx, *producto.RefCategory)
			if err != nil && !isNotFound(err) {
				return err
			}
			categoriaID = categoria.IDContifico
		}

		id, err := s.client.CreateProduct(ctx, contifico.ProductPayload{
			Tipo:        "PRO",
			Nombre:      producto.Nombre,
			Descripcion: producto.Descripcion,
			CategoriaID: categoriaID,
			Minimo:      0,
			PVP1:        producto.Precio,
			Estado:      "A",
			Codigo:      producto.Sku,
		})
		if err != nil {
			id = duplicateID(err)
			if id == "" {
				log.WithError(err).WithField("producto", producto.Nombre).
					Error("Error al crear el producto en Contifico")
				continue
			}
		}

		err = w.StageUpdate(ctx, s.products.Collection().Name(),
			bson.M{"_id": producto.ID},
			&UpdateData{Set: map[string]interface{}{"idContifico": id}},
		)
		if err != nil {
			return err
		}
		*updates++
	}

	return nil
}

// duplicateID extrae el id incluido en un error de duplicado del upstream.
// Contifico responde con error cuando el recurso ya existe pero igualmente
// devuelve su id, y en ese caso el barrido lo toma como éxito.
func duplicateID(err error) string {
	var apiErr *contifico.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ID
	}
	return ""
}

// isNotFound indica si el error es la ausencia de un documento
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
