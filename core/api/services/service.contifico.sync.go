package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/batch"
	"github.com/manilex2/studio-app-functions/core/contifico"
	"github.com/manilex2/studio-app-functions/core/global"
	"github.com/manilex2/studio-app-functions/core/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ZonaHoraria es la zona horaria del negocio. Los documentos contables se
// emiten con fecha local de Ecuador.
const ZonaHoraria = "America/Guayaquil"

// ContificoSyncService sincroniza los documentos contables del día desde
// Contifico hacia MongoDB: órdenes, servicios facturados y estadísticas
// mensuales.
type ContificoSyncService struct {
	client    *contifico.Client
	stores    *StoreService
	users     *UserService
	products  *ProductService
	servicios *ServicioService
	orders    *OrderService
	billed    *BilledServiceService
	stats     *MonthlyStatisticService

	// newWriter crea el escritor por lotes de cada ejecución. Inyectable
	// para poder probar la sincronización sin transacciones reales.
	newWriter func() *batch.Writer

	// Búsquedas inyectables; por defecto delegan en los services de cada
	// colección. Se reemplazan en pruebas igual que newWriter.
	findStore       func(ctx context.Context, codigo string) (*models.Store, error)
	findUser        func(ctx context.Context, cedula string) (*models.User, error)
	findProduct     func(ctx context.Context, idContifico string) (*models.Product, error)
	findServicio    func(ctx context.Context, idContifico string) (*models.Service, error)
	findOrder       func(ctx context.Context, idContifico string) (*models.Order, error)
	findBilled      func(ctx context.Context, idContifico string) (*models.BilledService, error)
	nextOrderNumber func(ctx context.Context) (int64, error)
}

// NewContificoSyncService crea un nuevo ContificoSyncService con el cliente
// de Contifico configurado desde las variables de entorno.
func NewContificoSyncService() (*ContificoSyncService, error) {
	cfg := global.ServerConfig
	client := contifico.NewClient(cfg.ContificoURI, cfg.ContificoAuthToken, cfg.ContificoAPIKey)
	return NewContificoSyncServiceWithClient(client)
}

// NewContificoSyncServiceWithClient crea el service con un cliente ya
// construido.
func NewContificoSyncServiceWithClient(client *contifico.Client) (*ContificoSyncService, error) {
	stores, err := NewStoreService()
	if err != nil {
		return nil, err
	}
	users, err := NewUserService()
	if err != nil {
		return nil, err
	}
	products, err := NewProductService()
	if err != nil {
		return nil, err
	}
	servicios, err := NewServicioService()
	if err != nil {
		return nil, err
	}
	orders, err := NewOrderService()
	if err != nil {
		return nil, err
	}
	billed, err := NewBilledServiceService()
	if err != nil {
		return nil, err
	}
	stats, err := NewMonthlyStatisticService()
	if err != nil {
		return nil, err
	}

	s := &ContificoSyncService{
		client:    client,
		stores:    stores,
		users:     users,
		products:  products,
		servicios: servicios,
		orders:    orders,
		billed:    billed,
		stats:     stats,
		newWriter: func() *batch.Writer {
			return batch.NewWriter(global.MongoDB_Session, global.ServerConfig.MongoDB_DBName)
		},
	}

	s.findStore = stores.FindByNumeroEstablecimiento
	s.findUser = func(ctx context.Context, cedula string) (*models.User, error) {
		return users.FindByCedula(ctx, cedula, "")
	}
	s.findProduct = products.FindByIDContifico
	s.findServicio = servicios.FindByIDContifico
	s.findOrder = orders.FindByIDContifico
	s.findBilled = billed.FindByIDContifico
	s.nextOrderNumber = orders.NextOrderNumber

	return s, nil
}

// SynchronizeDailyDocuments descarga los documentos emitidos hoy (hora de
// Ecuador) y los guarda o actualiza. Devuelve el mensaje de resumen.
func (s *ContificoSyncService) SynchronizeDailyDocuments(ctx context.Context) (string, error) {
	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return "", err
	}
	return s.synchronizeAt(ctx, time.Now().In(loc))
}

func (s *ContificoSyncService) synchronizeAt(ctx context.Context, now time.Time) (string, error) {
	log := logger.WithModule("contifico.sync")

	docs, err := s.client.ListDocuments(ctx, now)
	if err != nil {
		log.WithError(err).Error("Error al obtener documentos de Contifico")
		return "", err
	}

	log.WithField("documentos", len(docs)).Info("Documentos recibidos de Contifico")

	w := s.newWriter()
	for _, doc := range docs {
		if err := s.processDocument(ctx, w, doc, now); err != nil {
			return "", err
		}
	}

	if err := w.Flush(ctx); err != nil {
		return "", err
	}

	return fmt.Sprintf("%d documentos guardados o actualizados correctamente", len(docs)), nil
}

// processDocument encola las escrituras derivadas de un documento contable:
// la orden o el servicio facturado y los incrementos de estadísticas.
func (s *ContificoSyncService) processDocument(ctx context.Context, w *batch.Writer, doc contifico.Document, now time.Time) error {
	log := logger.WithModule("contifico.sync").WithField("documento", doc.ID)

	proj := buildOrderProjection(doc)

	// Resolver las entidades referenciadas por el documento. Una
	// referencia no resuelta degrada a la dimensión global, nunca corta
	// la sincronización.
	store, err := s.findStore(ctx, parseStoreCode(doc.Documento))
	if err != nil {
		return err
	}

	var asesor, cliente *models.User
	if doc.Vendedor != nil {
		if asesor, err = s.findUser(ctx, doc.Vendedor.Cedula); err != nil {
			return err
		}
	}
	if doc.Cliente != nil {
		if cliente, err = s.findUser(ctx, doc.Cliente.Cedula); err != nil {
			return err
		}
	}

	year, month := now.Year(), int(now.Month())

	// Clasificar cada línea como producto o servicio, producto primero
	var productsList []models.OrderItem
	var serviceList []models.ServiceItem
	var docDelta StatisticDelta

	for _, detalle := range doc.Detalles {
		cantidad := numberToFloat(detalle.Cantidad, 0)
		lineTotal := numberToFloat(detalle.Precio, 0) * cantidad

		product, err := s.findProduct(ctx, detalle.ProductoID)
		if err != nil {
			return err
		}
		if product != nil {
			productsList = append(productsList, models.OrderItem{
				ProductID:  product.ID,
				Quantity:   cantidad,
				TotalPrice: lineTotal,
			})
			docDelta.Add(StatisticDelta{
				ProductTotalValue: lineTotal,
				ProductCount:      cantidad,
				TotalValue:        lineTotal,
				TotalTransactions: 1,
			})

			key := BucketKey{Year: year, Month: month, ProductRef: &product.ID}
			delta := StatisticDelta{
				ProductTotalValue: lineTotal,
				ProductCount:      cantidad,
				TotalValue:        lineTotal,
				TotalTransactions: 1,
			}
			if err := s.stats.StageIncrement(ctx, w, key, delta, now); err != nil {
				return err
			}
			continue
		}

		servicio, err := s.findServicio(ctx, detalle.ProductoID)
		if err != nil {
			return err
		}
		if servicio == nil {
			log.WithField("productoId", detalle.ProductoID).Warn("Línea sin producto ni servicio registrado, se ignora")
			continue
		}

		serviceList = append(serviceList, models.ServiceItem{
			ServiceID:  servicio.ID,
			Quantity:   cantidad,
			TotalPrice: lineTotal,
		})
		docDelta.Add(StatisticDelta{
			ServiceTotalValue: lineTotal,
			ServiceCount:      cantidad,
			TotalValue:        lineTotal,
			TotalTransactions: 1,
		})

		key := BucketKey{Year: year, Month: month, ServiceRef: &servicio.ID}
		delta := StatisticDelta{
			ServiceTotalValue: lineTotal,
			ServiceCount:      cantidad,
			TotalValue:        lineTotal,
			TotalTransactions: 1,
		}
		if err := s.stats.StageIncrement(ctx, w, key, delta, now); err != nil {
			return err
		}
	}

	// Baldes por documento: general, por local, por asesor y por cliente
	if err := s.stats.StageIncrement(ctx, w, BucketKey{Year: year, Month: month}, docDelta, now); err != nil {
		return err
	}
	if store != nil {
		if err := s.stats.StageIncrement(ctx, w, BucketKey{Year: year, Month: month, StoreRef: &store.ID}, docDelta, now); err != nil {
			return err
		}
	}
	if asesor != nil {
		if err := s.stats.StageIncrement(ctx, w, BucketKey{Year: year, Month: month, AsesorRef: &asesor.ID}, docDelta, now); err != nil {
			return err
		}
	}
	if cliente != nil {
		if err := s.stats.StageIncrement(ctx, w, BucketKey{Year: year, Month: month, ClientRef: &cliente.ID}, docDelta, now); err != nil {
			return err
		}
	}

	var clienteID *primitive.ObjectID
	if cliente != nil {
		clienteID = &cliente.ID
	}

	if err := s.stageOrder(ctx, w, doc.ID, proj, clienteID, productsList); err != nil {
		return err
	}
	return s.stageBilledService(ctx, w, doc.ID, proj, clienteID, serviceList)
}

// stageOrder actualiza la orden existente o crea una nueva cuando el
// documento tiene líneas de producto.
func (s *ContificoSyncService) stageOrder(ctx context.Context, w *batch.Writer, idContifico string, proj orderProjection, clienteID *primitive.ObjectID, productsList []models.OrderItem) error {
	existing, err := s.findOrder(ctx, idContifico)
	if err != nil {
		return err
	}

	if existing != nil {
		// Solo se reescribe la proyección contable; los campos de
		// gestión (envío, validación de pago, notas) se conservan
		return w.StageUpdate(ctx, s.orders.Collection().Name(),
			bson.M{"idContifico": idContifico},
			&UpdateData{Set: proj.toSet(clienteID)},
		)
	}

	if len(productsList) == 0 {
		return nil
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return err
	}

	order := models.Order{
		IDContifico:          idContifico,
		OrderDate:            proj.OrderDate,
		UrlRide:              proj.UrlRide,
		OrderStatus:          proj.OrderStatus,
		Subtotal:             proj.Subtotal,
		Tax:                  proj.Tax,
		TotalValue:           proj.TotalValue,
		PaymentTransactionID: proj.PaymentTransactionID,
		PaymentDate:          proj.PaymentDate,
		PaymentMethods:       proj.PaymentMethods,
		ClientUserID:         clienteID,
		ProductsList:         productsList,
		OrderNumber:          orderNumber,
		ShippingMethod:       "pickup",
		ShippingCost:         0,
		InternalNote:         []string{},
	}

	return w.StageInsert(ctx, s.orders.Collection().Name(), order)
}

// stageBilledService es la contraparte de stageOrder para las líneas de
// servicio.
func (s *ContificoSyncService) stageBilledService(ctx context.Context, w *batch.Writer, idContifico string, proj orderProjection, clienteID *primitive.ObjectID, serviceList []models.ServiceItem) error {
	existing, err := s.findBilled(ctx, idContifico)
	if err != nil {
		return err
	}

	if existing != nil {
		return w.StageUpdate(ctx, s.billed.Collection().Name(),
			bson.M{"idContifico": idContifico},
			&UpdateData{Set: proj.toSet(clienteID)},
		)
	}

	if len(serviceList) == 0 {
		return nil
	}

	billed := models.BilledService{
		IDContifico:          idContifico,
		OrderDate:            proj.OrderDate,
		UrlRide:              proj.UrlRide,
		OrderStatus:          proj.OrderStatus,
		Subtotal:             proj.Subtotal,
		Tax:                  proj.Tax,
		TotalValue:           proj.TotalValue,
		PaymentTransactionID: proj.PaymentTransactionID,
		PaymentDate:          proj.PaymentDate,
		PaymentMethods:       proj.PaymentMethods,
		ClientUserID:         clienteID,
		ServiceList:          serviceList,
	}

	return w.StageInsert(ctx, s.billed.Collection().Name(), billed)
}

// orderProjection es la parte contable de una orden o servicio facturado que
// la sincronización reescribe en cada corrida.
type orderProjection struct {
	OrderDate            *time.Time
	UrlRide              *string
	OrderStatus          string
	Subtotal             float64
	Tax                  float64
	TotalValue           float64
	PaymentTransactionID *string
	PaymentDate          *time.Time
	PaymentMethods       *string
}

// toSet arma el documento $set de la proyección. El clientUserId solo se
// incluye cuando el cliente pudo resolverse, para no pisar una vinculación
// hecha a mano.
func (p orderProjection) toSet(clienteID *primitive.ObjectID) map[string]interface{} {
	set := map[string]interface{}{
		"orderDate":            p.OrderDate,
		"urlRide":              p.UrlRide,
		"orderStatus":          p.OrderStatus,
		"subtotal":             p.Subtotal,
		"tax":                  p.Tax,
		"totalValue":           p.TotalValue,
		"paymentTransactionId": p.PaymentTransactionID,
		"paymentDate":          p.PaymentDate,
		"paymentMethods":       p.PaymentMethods,
	}
	if clienteID != nil {
		set["clientUserId"] = clienteID
	}
	return set
}

// buildOrderProjection deriva la proyección contable de un documento
func buildOrderProjection(doc contifico.Document) orderProjection {
	proj := orderProjection{
		OrderStatus: mapOrderStatus(doc.Estado),
		Subtotal:    numberToFloat(doc.Subtotal12, 0),
		Tax:         computeTax(numberToFloat(doc.Subtotal12, 0), numberToFloat(doc.IVA, 1)),
		TotalValue:  numberToFloat(doc.Total, 0),
	}

	if fecha, err := parseFecha(doc.FechaEmision); err == nil {
		proj.OrderDate = &fecha
	}
	if doc.URLRide != "" {
		ride := doc.URLRide
		proj.UrlRide = &ride
	}

	if len(doc.Cobros) > 0 {
		cobro := doc.Cobros[0]
		if cobro.NumeroComprobante != "" {
			comprobante := cobro.NumeroComprobante
			proj.PaymentTransactionID = &comprobante
		}
		if fecha, err := parseFecha(cobro.Fecha); err == nil {
			proj.PaymentDate = &fecha
		}
		metodo := mapPaymentMethod(cobro.FormaCobro)
		proj.PaymentMethods = &metodo
	}

	return proj
}

// mapOrderStatus traduce el estado del documento contable al estado de orden
func mapOrderStatus(estado string) string {
	switch estado {
	case contifico.EstadoPendiente:
		return models.OrderStatusPagoPendiente
	case contifico.EstadoCobrado:
		return models.OrderStatusPagoPorValidar
	case contifico.EstadoGenerado:
		return models.OrderStatusEnProceso
	case contifico.EstadoAnulado:
		return models.OrderStatusCancelado
	case contifico.EstadoEnviado:
		return models.OrderStatusEnviado
	default:
		return models.OrderStatusCompletado
	}
}

// mapPaymentMethod traduce la forma de cobro al método de pago de la orden
func mapPaymentMethod(formaCobro string) string {
	switch formaCobro {
	case contifico.FormaCobroTarjeta:
		return models.PaymentMethodCreditCard
	case contifico.FormaCobroTransferencia:
		return models.PaymentMethodBankTransfer
	default:
		return models.PaymentMethodPayInStore
	}
}

// parseStoreCode extrae el código de establecimiento del número de documento
// ("EST-PTO-SECUENCIAL")
func parseStoreCode(documento string) string {
	for i := 0; i < len(documento); i++ {
		if documento[i] == '-' {
			return documento[:i]
		}
	}
	return documento
}

// parseFecha convierte una fecha DD/MM/YYYY a time.Time
func parseFecha(s string) (time.Time, error) {
	return time.Parse(contifico.FechaLayout, s)
}

// computeTax calcula el IVA a partir del subtotal gravado y el porcentaje
func computeTax(subtotal, iva float64) float64 {
	return subtotal * iva / 100
}

// numberToFloat convierte un json.Number con valor por defecto cuando viene
// vacío o malformado
func numberToFloat(n json.Number, def float64) float64 {
	if n == "" {
		return def
	}
	v, err := n.Float64()
	if err != nil {
		return def
	}
	return v
}

// floatToNumber convierte un float64 a json.Number para los payloads que la
// API espera como número
func floatToNumber(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}
