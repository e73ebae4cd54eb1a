package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/batch"
	"github.com/manilex2/studio-app-functions/core/contifico"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMapOrderStatus(t *testing.T) {
	cases := []struct {
		estado string
		want   string
	}{
		{contifico.EstadoPendiente, models.OrderStatusPagoPendiente},
		{contifico.EstadoCobrado, models.OrderStatusPagoPorValidar},
		{contifico.EstadoGenerado, models.OrderStatusEnProceso},
		{contifico.EstadoAnulado, models.OrderStatusCancelado},
		{contifico.EstadoEnviado, models.OrderStatusEnviado},
		{"X", models.OrderStatusCompletado},
		{"", models.OrderStatusCompletado},
	}

	for _, c := range cases {
		if got := mapOrderStatus(c.estado); got != c.want {
			t.Errorf("mapOrderStatus(%q) = %q, se esperaba %q", c.estado, got, c.want)
		}
	}
}

func TestMapPaymentMethod(t *testing.T) {
	cases := []struct {
		formaCobro string
		want       string
	}{
		{contifico.FormaCobroTarjeta, models.PaymentMethodCreditCard},
		{contifico.FormaCobroTransferencia, models.PaymentMethodBankTransfer},
		{"EF", models.PaymentMethodPayInStore},
		{"", models.PaymentMethodPayInStore},
	}

	for _, c := range cases {
		if got := mapPaymentMethod(c.formaCobro); got != c.want {
			t.Errorf("mapPaymentMethod(%q) = %q, se esperaba %q", c.formaCobro, got, c.want)
		}
	}
}

func TestParseStoreCode(t *testing.T) {
	cases := []struct {
		documento string
		want      string
	}{
		{"001-002-000000123", "001"},
		{"MATRIZ-001-000000001", "MATRIZ"},
		{"sinGuiones", "sinGuiones"},
		{"", ""},
	}

	for _, c := range cases {
		if got := parseStoreCode(c.documento); got != c.want {
			t.Errorf("parseStoreCode(%q) = %q, se esperaba %q", c.documento, got, c.want)
		}
	}
}

func TestParseFecha(t *testing.T) {
	fecha, err := parseFecha("25/12/2024")
	if err != nil {
		t.Fatalf("parseFecha falló: %v", err)
	}
	if fecha.Year() != 2024 || fecha.Month() != time.December || fecha.Day() != 25 {
		t.Errorf("parseFecha devolvió %v, se esperaba 25 de diciembre de 2024", fecha)
	}

	if _, err := parseFecha("2024-12-25"); err == nil {
		t.Error("parseFecha debe rechazar el formato ISO")
	}
	if _, err := parseFecha(""); err == nil {
		t.Error("parseFecha debe rechazar la fecha vacía")
	}
}

func TestComputeTax(t *testing.T) {
	if got := computeTax(100, 15); got != 15 {
		t.Errorf("computeTax(100, 15) = %v, se esperaba 15", got)
	}
	// Sin porcentaje informado el llamador pasa 1 (valor heredado del
	// comportamiento de producción)
	if got := computeTax(100, 1); got != 1 {
		t.Errorf("computeTax(100, 1) = %v, se esperaba 1", got)
	}
	if got := computeTax(0, 15); got != 0 {
		t.Errorf("computeTax(0, 15) = %v, se esperaba 0", got)
	}
}

func TestNumberToFloat(t *testing.T) {
	if got := numberToFloat(json.Number("12.5"), 0); got != 12.5 {
		t.Errorf("numberToFloat(12.5) = %v", got)
	}
	if got := numberToFloat(json.Number(""), 7); got != 7 {
		t.Errorf("numberToFloat vacío debe devolver el valor por defecto, fue %v", got)
	}
	if got := numberToFloat(json.Number("no-numérico"), 3); got != 3 {
		t.Errorf("numberToFloat malformado debe devolver el valor por defecto, fue %v", got)
	}
}

func TestFloatToNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.5, "12.5"},
		{100, "100"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := floatToNumber(c.in); string(got) != c.want {
			t.Errorf("floatToNumber(%v) = %q, se esperaba %q", c.in, got, c.want)
		}
	}
}

func TestBuildOrderProjection(t *testing.T) {
	doc := contifico.Document{
		ID:           "doc-1",
		Documento:    "001-002-000000123",
		FechaEmision: "15/03/2025",
		Estado:       contifico.EstadoCobrado,
		URLRide:      "https://contifico.example/ride/doc-1.pdf",
		Subtotal12:   json.Number("100"),
		IVA:          json.Number("15"),
		Total:        json.Number("115"),
		Cobros: []contifico.Cobro{
			{
				FormaCobro:        contifico.FormaCobroTarjeta,
				Fecha:             "16/03/2025",
				NumeroComprobante: "TRX-9981",
			},
		},
	}

	proj := buildOrderProjection(doc)

	if proj.OrderStatus != models.OrderStatusPagoPorValidar {
		t.Errorf("OrderStatus = %q, se esperaba %q", proj.OrderStatus, models.OrderStatusPagoPorValidar)
	}
	if proj.Subtotal != 100 {
		t.Errorf("Subtotal = %v, se esperaba 100", proj.Subtotal)
	}
	if proj.Tax != 15 {
		t.Errorf("Tax = %v, se esperaba 15", proj.Tax)
	}
	if proj.TotalValue != 115 {
		t.Errorf("TotalValue = %v, se esperaba 115", proj.TotalValue)
	}
	if proj.OrderDate == nil || proj.OrderDate.Day() != 15 || proj.OrderDate.Month() != time.March {
		t.Errorf("OrderDate = %v, se esperaba 15 de marzo de 2025", proj.OrderDate)
	}
	if proj.UrlRide == nil || *proj.UrlRide != doc.URLRide {
		t.Errorf("UrlRide = %v, se esperaba %q", proj.UrlRide, doc.URLRide)
	}
	if proj.PaymentTransactionID == nil || *proj.PaymentTransactionID != "TRX-9981" {
		t.Errorf("PaymentTransactionID = %v, se esperaba TRX-9981", proj.PaymentTransactionID)
	}
	if proj.PaymentDate == nil || proj.PaymentDate.Day() != 16 {
		t.Errorf("PaymentDate = %v, se esperaba 16 de marzo de 2025", proj.PaymentDate)
	}
	if proj.PaymentMethods == nil || *proj.PaymentMethods != models.PaymentMethodCreditCard {
		t.Errorf("PaymentMethods = %v, se esperaba creditCard", proj.PaymentMethods)
	}
}

func TestBuildOrderProjectionSinCobrosNiRide(t *testing.T) {
	doc := contifico.Document{
		ID:           "doc-2",
		FechaEmision: "01/01/2025",
		Estado:       contifico.EstadoPendiente,
		Subtotal12:   json.Number("50"),
		Total:        json.Number("50"),
	}

	proj := buildOrderProjection(doc)

	if proj.OrderStatus != models.OrderStatusPagoPendiente {
		t.Errorf("OrderStatus = %q, se esperaba Pago_Pendiente", proj.OrderStatus)
	}
	if proj.UrlRide != nil {
		t.Errorf("UrlRide debe ser nil sin url_ride, fue %v", *proj.UrlRide)
	}
	if proj.PaymentMethods != nil || proj.PaymentTransactionID != nil || proj.PaymentDate != nil {
		t.Error("sin cobros no debe haber datos de pago")
	}
	// IVA ausente degrada al porcentaje por defecto 1: 50 * 1 / 100
	if proj.Tax != 0.5 {
		t.Errorf("Tax = %v, se esperaba 0.5", proj.Tax)
	}
}

func TestOrderProjectionToSet(t *testing.T) {
	metodo := models.PaymentMethodCreditCard
	proj := orderProjection{
		OrderStatus:    models.OrderStatusCompletado,
		Subtotal:       10,
		Tax:            1.5,
		TotalValue:     11.5,
		PaymentMethods: &metodo,
	}

	set := proj.toSet(nil)
	if _, ok := set["clientUserId"]; ok {
		t.Error("clientUserId no debe incluirse cuando el cliente no se resolvió")
	}
	if set["orderStatus"] != models.OrderStatusCompletado {
		t.Errorf("orderStatus = %v", set["orderStatus"])
	}

	id := primitive.NewObjectID()
	set = proj.toSet(&id)
	if got, ok := set["clientUserId"].(*primitive.ObjectID); !ok || *got != id {
		t.Errorf("clientUserId = %v, se esperaba %v", set["clientUserId"], id)
	}
}

// syncFixtures son los catálogos locales simulados contra los que la
// sincronización resuelve sus referencias en pruebas.
type syncFixtures struct {
	stores    map[string]*models.Store
	users     map[string]*models.User
	products  map[string]*models.Product
	servicios map[string]*models.Service
	orders    map[string]*models.Order
	billed    map[string]*models.BilledService

	nextNumber      int64
	numbersConsumed int
	servicioLookups int
}

// syncServiceForTest arma un ContificoSyncService cuyas búsquedas van contra
// los fixtures y cuyas colecciones solo aportan su nombre (cliente de mongo
// sin conexión real).
func syncServiceForTest(t *testing.T, fx *syncFixtures) *ContificoSyncService {
	t.Helper()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("no se pudo crear el cliente de mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	db := client.Database("test")

	svc := &ContificoSyncService{
		orders: &OrderService{
			BaseServiceMongoImpl: NewBaseServiceMongo[models.Order](db.Collection("orders")),
			counters:             db.Collection("counters"),
		},
		billed: &BilledServiceService{
			BaseServiceMongoImpl: NewBaseServiceMongo[models.BilledService](db.Collection("serviciosFacturados")),
		},
		stats: &MonthlyStatisticService{
			BaseServiceMongoImpl: NewBaseServiceMongo[models.MonthlyStatistic](db.Collection("monthlyStatistics")),
		},
	}

	svc.findStore = func(ctx context.Context, codigo string) (*models.Store, error) {
		return fx.stores[codigo], nil
	}
	svc.findUser = func(ctx context.Context, cedula string) (*models.User, error) {
		return fx.users[cedula], nil
	}
	svc.findProduct = func(ctx context.Context, idContifico string) (*models.Product, error) {
		return fx.products[idContifico], nil
	}
	svc.findServicio = func(ctx context.Context, idContifico string) (*models.Service, error) {
		fx.servicioLookups++
		return fx.servicios[idContifico], nil
	}
	svc.findOrder = func(ctx context.Context, idContifico string) (*models.Order, error) {
		return fx.orders[idContifico], nil
	}
	svc.findBilled = func(ctx context.Context, idContifico string) (*models.BilledService, error) {
		return fx.billed[idContifico], nil
	}
	svc.nextOrderNumber = func(ctx context.Context) (int64, error) {
		fx.numbersConsumed++
		fx.nextNumber++
		return fx.nextNumber, nil
	}

	return svc
}

// runDocument procesa un documento y devuelve las operaciones confirmadas
func runDocument(t *testing.T, svc *ContificoSyncService, doc contifico.Document, now time.Time) []batch.StagedOp {
	t.Helper()

	var staged []batch.StagedOp
	w := batch.NewWriterWithCommit(0, func(ctx context.Context, ops []batch.StagedOp) error {
		staged = append(staged, ops...)
		return nil
	})

	if err := svc.processDocument(context.Background(), w, doc, now); err != nil {
		t.Fatalf("processDocument falló: %v", err)
	}
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush falló: %v", err)
	}
	return staged
}

// bucketDelta busca el incremento encolado sobre el balde cuya única
// dimensión no nula es dim=id (id nil busca el balde general)
func bucketDelta(t *testing.T, ops []batch.StagedOp, dim string, id *primitive.ObjectID) *UpdateData {
	t.Helper()

	refs := []string{"storeRef", "asesorRef", "clientRef", "productRef", "serviceRef"}
	for _, op := range ops {
		if op.Collection != "monthlyStatistics" {
			continue
		}
		upd, ok := op.Model.(*mongo.UpdateOneModel)
		if !ok {
			continue
		}
		filter, ok := upd.Filter.(bson.M)
		if !ok {
			continue
		}

		match := true
		for _, ref := range refs {
			got, _ := filter[ref].(*primitive.ObjectID)
			var want *primitive.ObjectID
			if ref == dim {
				want = id
			}
			if (got == nil) != (want == nil) || (got != nil && *got != *want) {
				match = false
				break
			}
		}
		if match {
			return upd.Update.(*UpdateData)
		}
	}
	return nil
}

func TestProcessDocumentCreaOrdenYBaldes(t *testing.T) {
	store := &models.Store{ID: primitive.NewObjectID(), NumeroEstablecimiento: "001"}
	cliente := &models.User{ID: primitive.NewObjectID(), Cedula: "0101"}
	producto := &models.Product{ID: primitive.NewObjectID(), IDContifico: "P1"}

	fx := &syncFixtures{
		stores:   map[string]*models.Store{"001": store},
		users:    map[string]*models.User{"0101": cliente},
		products: map[string]*models.Product{"P1": producto},
	}
	svc := syncServiceForTest(t, fx)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := contifico.Document{
		ID:        "D1",
		Documento: "001-002-000123",
		Estado:    contifico.EstadoCobrado,
		Cliente:   &contifico.Persona{Cedula: "0101"},
		Detalles: []contifico.Detalle{
			{ProductoID: "P1", Cantidad: "2", Precio: "10"},
		},
		Cobros: []contifico.Cobro{
			{FormaCobro: contifico.FormaCobroTarjeta, NumeroComprobante: "X1", Fecha: "01/06/2025"},
		},
	}

	staged := runDocument(t, svc, doc, now)

	// Una orden nueva y cuatro baldes: general, local, cliente y producto
	var order *models.Order
	for _, op := range staged {
		if op.Collection != "orders" {
			continue
		}
		ins, ok := op.Model.(*mongo.InsertOneModel)
		if !ok {
			t.Fatalf("la orden nueva debe encolarse como insert, fue %T", op.Model)
		}
		o := ins.Document.(models.Order)
		order = &o
	}
	if order == nil {
		t.Fatal("no se encoló la creación de la orden")
	}

	if order.IDContifico != "D1" {
		t.Errorf("IDContifico = %q", order.IDContifico)
	}
	if order.OrderStatus != models.OrderStatusPagoPorValidar {
		t.Errorf("OrderStatus = %q, se esperaba %q", order.OrderStatus, models.OrderStatusPagoPorValidar)
	}
	if order.PaymentMethods == nil || *order.PaymentMethods != models.PaymentMethodCreditCard {
		t.Errorf("PaymentMethods = %v, se esperaba creditCard", order.PaymentMethods)
	}
	if order.PaymentTransactionID == nil || *order.PaymentTransactionID != "X1" {
		t.Errorf("PaymentTransactionID = %v", order.PaymentTransactionID)
	}
	if order.ClientUserID == nil || *order.ClientUserID != cliente.ID {
		t.Errorf("ClientUserID = %v, se esperaba el cliente resuelto", order.ClientUserID)
	}
	if len(order.ProductsList) != 1 {
		t.Fatalf("ProductsList tiene %d líneas, se esperaba 1", len(order.ProductsList))
	}
	linea := order.ProductsList[0]
	if linea.ProductID != producto.ID || linea.Quantity != 2 || linea.TotalPrice != 20 {
		t.Errorf("línea = %+v", linea)
	}
	if order.OrderNumber != 1 {
		t.Errorf("OrderNumber = %d, se esperaba 1", order.OrderNumber)
	}
	if order.ShippingMethod != "pickup" {
		t.Errorf("ShippingMethod = %q", order.ShippingMethod)
	}

	for _, balde := range []struct {
		nombre string
		dim    string
		id     *primitive.ObjectID
	}{
		{"general", "", nil},
		{"local", "storeRef", &store.ID},
		{"cliente", "clientRef", &cliente.ID},
		{"producto", "productRef", &producto.ID},
	} {
		delta := bucketDelta(t, staged, balde.dim, balde.id)
		if delta == nil {
			t.Errorf("no se encoló el balde %s", balde.nombre)
			continue
		}
		if delta.Inc["totalValue"] != 20.0 {
			t.Errorf("balde %s: totalValue = %v, se esperaba 20", balde.nombre, delta.Inc["totalValue"])
		}
		if delta.Inc["totalTransactions"] != int64(1) {
			t.Errorf("balde %s: totalTransactions = %v, se esperaba 1", balde.nombre, delta.Inc["totalTransactions"])
		}
		if delta.Inc["productCount"] != 2.0 {
			t.Errorf("balde %s: productCount = %v, se esperaba 2", balde.nombre, delta.Inc["productCount"])
		}
	}

	for _, op := range staged {
		if op.Collection == "serviciosFacturados" {
			t.Error("un documento solo de productos no debe tocar serviciosFacturados")
		}
	}
}

func TestProcessDocumentEnrutaProductoAntesQueServicio(t *testing.T) {
	producto := &models.Product{ID: primitive.NewObjectID(), IDContifico: "X1"}
	servicio := &models.Service{ID: primitive.NewObjectID(), IDContifico: "X1"}

	fx := &syncFixtures{
		products:  map[string]*models.Product{"X1": producto},
		servicios: map[string]*models.Service{"X1": servicio},
	}
	svc := syncServiceForTest(t, fx)

	doc := contifico.Document{
		ID:        "D2",
		Documento: "002-001-000001",
		Detalles:  []contifico.Detalle{{ProductoID: "X1", Cantidad: "1", Precio: "30"}},
	}
	staged := runDocument(t, svc, doc, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	// El catálogo de productos gana: la línea nunca llega a consultarse
	// como servicio
	if fx.servicioLookups != 0 {
		t.Errorf("se consultó el catálogo de servicios %d veces", fx.servicioLookups)
	}
	if bucketDelta(t, staged, "productRef", &producto.ID) == nil {
		t.Error("no se encoló el balde del producto")
	}
	if bucketDelta(t, staged, "serviceRef", &servicio.ID) != nil {
		t.Error("la línea no debe contar también como servicio")
	}
	for _, op := range staged {
		if op.Collection == "serviciosFacturados" {
			t.Error("no debe crearse un servicio facturado")
		}
	}
}

func TestProcessDocumentLineaSinCatalogoSeIgnora(t *testing.T) {
	fx := &syncFixtures{}
	svc := syncServiceForTest(t, fx)

	doc := contifico.Document{
		ID:        "D3",
		Documento: "003-001-000009",
		Detalles:  []contifico.Detalle{{ProductoID: "nadie", Cantidad: "1", Precio: "5"}},
	}
	staged := runDocument(t, svc, doc, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	// Sin líneas resueltas no hay orden, ni servicio facturado, ni baldes
	// (los deltas en cero no materializan el balde general)
	if len(staged) != 0 {
		t.Errorf("se encolaron %d operaciones, se esperaba 0: %+v", len(staged), staged)
	}
	if fx.numbersConsumed != 0 {
		t.Errorf("se consumieron %d números de orden", fx.numbersConsumed)
	}
}

func TestProcessDocumentActualizaOrdenExistente(t *testing.T) {
	producto := &models.Product{ID: primitive.NewObjectID(), IDContifico: "P1"}
	existente := &models.Order{ID: primitive.NewObjectID(), IDContifico: "D1", OrderNumber: 7}

	fx := &syncFixtures{
		products: map[string]*models.Product{"P1": producto},
		orders:   map[string]*models.Order{"D1": existente},
	}
	svc := syncServiceForTest(t, fx)

	doc := contifico.Document{
		ID:         "D1",
		Documento:  "001-002-000123",
		Estado:     contifico.EstadoEnviado,
		Subtotal12: "100",
		IVA:        "15",
		Total:      "115",
		Detalles:   []contifico.Detalle{{ProductoID: "P1", Cantidad: "3", Precio: "5"}},
	}
	staged := runDocument(t, svc, doc, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	var update *mongo.UpdateOneModel
	for _, op := range staged {
		if op.Collection != "orders" {
			continue
		}
		upd, ok := op.Model.(*mongo.UpdateOneModel)
		if !ok {
			t.Fatalf("una orden ya registrada debe actualizarse, no %T", op.Model)
		}
		update = upd
	}
	if update == nil {
		t.Fatal("no se encoló la actualización de la orden")
	}

	filter := update.Filter.(bson.M)
	if filter["idContifico"] != "D1" {
		t.Errorf("filtro = %v, se esperaba idContifico D1", filter)
	}

	set := update.Update.(*UpdateData).Set
	if set["orderStatus"] != models.OrderStatusEnviado {
		t.Errorf("orderStatus = %v, se esperaba %q", set["orderStatus"], models.OrderStatusEnviado)
	}
	if set["subtotal"] != 100.0 || set["totalValue"] != 115.0 || set["tax"] != 15.0 {
		t.Errorf("proyección contable = %v", set)
	}
	// Los campos de gestión no viajan en el $set y el número de orden no
	// se consume en una actualización
	if _, ok := set["orderNumber"]; ok {
		t.Error("la actualización no debe tocar el número de orden")
	}
	if _, ok := set["internalNote"]; ok {
		t.Error("la actualización no debe tocar las notas internas")
	}
	if fx.numbersConsumed != 0 {
		t.Errorf("se consumieron %d números de orden, se esperaba 0", fx.numbersConsumed)
	}
}
