package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manilex2/studio-app-functions/config"
	"github.com/manilex2/studio-app-functions/core/api/dto"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/contifico"
	"github.com/manilex2/studio-app-functions/core/global"
)

func TestMain(m *testing.M) {
	global.InitValidator()
	global.ServerConfig = &config.Configuration{
		ContificoAuthToken: "token-pos-test",
	}
	os.Exit(m.Run())
}

func TestValidateProductServiceInput(t *testing.T) {
	valido := dto.ProductServiceCreateInput{
		Nombre:    "Shampoo hidratante",
		Precio:    12.5,
		Compra:    8,
		Tipo:      "PROD",
		Categoria: "cat-1",
		Sku:       "SH-001",
	}

	cases := []struct {
		name    string
		mutate  func(input *dto.ProductServiceCreateInput)
		wantMsg string
	}{
		{
			name:    "precio en cero",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Precio = 0 },
			wantMsg: "El precio debe ser mayor a 0 para registrar el producto/servicio",
		},
		{
			name:    "tipo vacío",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Tipo = "" },
			wantMsg: "El tipo de producto/servicio es obligatorio para registrar el producto/servicio",
		},
		{
			name:    "categoría vacía",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Categoria = "" },
			wantMsg: "La categoría del producto/servicio es obligatoria para registrar el producto/servicio",
		},
		{
			name:    "tipo desconocido",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Tipo = "OTRO" },
			wantMsg: `El tipo de producto/servicio debe ser "PROD" o "SERV"`,
		},
		{
			name:    "producto sin sku",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Sku = "" },
			wantMsg: "El SKU del producto es obligatorio para registrar el producto",
		},
		{
			name:    "producto sin precio de compra",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Compra = 0 },
			wantMsg: "El precio de compra debe ser mayor a 0 para registrar el movimiento de inventario",
		},
		{
			name:    "nombre vacío",
			mutate:  func(i *dto.ProductServiceCreateInput) { i.Nombre = "" },
			wantMsg: "El nombre del producto/servicio es obligatorio para registrar el producto/servicio",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			input := valido
			c.mutate(&input)

			err := validateProductServiceInput(input)
			require.Error(t, err)

			var appErr *common.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, c.wantMsg, appErr.Message)
			assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
		})
	}

	// Un servicio no exige sku ni precio de compra
	servicio := dto.ProductServiceCreateInput{
		Nombre:    "Corte de cabello",
		Precio:    15,
		Tipo:      "SERV",
		Categoria: "cat-2",
	}
	assert.NoError(t, validateProductServiceInput(servicio))
}

func TestCreateProductConStockEncadenaMovimiento(t *testing.T) {
	var productPayload, movementPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/producto/":
			json.NewDecoder(r.Body).Decode(&productPayload)
			json.NewEncoder(w).Encode(map[string]string{"id": "prod-55"})
		case "/bodega/":
			json.NewEncoder(w).Encode([]map[string]string{{"id": "bod-1", "nombre": "Principal"}})
		case "/movimiento-inventario/":
			json.NewDecoder(r.Body).Decode(&movementPayload)
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("endpoint inesperado: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	id, err := svc.CreateProductOrService(context.Background(), dto.ProductServiceCreateInput{
		Nombre:    "Acondicionador",
		Precio:    9.9,
		Compra:    6,
		Tipo:      "PROD",
		Categoria: "cat-1",
		Sku:       "AC-002",
		Stock:     10,
		Estado:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-55", id)

	require.NotNil(t, productPayload)
	assert.Equal(t, "PROD", productPayload["tipo"])
	assert.Equal(t, "A", productPayload["estado"])
	assert.Equal(t, "AC-002", productPayload["codigo"])
	assert.Equal(t, float64(1), productPayload["minimo"])

	require.NotNil(t, movementPayload)
	assert.Equal(t, "ING", movementPayload["tipo"])
	assert.Equal(t, "bod-1", movementPayload["bodega_id"])
	assert.Equal(t, "Ingreso de Inventario", movementPayload["descripcion"])
	detalles := movementPayload["detalles"].([]interface{})
	require.Len(t, detalles, 1)
	linea := detalles[0].(map[string]interface{})
	assert.Equal(t, "prod-55", linea["producto_id"])
	assert.Equal(t, float64(10), linea["cantidad"])
	assert.Equal(t, float64(6), linea["precio"])
}

func TestCreateServicioSinStockNoMueveInventario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/producto/":
			json.NewEncoder(w).Encode(map[string]string{"id": "serv-9"})
		default:
			t.Errorf("endpoint inesperado: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	id, err := svc.CreateProductOrService(context.Background(), dto.ProductServiceCreateInput{
		Nombre:    "Manicure",
		Precio:    20,
		Tipo:      "SERV",
		Categoria: "cat-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "serv-9", id)
}

func TestCreateInventoryMovementValidaPreciosDeIngreso(t *testing.T) {
	svc := NewContificoProvisionServiceWithClient(contifico.NewClient("http://no-se-usa", "token", ""))

	err := svc.CreateInventoryMovement(context.Background(), dto.InventoryMovementCreateInput{
		Tipo:           "ING",
		ProductDetails: []dto.MovementDetailInput{{ID: "prod-1", Cantidad: 5}},
	})
	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "El producto/servicio con ID prod-1 debe tener un precio para un movimiento de ingreso (ING).", appErr.Message)

	cero := 0.0
	err = svc.CreateInventoryMovement(context.Background(), dto.InventoryMovementCreateInput{
		Tipo:           "ING",
		ProductDetails: []dto.MovementDetailInput{{ID: "prod-2", Cantidad: 5, Precio: &cero}},
	})
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "El precio del producto/servicio con ID prod-2 no puede ser negativo o 0.", appErr.Message)
}

func TestCreateInventoryMovementSinBodega(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	precio := 3.5
	err := svc.CreateInventoryMovement(context.Background(), dto.InventoryMovementCreateInput{
		Tipo:           "ING",
		ProductDetails: []dto.MovementDetailInput{{ID: "prod-3", Cantidad: 1, Precio: &precio}},
	})

	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "No se encontró una bodega para registrar el movimiento de inventario", appErr.Message)
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
}

func TestCreateCategoryValidaInput(t *testing.T) {
	svc := NewContificoProvisionServiceWithClient(contifico.NewClient("http://no-se-usa", "token", ""))

	_, err := svc.CreateCategory(context.Background(), dto.CategoryCreateInput{Category: "Peluquería", Tipo: "OTRO"})
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.MsgValidationError, appErr.Message)
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
}

func TestCreateElectronicDocument(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documento/" {
			t.Errorf("endpoint inesperado: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]string{"id": "doc-77"})
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	id, err := svc.CreateElectronicDocument(context.Background(), dto.DocumentCreateInput{
		Cliente: dto.ClientCreateInput{
			Cedula:      "1710034065",
			RazonSocial: "María Pérez",
			Email:       "maria@example.com",
		},
		Detalles: []dto.DocumentDetailInput{
			{ProductoID: "prod-1", Cantidad: 2, Precio: 10, PorcentajeIVA: 15, BaseGravable: 20},
		},
		Cobros:      []dto.DocumentCobroInput{{FormaCobro: "TC", Monto: 23}},
		Electronico: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-77", id)

	require.NotNil(t, payload)
	assert.Equal(t, "token-pos-test", payload["pos"])
	assert.Equal(t, "FAC", payload["tipo_documento"])

	cliente := payload["cliente"].(map[string]interface{})
	assert.Equal(t, "1710034065", cliente["cedula"])
	assert.Equal(t, true, cliente["es_cliente"])

	detalles := payload["detalles"].([]interface{})
	require.Len(t, detalles, 1)
	linea := detalles[0].(map[string]interface{})
	assert.Equal(t, float64(15), linea["porcentaje_iva"])
	assert.Equal(t, float64(20), linea["base_gravable"])
}

func TestWrapContificoError(t *testing.T) {
	// Error de la API con mensaje y status upstream
	err := wrapContificoError(&contifico.APIError{StatusCode: 422, Mensaje: "Documento ya registrado"})
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Documento ya registrado", appErr.Message)
	assert.Equal(t, 422, appErr.StatusCode)

	// Error de la API sin mensaje
	err = wrapContificoError(&contifico.APIError{StatusCode: 500})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Error al comunicarse con Contifico", appErr.Message)

	// Un *common.Error pasa sin envolverse
	original := common.NewError(common.ErrCodeValidationInput, "ya validado", common.StatusBadRequest, nil)
	assert.Equal(t, original, wrapContificoError(original))

	// Cualquier otro error se reporta como fallo del servicio externo
	err = wrapContificoError(errors.New("conexión rechazada"))
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.MsgExternalAPI, appErr.Message)
	assert.Equal(t, common.StatusInternalServerError, appErr.StatusCode)
}

func TestCreateClientDuplicadoReutilizaID(t *testing.T) {
	var gotPersonPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/persona/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"mensaje": "Persona ya registrada", "id": "per-42"})
		case r.Method == http.MethodGet:
			gotPersonPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]string{"id": "per-42", "cedula": "1710034065"})
		default:
			t.Errorf("request inesperada: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	id, err := svc.CreateClient(context.Background(), dto.ClientCreateInput{
		Cedula:      "1710034065",
		RazonSocial: "Ana Pérez",
		Email:       "ana@example.com",
		EsCliente:   true,
	})

	// El duplicado trae el id de la persona existente: se confirma por
	// GET /persona/{id}/ y se devuelve como éxito
	require.NoError(t, err)
	assert.Equal(t, "per-42", id)
	assert.Equal(t, "/persona/per-42/", gotPersonPath)
}

func TestCreateClientDuplicadoSinPersonaPropagaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/persona/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"mensaje": "Persona ya registrada", "id": "per-42"})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"mensaje": "Persona no encontrada"})
		}
	}))
	defer server.Close()

	svc := NewContificoProvisionServiceWithClient(contifico.NewClient(server.URL, "token", ""))
	_, err := svc.CreateClient(context.Background(), dto.ClientCreateInput{
		Cedula:      "1710034065",
		RazonSocial: "Ana Pérez",
		Email:       "ana@example.com",
		EsCliente:   true,
	})

	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Persona ya registrada", appErr.Message)
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
}
