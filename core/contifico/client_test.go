package contifico

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListDocuments(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registro/documento/" {
			t.Errorf("path = %s, se esperaba /registro/documento/", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "doc-1",
				"documento": "001-002-000000123",
				"fecha_emision": "15/03/2025",
				"estado": "C",
				"subtotal_12": "100.00",
				"iva": 15,
				"total": "115.00",
				"vendedor": {"cedula": "1710034065"},
				"detalles": [{"producto_id": "p1", "cantidad": "2", "precio": 10}]
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "")
	fecha := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	docs, err := client.ListDocuments(context.Background(), fecha)
	if err != nil {
		t.Fatalf("ListDocuments falló: %v", err)
	}

	// Las consultas de registro van con el token crudo
	if gotAuth != "api-token" {
		t.Errorf("Authorization = %q, se esperaba el token crudo", gotAuth)
	}
	if gotQuery != "tipo_registro=CLI&fecha_emision=15%2F03%2F2025" {
		t.Errorf("query = %q", gotQuery)
	}

	if len(docs) != 1 {
		t.Fatalf("se esperaba 1 documento, hubo %d", len(docs))
	}
	doc := docs[0]
	if doc.ID != "doc-1" || doc.Estado != "C" {
		t.Errorf("documento = %+v", doc)
	}
	// Los campos numéricos llegan a veces como string y a veces como número
	if v, _ := doc.Subtotal12.Float64(); v != 100 {
		t.Errorf("subtotal_12 = %v, se esperaba 100", v)
	}
	if v, _ := doc.IVA.Float64(); v != 15 {
		t.Errorf("iva = %v, se esperaba 15", v)
	}
	if doc.Vendedor == nil || doc.Vendedor.Cedula != "1710034065" {
		t.Errorf("vendedor = %+v", doc.Vendedor)
	}
	if len(doc.Detalles) != 1 {
		t.Fatalf("se esperaba 1 detalle")
	}
	if v, _ := doc.Detalles[0].Cantidad.Float64(); v != 2 {
		t.Errorf("cantidad = %v, se esperaba 2", v)
	}
}

func TestCreatePersonUsaPosYAPIKey(t *testing.T) {
	var gotAuth, gotPos string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPos = r.URL.Query().Get("pos")
		json.NewEncoder(w).Encode(map[string]string{"id": "per-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "clave-api")
	id, err := client.CreatePerson(context.Background(), Persona{Cedula: "1710034065", RazonSocial: "Ana"})
	if err != nil {
		t.Fatalf("CreatePerson falló: %v", err)
	}
	if id != "per-1" {
		t.Errorf("id = %q, se esperaba per-1", id)
	}
	if gotAuth != "clave-api" {
		t.Errorf("Authorization = %q, se esperaba la API key", gotAuth)
	}
	if gotPos != "api-token" {
		t.Errorf("pos = %q, se esperaba el token del punto de venta", gotPos)
	}
}

func TestAPIKeyPorDefectoEsBearerDelToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"id": "cat-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "")
	if _, err := client.CreateCategory(context.Background(), CategoryPayload{Nombre: "Spa", TipoProducto: "SERV"}); err != nil {
		t.Fatalf("CreateCategory falló: %v", err)
	}
	if gotAuth != "Bearer api-token" {
		t.Errorf("Authorization = %q, se esperaba Bearer api-token", gotAuth)
	}
}

func TestErrorConMensajeEIDDeDuplicado(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"mensaje": "Persona ya registrada", "id": "per-99"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "")
	_, err := client.CreatePerson(context.Background(), Persona{Cedula: "1710034065"})
	if err == nil {
		t.Fatal("se esperaba un error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("se esperaba un *APIError, fue %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, se esperaba 400", apiErr.StatusCode)
	}
	if apiErr.Mensaje != "Persona ya registrada" {
		t.Errorf("Mensaje = %q", apiErr.Mensaje)
	}
	// El id del recurso existente permite tratar el duplicado como éxito
	if apiErr.ID != "per-99" {
		t.Errorf("ID = %q, se esperaba per-99", apiErr.ID)
	}
}

func TestErrorSinCuerpoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream caído"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "")
	_, err := client.ListWarehouses(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("se esperaba un *APIError, fue %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, se esperaba 502", apiErr.StatusCode)
	}
	if apiErr.Mensaje != "" || apiErr.ID != "" {
		t.Errorf("un cuerpo no JSON no debe aportar mensaje ni id: %+v", apiErr)
	}
}

func TestGetPersonPorID(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/persona/per-7/" {
			t.Errorf("path = %s, se esperaba /persona/per-7/", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "per-7", "cedula": "1710034065", "razon_social": "Ana Pérez"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "clave-api")
	persona, err := client.GetPerson(context.Background(), "per-7")
	if err != nil {
		t.Fatalf("GetPerson falló: %v", err)
	}

	if gotAuth != "clave-api" {
		t.Errorf("Authorization = %q, se esperaba la clave de API", gotAuth)
	}
	if persona.ID != "per-7" || persona.Cedula != "1710034065" || persona.RazonSocial != "Ana Pérez" {
		t.Errorf("persona = %+v", persona)
	}
}

func TestGetPersonNoExiste(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"mensaje": "Persona no encontrada"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-token", "")
	_, err := client.GetPerson(context.Background(), "per-404")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("se esperaba un *APIError, fue %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, se esperaba 404", apiErr.StatusCode)
	}
}
