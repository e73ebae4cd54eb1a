package contifico

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client es el cliente HTTP de la API de Contifico.
// authToken autentica las consultas de registro (header crudo); apiKey
// autentica las operaciones de creación (header Bearer / API key del POS).
type Client struct {
	baseURL    string
	authToken  string
	apiKey     string
	httpClient *http.Client
}

// NewClient crea un cliente con timeout de 30 segundos. Si apiKey está vacío
// se usa el authToken también para las operaciones de creación.
func NewClient(baseURL, authToken, apiKey string) *Client {
	if apiKey == "" {
		apiKey = "Bearer " + authToken
	}
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListDocuments obtiene los documentos de clientes emitidos en la fecha dada
// (GET /registro/documento/?tipo_registro=CLI&fecha_emision=DD/MM/YYYY).
func (c *Client) ListDocuments(ctx context.Context, fecha time.Time) ([]Document, error) {
	endpoint := fmt.Sprintf("%s/registro/documento/?tipo_registro=CLI&fecha_emision=%s",
		c.baseURL, url.QueryEscape(fecha.Format(FechaLayout)))

	var docs []Document
	if err := c.do(ctx, http.MethodGet, endpoint, c.authToken, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateCategory crea una categoría (POST /categoria/) y devuelve su id.
func (c *Client) CreateCategory(ctx context.Context, payload CategoryPayload) (string, error) {
	var resp IDResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/categoria/", c.apiKey, payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateProduct crea un producto o servicio (POST /producto/) y devuelve su id.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (string, error) {
	var resp IDResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/producto/", c.apiKey, payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListWarehouses lista las bodegas (GET /bodega/).
func (c *Client) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	var bodegas []Warehouse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/bodega/", c.apiKey, nil, &bodegas); err != nil {
		return nil, err
	}
	return bodegas, nil
}

// CreateInventoryMovement registra un movimiento de inventario
// (POST /movimiento-inventario/).
func (c *Client) CreateInventoryMovement(ctx context.Context, payload InventoryMovementPayload) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/movimiento-inventario/", c.apiKey, payload, nil)
}

// CreatePerson crea una persona (POST /persona/?pos=<token>) y devuelve su id.
func (c *Client) CreatePerson(ctx context.Context, payload Persona) (string, error) {
	endpoint := fmt.Sprintf("%s/persona/?pos=%s", c.baseURL, url.QueryEscape(c.authToken))

	var resp IDResponse
	if err := c.do(ctx, http.MethodPost, endpoint, c.apiKey, payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetPerson obtiene una persona por su id (GET /persona/{id}/). Devuelve
// *APIError con status 404 cuando no existe.
func (c *Client) GetPerson(ctx context.Context, id string) (*Persona, error) {
	endpoint := fmt.Sprintf("%s/persona/%s/", c.baseURL, url.PathEscape(id))

	var persona Persona
	if err := c.do(ctx, http.MethodGet, endpoint, c.apiKey, nil, &persona); err != nil {
		return nil, err
	}
	return &persona, nil
}

// CreateDocument emite un documento electrónico (POST /documento/) y
// devuelve su id.
func (c *Client) CreateDocument(ctx context.Context, payload DocumentPayload) (string, error) {
	var resp IDResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/documento/", c.apiKey, payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// do ejecuta la request y decodifica la respuesta. Las respuestas no-2xx se
// decodifican como {mensaje, id} y devuelven un *APIError con el status
// upstream.
func (c *Client) do(ctx context.Context, method, endpoint, auth string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Mensaje string `json:"mensaje"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(data, &errBody); err == nil {
			apiErr.Mensaje = errBody.Mensaje
			apiErr.ID = errBody.ID
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("contifico: failed to decode response: %w", err)
		}
	}
	return nil
}
