package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manilex2/studio-app-functions/core/common"
)

// GraphAPIVersion es la versión de la Cloud API de WhatsApp en uso
const GraphAPIVersion = "v23.0"

// WhatsAppChannel envía mensajes de texto por la Cloud API de WhatsApp
// (Graph API de Meta). Implementa notification.Dispatcher.
type WhatsAppChannel struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpClient    *http.Client
}

// NewWhatsAppChannel crea un canal de WhatsApp con el token y el número
// emisor configurados.
func NewWhatsAppChannel(token, phoneNumberID string) *WhatsAppChannel {
	return &WhatsAppChannel{
		baseURL:       fmt.Sprintf("https://graph.facebook.com/%s", GraphAPIVersion),
		token:         token,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWhatsAppChannelWithBaseURL permite apuntar a otra URL base (tests)
func NewWhatsAppChannelWithBaseURL(baseURL, token, phoneNumberID string) *WhatsAppChannel {
	channel := NewWhatsAppChannel(token, phoneNumberID)
	channel.baseURL = baseURL
	return channel
}

// Send envía un mensaje de texto al número indicado
func (c *WhatsAppChannel) Send(ctx context.Context, to string, message string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": message,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewExternalError("Error al comunicarse con la API de WhatsApp", common.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return common.NewExternalError(
			fmt.Sprintf("La API de WhatsApp respondió con status %d", resp.StatusCode),
			resp.StatusCode,
			string(body),
		)
	}

	return nil
}
