package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration contiene la información estática necesaria para arrancar la
// aplicación: conexión a la base de datos, credenciales de Contifico y de la
// API de WhatsApp, y los parámetros del servidor HTTP.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`       // Puerto del servidor
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URI de conexión a MongoDB
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Nombre de la base de datos
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`     // Origins permitidos (separados por coma, * = todos)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"` // Máximo de requests por ventana (0 = sin límite)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Contifico (API de contabilidad)
	ContificoURI       string `env:"CONTIFICO_URI,required"`        // URL base de la API
	ContificoAuthToken string `env:"CONTIFICO_AUTH_TOKEN,required"` // Token de autenticación (header Authorization y parámetro pos)
	ContificoAPIKey    string `env:"CONTIFICO_API_KEY"`             // API key alternativa para el barrido de catálogo

	// WhatsApp Cloud API (recordatorios de citas)
	WhatsAppAPIToken      string `env:"WHATSAPP_API_TOKEN"`       // Access token de la Cloud API
	WhatsAppPhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID"` // ID del número emisor

	// Workers internos (opcionales; el disparador principal es el cron externo)
	SyncWorkerEnabled     bool `env:"SYNC_WORKER_ENABLED" envDefault:"false"`     // Sincronización diaria de documentos
	ReminderWorkerEnabled bool `env:"REMINDER_WORKER_ENABLED" envDefault:"false"` // Recordatorios de citas
}

// getEnvPath devuelve la ruta al archivo env según el entorno (GO_ENV).
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Usamos fmt.Printf porque el logger puede no estar inicializado aquí
		fmt.Printf("No se pudo obtener el directorio actual: %v\n", err)
		return ""
	}

	// Buscar el directorio config/env subiendo por el árbol
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig lee la configuración desde el archivo env del entorno activo.
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// El archivo env es opcional: en producción las variables llegan
			// directamente del entorno del proceso
			fmt.Printf("No se pudo cargar el archivo env en %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Error al parsear la configuración: %+v\n", err)
		return nil
	}

	return &cfg
}
