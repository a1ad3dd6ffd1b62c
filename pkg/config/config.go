package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la estación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App           AppConfig
	DB            DBConfig
	HTTP          HTTPConfig
	Workbench     WorkbenchConfig
	Printer       PrinterConfig
	IPFS          IPFSConfig
	Robonomics    RobonomicsConfig
	BusinessLogic BusinessLogicConfig
	HID           HIDConfig
	MQTT          MQTTConfig
	Cache         CacheConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env           string // development, staging, production
	Name          string
	LogLevel      string
	StorageDriver string // postgres | memory
	LabelsDir     string // directorio temporal para etiquetas y pasaportes
	CatalogFile   string // YAML de operarios y esquemas; siembra el driver memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WorkbenchConfig identidad de la estación.
type WorkbenchConfig struct {
	Number        int
	Login         bool   // false => se usa DummyEmployee y la estación arranca autorizada
	DummyEmployee string // "tarjeta nombre cargo"
}

// PrinterConfig impresora de etiquetas.
type PrinterConfig struct {
	Enable                  bool
	URL                     string
	PrintBarcode            bool
	PrintQR                 bool
	PrintQROnlyForComposite bool
	PrintSecurityTag        bool
	SecurityTagAddTimestamp bool
}

// IPFSConfig pasarela de publicación de pasaportes.
type IPFSConfig struct {
	Enable bool
	URL    string
}

// RobonomicsConfig notarización en el ledger público.
type RobonomicsConfig struct {
	EnableDatalog bool
	URL           string
}

// BusinessLogicConfig servicio externo de seguimiento de fabricación.
type BusinessLogicConfig struct {
	StartURI       string
	ManualInputURI string
	StopURI        string
	Timeout        time.Duration
}

// HIDConfig tokens del demonio de escáneres (vacío => endpoints HID sin autenticación).
type HIDConfig struct {
	JWTSecret string
	Issuer    string
}

// MQTTConfig broker opcional para publicar el estado y recibir eventos HID.
type MQTTConfig struct {
	Enable      bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// CacheConfig caché de esquemas.
type CacheConfig struct {
	SchemaTTL time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, WORKBENCH_NUMBER, PRINTER_ENABLE, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:           getString(v, "APP_ENV", "development"),
			Name:          getString(v, "APP_NAME", "workbench-api"),
			LogLevel:      getString(v, "LOG_LEVEL", "info"),
			StorageDriver: getString(v, "STORAGE_DRIVER", "postgres"),
			LabelsDir:     getString(v, "LABELS_DIR", ""),
			CatalogFile:   getString(v, "CATALOG_FILE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "workbench"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 5000),
		},
		Workbench: WorkbenchConfig{
			Number:        getInt(v, "WORKBENCH_NUMBER", 1),
			Login:         getBool(v, "WORKBENCH_LOGIN", true),
			DummyEmployee: getString(v, "WORKBENCH_DUMMY_EMPLOYEE", "0000000000 Operario Ensamblador"),
		},
		Printer: PrinterConfig{
			Enable:                  getBool(v, "PRINTER_ENABLE", false),
			URL:                     getString(v, "PRINTER_URL", "http://127.0.0.1:8083"),
			PrintBarcode:            getBool(v, "PRINTER_PRINT_BARCODE", true),
			PrintQR:                 getBool(v, "PRINTER_PRINT_QR", true),
			PrintQROnlyForComposite: getBool(v, "PRINTER_PRINT_QR_ONLY_FOR_COMPOSITE", false),
			PrintSecurityTag:        getBool(v, "PRINTER_PRINT_SECURITY_TAG", false),
			SecurityTagAddTimestamp: getBool(v, "PRINTER_SECURITY_TAG_ADD_TIMESTAMP", true),
		},
		IPFS: IPFSConfig{
			Enable: getBool(v, "IPFS_GATEWAY_ENABLE", false),
			URL:    getString(v, "IPFS_GATEWAY_URL", "http://127.0.0.1:8082"),
		},
		Robonomics: RobonomicsConfig{
			EnableDatalog: getBool(v, "ROBONOMICS_ENABLE_DATALOG", false),
			URL:           getString(v, "ROBONOMICS_URL", "http://127.0.0.1:8084"),
		},
		BusinessLogic: BusinessLogicConfig{
			StartURI:       getString(v, "BUSINESS_LOGIC_START_URI", "http://127.0.0.1:8086/start"),
			ManualInputURI: getString(v, "BUSINESS_LOGIC_MANUAL_INPUT_URI", "http://127.0.0.1:8086/manual-input"),
			StopURI:        getString(v, "BUSINESS_LOGIC_STOP_URI", "http://127.0.0.1:8086/stop"),
			Timeout:        getDuration(v, "BUSINESS_LOGIC_TIMEOUT", 30*time.Second),
		},
		HID: HIDConfig{
			JWTSecret: getString(v, "HID_JWT_SECRET", ""),
			Issuer:    getString(v, "HID_JWT_ISSUER", "workbench-hid"),
		},
		MQTT: MQTTConfig{
			Enable:      getBool(v, "MQTT_ENABLE", false),
			Broker:      getString(v, "MQTT_BROKER", "tcp://127.0.0.1:1883"),
			ClientID:    getString(v, "MQTT_CLIENT_ID", ""),
			Username:    getString(v, "MQTT_USERNAME", ""),
			Password:    getString(v, "MQTT_PASSWORD", ""),
			TopicPrefix: getString(v, "MQTT_TOPIC_PREFIX", "workbench"),
		},
		Cache: CacheConfig{
			SchemaTTL: getDuration(v, "SCHEMA_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = fmt.Sprintf("workbench-%d", cfg.Workbench.Number)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.StorageDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER %q no soportado (postgres|memory)", c.App.StorageDriver)
	}
	if c.BusinessLogic.Timeout <= 0 {
		return fmt.Errorf("config: BUSINESS_LOGIC_TIMEOUT debe ser positivo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration acepta "30s", "2m" o segundos enteros.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := v.GetString(key)
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
