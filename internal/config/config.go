package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Mongo        MongoConfig        `mapstructure:"mongo"`
	Auth         AuthConfig         `mapstructure:"auth"`
	NLP          NLPConfig          `mapstructure:"nlp"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	Path     string `mapstructure:"path"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns the connection string for the configured driver
func (c DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Database,
		)
	case DriverSQLite:
		return c.Path
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type NLPConfig struct {
	Provider      string              `mapstructure:"provider"`
	Timeout       time.Duration       `mapstructure:"timeout"`
	IntentService IntentServiceConfig `mapstructure:"intent_service"`
	Ollama        OllamaConfig        `mapstructure:"ollama"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
}

type IntentServiceConfig struct {
	URL string `mapstructure:"url"`
}

type OllamaConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Supported session stores
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type ConversationConfig struct {
	SessionStore   string        `mapstructure:"session_store"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	MaxHeightCm    int           `mapstructure:"max_height_cm"`
	MaxWeightKg    int           `mapstructure:"max_weight_kg"`
	FAQURL         string        `mapstructure:"faq_url"`
	SignupURL      string        `mapstructure:"signup_url"`
	ReportKeywords []string      `mapstructure:"report_keywords"`
	LogTimeout     time.Duration `mapstructure:"log_timeout"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	switch c.Conversation.SessionStore {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("unsupported session store: %q", c.Conversation.SessionStore)
	}
	if c.NLP.Timeout <= 0 {
		return fmt.Errorf("nlp.timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "nutrisaas")
	v.SetDefault("database.database", "nutrisaas")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "./nutrisaas.db")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Mongo
	v.SetDefault("mongo.enabled", false)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "nutrisaas")
	v.SetDefault("mongo.collection", "chat_exchanges")

	// Auth
	v.SetDefault("auth.access_token_ttl", "168h") // 7 days

	// NLP
	v.SetDefault("nlp.provider", "intentsvc")
	v.SetDefault("nlp.timeout", "10s")
	v.SetDefault("nlp.intent_service.url", "http://127.0.0.1:8000")
	v.SetDefault("nlp.ollama.host", "http://localhost:11434")
	v.SetDefault("nlp.ollama.model", "llama3")
	v.SetDefault("nlp.gemini.model", "gemini-2.5-flash")

	// Conversation
	v.SetDefault("conversation.session_store", SessionStoreRedis)
	v.SetDefault("conversation.session_ttl", "2h")
	v.SetDefault("conversation.max_height_cm", 300)
	v.SetDefault("conversation.max_weight_kg", 500)
	v.SetDefault("conversation.faq_url", "/chatbot/public/FAQs")
	v.SetDefault("conversation.signup_url", "/signup")
	v.SetDefault("conversation.report_keywords", []string{"altura", "height", "estadisticas", "estadísticas", "stats"})
	v.SetDefault("conversation.log_timeout", "5s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation_time", "24h")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "POSTGRES_HOST")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Mongo
	v.BindEnv("mongo.uri", "MONGO_URI")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// NLP
	v.BindEnv("nlp.provider", "NLP_PROVIDER")
	v.BindEnv("nlp.intent_service.url", "NLP_SERVICE_URL")
	v.BindEnv("nlp.ollama.host", "OLLAMA_HOST")
	v.BindEnv("nlp.gemini.api_key", "GEMINI_API_KEY")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
}
