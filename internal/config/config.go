// Package config предоставляет единую схему настроек сервиса и функции её загрузки.
//
// Настройки читаются из YAML-файла (CONFIG_PATH) и переопределяются переменными
// окружения. Секреты (ключ подписи, строки подключения) задаются только через
// окружение; в примерах конфигурации их нет.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MinSecretLength — минимальная длина ключа подписи токенов в байтах.
const MinSecretLength = 32

// DefaultCORSOrigin используется, если в настройках нет ни одного корректного источника.
const DefaultCORSOrigin = "http://localhost:3000"

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Config общая структура для хранения настроек
type Config struct {
	Env                     string     `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string     `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	GRPCHealthAddress       string     `yaml:"grpc_health_address" env:"GRPC_HEALTH_ADDRESS"`
	CORSOrigins             []string   `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:","`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                RabbitMQ   `yaml:"rabbitmq"`
	Hashing                 Hashing    `yaml:"hashing"`
	ChatEvents              ChatEvents `yaml:"chat_events"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP     string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8000"`
	TimeoutHTTP     time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"30m"`
	Algorithm    string        `yaml:"algorithm" env:"JWT_ALGORITHM" env-default:"HS256"`
}

// RabbitMQ настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"helpcenter"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// ChatEvents настройки обработчика очереди событий чата (cmd/chat-events).
type ChatEvents struct {
	Queue          string `yaml:"queue" env:"CHAT_EVENTS_QUEUE" env-default:"chat.analyzed"`
	ConsumerTag    string `yaml:"consumer_tag" env:"CHAT_EVENTS_CONSUMER_TAG" env-default:"chat-events"`
	MetricsAddress string `yaml:"metrics_address" env:"CHAT_EVENTS_METRICS_ADDRESS" env-default:":9102"`
}

// Hashing настройки bcrypt.
type Hashing struct {
	Cost int `yaml:"cost" env:"BCRYPT_COST" env-default:"10"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
// Без CONFIG_PATH настройки читаются только из окружения.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла path (если задан) и окружения и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: config file %s: %w", op, path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет значения, которые нельзя выразить тегами cleanenv.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecretKey) < MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if _, ok := supportedAlgorithms[c.Algorithm]; !ok {
		errs = append(errs, fmt.Errorf("unsupported jwt algorithm %q", c.Algorithm))
	}
	if c.StorageConnectionString == "" {
		errs = append(errs, errors.New("storage connection string is required"))
	}
	return errors.Join(errs...)
}

// AllowedOrigins возвращает источники CORS, отбрасывая некорректные и "*":
// ответы API разрешают учётные данные.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range c.CORSOrigins {
		o = strings.TrimSpace(o)
		if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{DefaultCORSOrigin}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"  Algorithm: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressRedis,
		mask(c.Password),
		c.User,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.Algorithm,
		mask(c.RabbitMQ.URL),
		c.RabbitMQ.Exchange,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}
