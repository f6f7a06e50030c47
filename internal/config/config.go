// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	ViewBaseURL             string `yaml:"view_base_url"` // публичный адрес просмотрщика меню для QR-ссылок
	TrialDays               int    `yaml:"trial_days" env-default:"14"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	IdentityProvider        `yaml:"identity_provider"`
	Billing                 `yaml:"billing"`
	BlobStorage             `yaml:"blob_storage"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Sweeper                 `yaml:"sweeper"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// IdentityProvider структура для настройки внешнего identity-провайдера.
// JWKSURL и UserinfoURL обычно лежат под IssuerURL, но задаются явно,
// чтобы не зависеть от discovery-документа.
type IdentityProvider struct {
	IssuerURL   string        `yaml:"issuer_url"`
	Audience    string        `yaml:"audience"`
	JWKSURL     string        `yaml:"jwks_url"`
	UserinfoURL string        `yaml:"userinfo_url"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

// Billing структура для настройки платёжного провайдера.
type Billing struct {
	APIURL        string        `yaml:"api_url" env-default:"https://api.stripe.com/v1"`
	SecretKey     string        `yaml:"secret_key" env:"BILLING_SECRET_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"BILLING_WEBHOOK_SECRET"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

// BlobStorage структура для настройки S3-совместимого хранилища файлов.
type BlobStorage struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key" env:"BLOB_ACCESS_KEY"`
	SecretKey  string `yaml:"secret_key" env:"BLOB_SECRET_KEY"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl" env-default:"true"`
	CDNBaseURL string `yaml:"cdn_base_url"`
}

// RabbitMQ структура для настройки подключения к брокеру уведомлений.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"10"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// SMTP структура для настройки почтового транспорта уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// Sweeper структура для настройки периодической проверки истёкших подписок.
type Sweeper struct {
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"24h"`
	WarnBefore    time.Duration `yaml:"warn_before" env-default:"24h"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
