package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            int           `yaml:"port" env:"VAULT_PORT"`
	MaxUploadSize   int64         `yaml:"max_upload_size" env:"VAULT_MAX_UPLOAD_SIZE"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"VAULT_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"VAULT_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"VAULT_SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	// BasePath корень хранилища (vault root), после загрузки всегда абсолютный.
	BasePath        string      `yaml:"base_path" env:"VAULT_ROOT"`
	DirPermissions  os.FileMode `yaml:"dir_permissions"`
	FilePermissions os.FileMode `yaml:"file_permissions"`
}

type ListingConfig struct {
	MaxDepth int `yaml:"max_depth" env:"VAULT_MAX_LIST_DEPTH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"VAULT_LOG_LEVEL"`
	Format string `yaml:"format" env:"VAULT_LOG_FORMAT"`
}

type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin" env:"VAULT_CORS_ORIGIN"`
}

type RoutesConfig struct {
	List     string `yaml:"list"`
	Upload   string `yaml:"upload"`
	Download string `yaml:"download"`
	Health   string `yaml:"health"`
	Metrics  string `yaml:"metrics"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Listing ListingConfig `yaml:"listing"`
	Log     LogConfig     `yaml:"log"`
	CORS    CORSConfig    `yaml:"cors"`
	Routes  RoutesConfig  `yaml:"routes"`
}

// Default значения, которые yaml и переменные окружения только переопределяют.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			MaxUploadSize:   100 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			BasePath:        "vault",
			DirPermissions:  0o755,
			FilePermissions: 0o644,
		},
		Listing: ListingConfig{MaxDepth: 16},
		Log:     LogConfig{Level: "info", Format: "text"},
		CORS:    CORSConfig{AllowedOrigin: "*"},
		Routes: RoutesConfig{
			List:     "/list",
			Upload:   "/upload",
			Download: "/download",
			Health:   "/health",
			Metrics:  "/metrics",
		},
	}
}

func LoadConfig(filename string) *Config {
	cfg, err := LoadConfigWithError(filename)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LoadConfigWithError читает yaml поверх дефолтов, потом применяет переменные окружения.
// Отсутствующий файл не ошибка: сервер можно настроить одним VAULT_ROOT.
func LoadConfigWithError(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	case errors.Is(err, os.ErrNotExist):
		// только дефолты + окружение
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if envErr := cleanenv.ReadEnv(&cfg); envErr != nil {
		return nil, fmt.Errorf("failed to read environment: %w", envErr)
	}

	// относительный путь к хранилищу делаем абсолютным, независимо от рабочего каталога.
	if cfg.Storage.BasePath != "" {
		absPath, absErr := filepath.Abs(cfg.Storage.BasePath)
		if absErr != nil {
			return nil, fmt.Errorf("failed to resolve storage base path: %w", absErr)
		}
		cfg.Storage.BasePath = absPath
	}

	if validationErr := validateConfig(&cfg); validationErr != nil {
		return nil, validationErr
	}

	return &cfg, nil
}

type validationError struct {
	field string
	msg   string
}

func (e validationError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.msg)
}

func validateConfig(cfg *Config) error {
	type validator func() error

	validators := []validator{
		func() error { return validateRequiredString("storage.base_path", cfg.Storage.BasePath) },
		func() error { return validatePort(cfg.Server.Port) },
		func() error { return validatePositiveInt64("server.max_upload_size", cfg.Server.MaxUploadSize) },
		func() error { return validateNonNegativeInt("listing.max_depth", cfg.Listing.MaxDepth) },
		func() error { return validateNonZeroMode("storage.dir_permissions", cfg.Storage.DirPermissions) },
		func() error { return validateNonZeroMode("storage.file_permissions", cfg.Storage.FilePermissions) },
		func() error { return validateOneOf("log.format", cfg.Log.Format, "text", "json") },
		func() error { return validateRequiredString("routes.list", cfg.Routes.List) },
		func() error { return validateRequiredString("routes.upload", cfg.Routes.Upload) },
		func() error { return validateRequiredString("routes.download", cfg.Routes.Download) },
	}

	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}

	return nil
}

func validateRequiredString(field, value string) error {
	if value == "" {
		return validationError{field: field, msg: "is required"}
	}
	return nil
}

func validateNonNegativeInt(field string, value int) error {
	if value < 0 {
		return validationError{field: field, msg: "must not be negative"}
	}
	return nil
}

func validatePositiveInt64(field string, value int64) error {
	if value <= 0 {
		return validationError{field: field, msg: "must be greater than 0"}
	}
	return nil
}

func validateNonZeroMode(field string, mode os.FileMode) error {
	if mode.Perm() == 0 {
		return validationError{field: field, msg: "must grant at least one permission bit"}
	}
	return nil
}

func validateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return validationError{field: field, msg: fmt.Sprintf("must be one of %v, got %q", allowed, value)}
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return validationError{
			field: "server.port",
			msg:   fmt.Sprintf("must be between 1 and 65535, got %d", port),
		}
	}
	return nil
}
