// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "impact"

// Config структура для хранения конфигурации приложения
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Audio   AudioConfig   `yaml:"audio"`
	Log     LogConfig     `yaml:"log"`
	Backup  BackupConfig  `yaml:"backup"`
}

// CatalogConfig настройки хранилища каталога
type CatalogConfig struct {
	Backend string `yaml:"backend"` // "sqlite" или "yaml"
	Path    string `yaml:"path"`
}

// AudioConfig настройки вывода звука
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	BufferMs   int `yaml:"buffer_ms"`
}

// LogConfig настройки журналирования
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // мегабайты
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // дни
	Compress   bool   `yaml:"compress"` // gzip для старых файлов
	Console    bool   `yaml:"console"`
}

// BackupConfig настройки резервного копирования каталога в S3
type BackupConfig struct {
	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
	Key           string `yaml:"key"` // ключ объекта; по умолчанию имя файла каталога
}

// Enabled возвращает true, если бакет для резервных копий настроен
func (b BackupConfig) Enabled() bool {
	return b.AwsBucketName != ""
}

// DefaultConfigPath возвращает путь к файлу конфигурации по умолчанию
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	dataDir := filepath.Join(xdg.DataHome, appName)
	return &Config{
		Catalog: CatalogConfig{
			Backend: "sqlite",
			Path:    filepath.Join(dataDir, "tracks.db"),
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferMs:   100,
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(dataDir, "impact.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
		},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(expandHome(filePath, home))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
	case os.IsNotExist(err):
		// Работаем со значениями по умолчанию
	default:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	// Пустые значения в файле заменяем значениями по умолчанию
	defaults := Default()
	if config.Catalog.Backend == "" {
		config.Catalog.Backend = defaults.Catalog.Backend
	}
	if config.Catalog.Path == "" {
		if config.Catalog.Backend == "yaml" {
			config.Catalog.Path = strings.TrimSuffix(defaults.Catalog.Path, ".db") + ".yaml"
		} else {
			config.Catalog.Path = defaults.Catalog.Path
		}
	}
	if config.Audio.SampleRate <= 0 {
		config.Audio.SampleRate = defaults.Audio.SampleRate
	}
	if config.Audio.BufferMs <= 0 {
		config.Audio.BufferMs = defaults.Audio.BufferMs
	}
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Раскрываем тильду в путях
	config.Catalog.Path = expandHome(config.Catalog.Path, home)
	config.Log.File = expandHome(config.Log.File, home)

	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case "sqlite", "yaml":
	default:
		return fmt.Errorf("неизвестный движок каталога: %q (ожидается sqlite или yaml)", c.Catalog.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("неизвестный уровень журнала: %q", c.Log.Level)
	}
	return nil
}

// expandHome заменяет ведущую тильду домашней директорией
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
