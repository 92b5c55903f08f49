package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration. Values come from defaults,
// then an optional TOML file, then environment variables, in that order.
type Config struct {
	App    AppConfig    `toml:"app"`
	Chroma ChromaConfig `toml:"chroma"`
	Ollama OllamaConfig `toml:"ollama"`
	Gemini GeminiConfig `toml:"gemini"`
	KB     KBConfig     `toml:"knowledge_base"`
}

type AppConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type ChromaConfig struct {
	URL        string `toml:"url"`
	Collection string `toml:"collection"`
}

type OllamaConfig struct {
	URL            string `toml:"url"`
	EmbedModel     string `toml:"embed_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type KBConfig struct {
	CSVPath string `toml:"csv_path"`
}

// Load builds the configuration. The config file path defaults to
// configs/config.toml and can be moved with CONFIG_FILE.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

// HTTPAddr is the listen address for the serving process.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Chroma: ChromaConfig{
			URL:        "http://localhost:8000",
			Collection: "insurance_qa",
		},
		Ollama: OllamaConfig{
			URL:            "http://localhost:11434",
			EmbedModel:     "nomic-embed-text:v1.5",
			TimeoutSeconds: 30,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		KB: KBConfig{
			CSVPath: "insurance_qa_long.csv",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Chroma.URL = getEnv("CHROMA_URL", cfg.Chroma.URL)
	cfg.Chroma.Collection = getEnv("CHROMA_COLLECTION", cfg.Chroma.Collection)

	cfg.Ollama.URL = getEnv("OLLAMA_URL", cfg.Ollama.URL)
	cfg.Ollama.EmbedModel = getEnv("OLLAMA_EMBED_MODEL", cfg.Ollama.EmbedModel)
	cfg.Ollama.TimeoutSeconds = getEnvAsInt("OLLAMA_TIMEOUT_SECONDS", cfg.Ollama.TimeoutSeconds)

	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)

	cfg.KB.CSVPath = getEnv("KB_CSV_PATH", cfg.KB.CSVPath)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
