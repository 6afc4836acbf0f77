package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider    string  `yaml:"llm_provider"`
	LLMModel       string  `yaml:"llm_model"`
	LLMTemperature float64 `yaml:"llm_temperature"`
	LLMMaxTokens   int     `yaml:"llm_max_tokens"`
	LLMMaxRetries  int     `yaml:"llm_max_retries"`

	GroqAPIKey      string `yaml:"groq_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	ZThreshold     float64 `yaml:"z_threshold"`
	LineZThreshold float64 `yaml:"line_z_threshold"`
	TrendBucket    string  `yaml:"trend_bucket"`

	ReportOutputDir string `yaml:"report_output_dir"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideFloat(&cfg.LLMTemperature, "LLM_TEMPERATURE")
	envOverrideInt(&cfg.LLMMaxTokens, "LLM_MAX_TOKENS")
	envOverrideInt(&cfg.LLMMaxRetries, "LLM_MAX_RETRIES")
	envOverride(&cfg.GroqAPIKey, "GROQ_API_KEY")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverrideFloat(&cfg.ZThreshold, "Z_THRESHOLD")
	envOverrideFloat(&cfg.LineZThreshold, "LINE_Z_THRESHOLD")
	envOverride(&cfg.TrendBucket, "TREND_BUCKET")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "groq"
	}
	if cfg.LLMTemperature == 0 {
		cfg.LLMTemperature = 0.1
	}
	if cfg.LLMMaxTokens == 0 {
		cfg.LLMMaxTokens = 1024
	}
	if cfg.LLMMaxRetries == 0 {
		cfg.LLMMaxRetries = 3
	}
	if cfg.ZThreshold == 0 {
		cfg.ZThreshold = 2.0
	}
	if cfg.LineZThreshold == 0 {
		cfg.LineZThreshold = 1.5
	}
	if cfg.TrendBucket == "" {
		cfg.TrendBucket = "month"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = 30
	}

	// A missing API key is not fatal: it selects demo mode.
	switch cfg.LLMProvider {
	case "groq", "anthropic":
	default:
		log.Fatalf("llm_provider must be 'groq' or 'anthropic', got '%s'", cfg.LLMProvider)
	}

	switch cfg.TrendBucket {
	case "week", "month":
	default:
		log.Fatalf("trend_bucket must be 'week' or 'month', got '%s'", cfg.TrendBucket)
	}

	if cfg.LLMMaxRetries < 1 {
		log.Fatalf("invalid llm_max_retries '%d': must be >= 1", cfg.LLMMaxRetries)
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		log.Fatalf("invalid llm_temperature '%f': must be between 0 and 2", cfg.LLMTemperature)
	}
	if cfg.ZThreshold <= 0 {
		log.Fatalf("invalid z_threshold '%f': must be > 0", cfg.ZThreshold)
	}
	if cfg.LineZThreshold <= 0 {
		log.Fatalf("invalid line_z_threshold '%f': must be > 0", cfg.LineZThreshold)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 1 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 1", cfg.ExternalHTTPTimeoutSeconds)
	}

	return cfg
}

// APIKey returns the credential for the configured provider, empty when the
// live classification service is unconfigured.
func (c Config) APIKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.GroqAPIKey
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
