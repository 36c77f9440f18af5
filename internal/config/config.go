package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	LLM        LLMConfig
	Brew       BrewConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port               int
	Mode               string
	CorsOrigins        []string `mapstructure:"cors_origins"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
}

type LoggingConfig struct {
	Mode string
}

type LLMConfig struct {
	Provider  string
	Timeout   time.Duration
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
}

type OpenAIConfig struct {
	Key           string
	Model         string
	BaseURL       string `mapstructure:"base_url"`
	AzureEndpoint string `mapstructure:"azure_endpoint"`
	APIVersion    string `mapstructure:"api_version"`
}

type AnthropicConfig struct {
	Key       string
	Model     string
	MaxTokens int `mapstructure:"max_tokens"`
}

type GeminiConfig struct {
	Key   string
	Model string
}

type BrewConfig struct {
	NominalCount     int     `mapstructure:"nominal_count"`
	ValuesPerNominal int     `mapstructure:"values_per_nominal"`
	OrdinalCount     int     `mapstructure:"ordinal_count"`
	// Temperature applies to refinement only. Dimension and test calls run
	// at a fixed 0.3.
	Temperature      float32 `mapstructure:"temperature"`
	RepairJSON       bool    `mapstructure:"repair_json"`
}

type MonitoringConfig struct {
	ProjectId    string        `mapstructure:"project_id"`
	JsonKey      string        `mapstructure:"json_key"`
	PushInterval time.Duration `mapstructure:"push_interval"`
}

// legacyEnv maps config keys to the environment variable names the service
// has always accepted.
var legacyEnv = map[string]string{
	"llm.openai.key":            "OPENAI_API_KEY",
	"llm.openai.model":          "OPENAI_MODEL",
	"llm.openai.azure_endpoint": "AZURE_OPENAI_ENDPOINT",
	"llm.openai.api_version":    "OPENAI_API_VERSION",
	"llm.anthropic.key":         "ANTHROPIC_API_KEY",
	"llm.gemini.key":            "GEMINI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("server.rate_limit_per_second", 0)
	v.SetDefault("server.rate_limit_burst", 0)
	v.SetDefault("logging.mode", "development")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.timeout", 2*time.Minute)
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.openai.api_version", "2024-02-01")
	v.SetDefault("llm.anthropic.model", "claude-3-5-sonnet-20240620")
	v.SetDefault("llm.anthropic.max_tokens", 4096)
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("brew.nominal_count", 5)
	v.SetDefault("brew.values_per_nominal", 5)
	v.SetDefault("brew.ordinal_count", 5)
	v.SetDefault("brew.temperature", 0.3)
	v.SetDefault("brew.repair_json", false)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("monitoring.project_id", "")
	v.SetDefault("monitoring.json_key", "")
	v.SetDefault("monitoring.push_interval", time.Minute)
}

// LoadConfig reads <configName>.yaml from the working directory, then layers
// environment variables on top. A missing file is not an error.
func LoadConfig(configName string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("error binding env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Brew.Temperature < 0 || c.Brew.Temperature > 2 {
		return fmt.Errorf("brew.temperature must be between 0 and 2, got %v", c.Brew.Temperature)
	}
	if c.Brew.NominalCount <= 0 || c.Brew.ValuesPerNominal <= 0 || c.Brew.OrdinalCount <= 0 {
		return errors.New("brew dimension counts must be greater than 0")
	}
	return nil
}
