package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port         string
	DatabaseURL  string
	LLMEndpoint  string
	LLMAPIKey    string
	LLMModel     string
	LLMTimeout   time.Duration
	LLMMaxTokens int
	CORSOrigins  []string
	Environment  string
	Debug        bool
	APIPrefix    string
}

// String hides the API key so the config can be logged.
func (c AppConfig) String() string {
	key := ""
	if c.LLMAPIKey != "" {
		key = "***"
	}
	return "port=" + c.Port +
		" db=" + c.DatabaseURL +
		" llm=" + c.LLMEndpoint + " model=" + c.LLMModel + " key=" + key +
		" timeout=" + c.LLMTimeout.String() +
		" cors=" + strings.Join(c.CORSOrigins, ",") +
		" env=" + c.Environment +
		" prefix=" + c.APIPrefix
}

// AIConfigured reports whether a real model endpoint should be used.
func (c AppConfig) AIConfigured() bool { return c.LLMAPIKey != "" && c.LLMEndpoint != "" }

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "bright_ideas.db")
	v.SetDefault("llm_endpoint", "https://api.openai.com")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "gpt-4o")
	v.SetDefault("llm_timeout", "30s")
	v.SetDefault("llm_max_tokens", 2000)
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("environment", "development")
	v.SetDefault("debug", true)
	v.SetDefault("api_prefix", "/api/v1")

	v.AutomaticEnv()
	// Names used by earlier deployments.
	_ = v.BindEnv("database_url", "DATABASE_URL", "DB_PATH")
	_ = v.BindEnv("llm_api_key", "LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm_model", "LLM_MODEL", "OPENAI_MODEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return v
}

// Load reads .env (if any), an optional ./config.yaml, then the environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] no .env file loaded: %v", err)
	}
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[cfg] config.yaml ignored: %v", err)
		}
	}
	cfg := fromViper(v)
	log.Printf("[cfg] %s", cfg)
	return cfg
}

func fromViper(v *viper.Viper) AppConfig {
	timeout := v.GetDuration("llm_timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTokens := v.GetInt("llm_max_tokens")
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	prefix := "/" + strings.Trim(v.GetString("api_prefix"), "/")
	if prefix == "/" {
		prefix = ""
	}
	return AppConfig{
		Port:         v.GetString("port"),
		DatabaseURL:  v.GetString("database_url"),
		LLMEndpoint:  strings.TrimRight(v.GetString("llm_endpoint"), "/"),
		LLMAPIKey:    v.GetString("llm_api_key"),
		LLMModel:     v.GetString("llm_model"),
		LLMTimeout:   timeout,
		LLMMaxTokens: maxTokens,
		CORSOrigins:  splitList(v.GetString("cors_origins")),
		Environment:  v.GetString("environment"),
		Debug:        v.GetBool("debug"),
		APIPrefix:    prefix,
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ClientURL is the API base used by ideactl. The --url flag wins over it.
func ClientURL() string {
	v := viper.New()
	v.SetDefault("url", "http://localhost:8000/api/v1")
	_ = v.BindEnv("url", "BRIGHT_IDEAS_URL")
	return strings.TrimRight(v.GetString("url"), "/")
}
