package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top level project configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Budget      BudgetConfig      `yaml:"budget"`
	Output      OutputConfig      `yaml:"output"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig selects the chat model backend.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig selects and configures the web search provider.
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig holds the Tavily credentials.
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig holds the SearXNG endpoint settings.
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// BudgetConfig bounds the agent workflow. RequestLimit is the total number
// of LLM round-trips allowed per run, split across the three stages.
// Retries covers both the whole-run retry and per-stage output re-asks.
type BudgetConfig struct {
	RequestLimit int `yaml:"request_limit"`
	Retries      int `yaml:"retries"`
}

// OutputConfig names the directory receiving run artifacts.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures logging level and optional file output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig throttles LLM calls.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig holds the optional PostgreSQL connection settings. An empty
// Host disables database persistence and the run is file-only.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig reads the YAML file at path. Secrets can be supplied via the
// LLM_API_KEY and TAVILY_API_KEY environment variables, which take
// precedence over the file so keys stay out of checked-in configs.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Search.Tavily.APIKey = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Budget.RequestLimit <= 0 {
		c.Budget.RequestLimit = 12
	}
	if c.Budget.Retries <= 0 {
		c.Budget.Retries = 4
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 30
	}
}
