package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	Temperature  float32       `yaml:"temperature"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxHTMLBytes int           `yaml:"max_html_bytes"` // prefix of the page sent to the model
}

type HunterConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Limit   int           `yaml:"limit"`
}

type AWSConfig struct {
	Region             string `yaml:"region"`
	Profile            string `yaml:"profile"`
	DynamoDBTable      string `yaml:"dynamodb_table"`
	S3Bucket           string `yaml:"s3_bucket"`     // empty disables the raw page archive
	EnrichWorkerLambda string `yaml:"enrich_worker"` // function invoked by the dispatcher
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type RenderConfig struct {
	Enabled           bool          `yaml:"enabled"`
	ChromePath        string        `yaml:"chrome_path"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	SelectorTimeout   time.Duration `yaml:"selector_timeout"`
}

type DiscoveryConfig struct {
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type ServerConfig struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	MemoryStore   bool          `yaml:"memory_store"` // local runs without DynamoDB
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

type Config struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Hunter    HunterConfig    `yaml:"hunter"`
	AWS       AWSConfig       `yaml:"aws"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Render    RenderConfig    `yaml:"render"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:        "gpt-4o-mini",
			Temperature:  0.1,
			MaxTokens:    500,
			Timeout:      60 * time.Second,
			MaxHTMLBytes: 60000,
		},
		Hunter: HunterConfig{
			BaseURL: "https://api.hunter.io/v2",
			Timeout: 20 * time.Second,
			Limit:   10,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		},
		Render: RenderConfig{
			Enabled:           true,
			NavigationTimeout: 30 * time.Second,
			SettleDelay:       3 * time.Second,
			SelectorTimeout:   5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			ProbeTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			ListenAddress: ":8080",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an optional
// YAML file named by CONFIG_FILE and finally the process environment.
func Load() (*Config, error) {
	// .env is a local convenience; its absence is normal in Lambda
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.Hunter.APIKey, "HUNTER_API_KEY")
	setString(&c.Hunter.BaseURL, "HUNTER_BASE_URL")
	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.Profile, "AWS_PROFILE")
	setString(&c.AWS.DynamoDBTable, "DYNAMODB_TABLE")
	setString(&c.AWS.S3Bucket, "S3_BUCKET_NAME")
	setString(&c.AWS.EnrichWorkerLambda, "ENRICH_WORKER_FUNCTION_NAME")
	setString(&c.Render.ChromePath, "CHROME_PATH")
	setString(&c.Server.ListenAddress, "LISTEN_ADDRESS")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	var errs []error
	errs = append(errs,
		setDuration(&c.Fetch.Timeout, "FETCH_TIMEOUT"),
		setDuration(&c.Render.NavigationTimeout, "RENDER_NAVIGATION_TIMEOUT"),
		setDuration(&c.Render.SettleDelay, "RENDER_SETTLE_DELAY"),
		setDuration(&c.Discovery.ProbeTimeout, "DOMAIN_PROBE_TIMEOUT"),
		setDuration(&c.OpenAI.Timeout, "OPENAI_TIMEOUT"),
		setDuration(&c.Hunter.Timeout, "HUNTER_TIMEOUT"),
		setBool(&c.Render.Enabled, "RENDER_ENABLED"),
		setBool(&c.Server.MemoryStore, "MEMORY_STORE"),
	)
	return errors.Join(errs...)
}

// ValidateExtraction checks what ingestion needs
func (c *Config) ValidateExtraction() error {
	if c.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY environment variable is required")
	}
	if c.OpenAI.MaxHTMLBytes <= 0 {
		return errors.New("openai.max_html_bytes must be positive")
	}
	return nil
}

// ValidateEnrichment checks what contact discovery needs
func (c *Config) ValidateEnrichment() error {
	if c.Hunter.APIKey == "" {
		return errors.New("HUNTER_API_KEY environment variable is required")
	}
	return nil
}

// ValidateStore checks what the DynamoDB store needs
func (c *Config) ValidateStore() error {
	if c.AWS.DynamoDBTable == "" {
		return errors.New("DYNAMODB_TABLE environment variable is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
