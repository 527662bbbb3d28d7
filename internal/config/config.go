// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
)

const (
	EngineChromium    = "chromium"
	EngineWKHTMLTOPDF = "wkhtmltopdf"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	OpenAI    OpenAIConfig
	License   LicenseConfig
	Storage   StorageConfig
	PDF       PDFConfig
	Retention RetentionConfig
}

type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY,required,notEmpty"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// MaxTokens 0 and Temperature nil leave the provider defaults.
	MaxTokens   int      `env:"OPENAI_MAX_TOKENS" envDefault:"0"`
	Temperature *float64 `env:"OPENAI_TEMPERATURE"`
}

type LicenseConfig struct {
	Enabled   bool          `env:"LICENSE_ENABLED" envDefault:"false"`
	ProductID string        `env:"LICENSE_PRODUCT_ID"`
	APIURL    string        `env:"LICENSE_API_URL" envDefault:"https://api.gumroad.com/v2/licenses/verify"`
	Timeout   time.Duration `env:"LICENSE_TIMEOUT" envDefault:"10s"`
}

type StorageConfig struct {
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"static/output"`
}

type PDFConfig struct {
	Engine        string        `env:"PDF_ENGINE" envDefault:"chromium"`
	BrowserPath   string        `env:"CHROME_BIN"`
	BrowserArgs   []string      `env:"CHROME_ARGS" envSeparator:","`
	WKHTMLTOPDF   string        `env:"WKHTMLTOPDF_BIN" envDefault:"wkhtmltopdf"`
	WKHTMLArgs    []string      `env:"WKHTMLTOPDF_ARGS" envSeparator:" "`
	Timeout       time.Duration `env:"PDF_TIMEOUT" envDefault:"30s"`
	MaxConcurrent int64         `env:"PDF_MAX_CONCURRENT" envDefault:"2"`
}

type RetentionConfig struct {
	TTL      time.Duration `env:"RETENTION_TTL" envDefault:"15m"`
	Interval time.Duration `env:"RETENTION_INTERVAL" envDefault:"5m"`
}

// WorkerConfig is the subset used by the standalone retention worker, which
// never talks to the LLM or license APIs.
type WorkerConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Storage   StorageConfig
	Retention RetentionConfig
}

// Load reads configuration from the process environment. In development a
// .env file is loaded first when present.
func Load() (Config, error) {
	loadDotEnv()
	return parse(env.Options{})
}

func loadDotEnv() {
	if getEnvOr("APP_ENV", "development") != "development" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables")
	}
}

// LoadWorker reads the retention worker configuration from the process
// environment.
func LoadWorker() (WorkerConfig, error) {
	loadDotEnv()
	return parseWorker(env.Options{})
}

// ParseWorker is LoadWorker over an explicit environment map.
func ParseWorker(environ map[string]string) (WorkerConfig, error) {
	return parseWorker(env.Options{Environment: environ})
}

func parseWorker(opts env.Options) (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return WorkerConfig{}, appErrors.NewConfiguration("invalid environment", err)
	}
	if cfg.Retention.TTL <= 0 || cfg.Retention.Interval <= 0 {
		return WorkerConfig{}, appErrors.NewConfiguration("RETENTION_TTL and RETENTION_INTERVAL must be positive", nil)
	}
	return cfg, nil
}

// Parse builds a Config from an explicit environment map, ignoring the
// process environment.
func Parse(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, appErrors.NewConfiguration("invalid environment", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks rules the struct tags cannot express.
func (c Config) Validate() error {
	if c.License.Enabled && c.License.ProductID == "" {
		return appErrors.NewConfiguration("LICENSE_PRODUCT_ID is required when LICENSE_ENABLED is true", nil)
	}
	if c.PDF.Engine != EngineChromium && c.PDF.Engine != EngineWKHTMLTOPDF {
		return appErrors.NewConfiguration(fmt.Sprintf("unsupported PDF_ENGINE %q", c.PDF.Engine), nil)
	}
	if c.OpenAI.MaxTokens < 0 {
		return appErrors.NewConfiguration("OPENAI_MAX_TOKENS must not be negative", nil)
	}
	if t := c.OpenAI.Temperature; t != nil && (*t < 0 || *t > 2) {
		return appErrors.NewConfiguration("OPENAI_TEMPERATURE must be between 0 and 2", nil)
	}
	if c.PDF.MaxConcurrent < 1 {
		return appErrors.NewConfiguration("PDF_MAX_CONCURRENT must be at least 1", nil)
	}
	if c.OpenAI.Timeout <= 0 || c.License.Timeout <= 0 || c.PDF.Timeout <= 0 {
		return appErrors.NewConfiguration("timeouts must be positive", nil)
	}
	if c.Retention.TTL <= 0 || c.Retention.Interval <= 0 {
		return appErrors.NewConfiguration("RETENTION_TTL and RETENTION_INTERVAL must be positive", nil)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
