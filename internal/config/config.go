// Package config loads sunbeam settings from defaults, a YAML file, a
// .env file and SUNBEAM_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/swilhoit/sunbeam/internal/logging"
)

// Config holds all runtime settings.
type Config struct {
	Storefront Storefront     `yaml:"storefront"`
	Paths      Paths          `yaml:"paths"`
	Server     Server         `yaml:"server"`
	Workers    int            `yaml:"workers"`
	Log        logging.Config `yaml:"log"`
}

// Storefront configures the listing fetch.
type Storefront struct {
	URL            string        `yaml:"url"`
	PageSize       int           `yaml:"page_size"`
	PageDelay      time.Duration `yaml:"page_delay"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryWait      time.Duration `yaml:"retry_wait"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Paths locates the raw and enriched snapshots.
type Paths struct {
	Raw      string `yaml:"raw"`
	Snapshot string `yaml:"snapshot"`
}

// Server configures the HTTP API.
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storefront: Storefront{
			URL:            "https://sunbeamvintage.com",
			PageSize:       250,
			PageDelay:      500 * time.Millisecond,
			MaxAttempts:    3,
			RetryWait:      time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Paths: Paths{
			Raw:      "scraped-data/products-raw.json",
			Snapshot: "scraped-data/products.json",
		},
		Server:  Server{ListenAddr: ":8080"},
		Workers: 4,
		Log:     logging.Config{Level: "info", Format: "console"},
	}
}

// Loader reads configuration. LookupEnv defaults to os.LookupEnv.
type Loader struct {
	ConfigPath string
	DotenvPath string
	LookupEnv  func(string) (string, bool)
}

// Load reads configuration using the process environment. An empty path
// falls back to $SUNBEAM_CONFIG; a missing default file is not an error.
func Load(path string) (Config, error) {
	return Loader{ConfigPath: path, DotenvPath: ".env"}.Load()
}

func (l Loader) Load() (Config, error) {
	cfg := Default()
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv := map[string]string{}
	if l.DotenvPath != "" {
		m, err := godotenv.Read(l.DotenvPath)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("reading %s: %w", l.DotenvPath, err)
		}
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	path := l.ConfigPath
	explicit := path != ""
	if !explicit {
		path, explicit = env("SUNBEAM_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("SUNBEAM_STORE_URL", &cfg.Storefront.URL)
	str("SUNBEAM_RAW_PATH", &cfg.Paths.Raw)
	str("SUNBEAM_SNAPSHOT_PATH", &cfg.Paths.Snapshot)
	str("SUNBEAM_LISTEN_ADDR", &cfg.Server.ListenAddr)
	str("SUNBEAM_LOG_LEVEL", &cfg.Log.Level)
	str("SUNBEAM_LOG_FORMAT", &cfg.Log.Format)

	return errors.Join(
		num("SUNBEAM_PAGE_SIZE", &cfg.Storefront.PageSize),
		num("SUNBEAM_MAX_ATTEMPTS", &cfg.Storefront.MaxAttempts),
		num("SUNBEAM_WORKERS", &cfg.Workers),
		dur("SUNBEAM_PAGE_DELAY", &cfg.Storefront.PageDelay),
		dur("SUNBEAM_RETRY_WAIT", &cfg.Storefront.RetryWait),
		dur("SUNBEAM_REQUEST_TIMEOUT", &cfg.Storefront.RequestTimeout),
	)
}

// Validate rejects settings the fetcher or store cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Storefront.URL == "" {
		errs = append(errs, errors.New("storefront.url is required"))
	}
	if c.Storefront.PageSize <= 0 {
		errs = append(errs, errors.New("storefront.page_size must be positive"))
	}
	if c.Storefront.MaxAttempts <= 0 {
		errs = append(errs, errors.New("storefront.max_attempts must be positive"))
	}
	if c.Storefront.PageDelay < 0 {
		errs = append(errs, errors.New("storefront.page_delay must not be negative"))
	}
	if c.Paths.Raw == "" || c.Paths.Snapshot == "" {
		errs = append(errs, errors.New("paths.raw and paths.snapshot are required"))
	}
	if c.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}
	return errors.Join(errs...)
}
