package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// SupportedVersion is the only configuration schema version this build reads.
const SupportedVersion = "1"

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" default:"1"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Theme   ThemeConfig   `yaml:"theme"`
	Content ContentConfig `yaml:"content"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" env:"LOG_LEVEL"`
	Format string `yaml:"format" default:"console" env:"LOG_FORMAT"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"Minimal Blog"`
	Heading string `yaml:"heading" default:"My Blog"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0" env:"BLOG_HOST"`
	Port string `yaml:"port" default:"8080" env:"PORT"`
}

// BackendConfig points at the external REST service that owns the posts.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" default:"http://localhost:3000" env:"BLOG_API_URL"`
	CollectionPath string        `yaml:"collection_path" default:"/api/blogs"`
	Timeout        time.Duration `yaml:"timeout" default:"10s" env:"BLOG_API_TIMEOUT"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type ContentConfig struct {
	PreviewLength    int    `yaml:"preview_length" default:"100"`
	DateFormat       string `yaml:"date_format" default:"Jan 2, 2006"`
	MarkdownRenderer string `yaml:"markdown_renderer" default:"classic"`
}

type SessionConfig struct {
	Name          string        `yaml:"name" default:"blog_session"`
	Secret        string        `yaml:"secret" default:"" env:"BLOG_SESSION_SECRET"`
	Secure        bool          `yaml:"secure" default:"false"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" default:"1m"`
}

var AppConfig *Config

// Current returns the loaded configuration, or the defaults when nothing has been loaded.
func Current() *Config {
	if AppConfig != nil {
		return AppConfig
	}
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads path into AppConfig. A missing file is not an error.
func LoadConfig(path string) error {
	config, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = config
	return nil
}

// Load builds a Config from defaults, the YAML file at path (if present) and
// the process environment, in that order.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config, os.LookupEnv)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validate(config *Config) error {
	if config.Version != SupportedVersion {
		return fmt.Errorf("unsupported configuration version %q (expected %q)", config.Version, SupportedVersion)
	}
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}
	if config.Content.PreviewLength <= 0 {
		return fmt.Errorf("content.preview_length must be positive, got %d", config.Content.PreviewLength)
	}
	if config.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", config.Backend.Timeout)
	}
	if config.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive, got %s", config.Session.IdleTimeout)
	}
	if config.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %s", config.Session.SweepInterval)
	}
	switch config.Content.MarkdownRenderer {
	case MarkdownClassic, MarkdownMmark:
	default:
		return fmt.Errorf("unknown content.markdown_renderer %q", config.Content.MarkdownRenderer)
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	walkTagged(config, "default", func(field reflect.Value, fieldType reflect.StructField, value string) {
		if value == "" {
			return
		}
		if field.Kind() == reflect.Slice {
			if field.Len() != 0 || field.Type().Elem().Kind() != reflect.String {
				return
			}
			parts := strings.Split(value, ",")
			slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
			for j, part := range parts {
				slice.Index(j).SetString(strings.TrimSpace(part))
			}
			field.Set(slice)
			return
		}
		setField(field, fieldType, value)
	})
}

// applyEnv overrides fields carrying an `env` tag with the variable's value, if set.
func applyEnv(config interface{}, lookup func(string) (string, bool)) {
	walkTagged(config, "env", func(field reflect.Value, fieldType reflect.StructField, name string) {
		if name == "" {
			return
		}
		value, ok := lookup(name)
		if !ok {
			return
		}
		if !setField(field, fieldType, value) {
			configLogger.Warn().
				Str("env", name).
				Str("value", value).
				Msg("Ignoring invalid environment override")
		}
	})
}

func walkTagged(config interface{}, tag string, fn func(reflect.Value, reflect.StructField, string)) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively walk nested structs
		if field.Kind() == reflect.Struct {
			walkTagged(field.Addr().Interface(), tag, fn)
			continue
		}

		fn(field, fieldType, fieldType.Tag.Get(tag))
	}
}

// setField parses value into field and reports whether it was stored.
func setField(field reflect.Value, fieldType reflect.StructField, value string) bool {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return false
		}
		field.SetInt(int64(d))
		return true
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		field.SetBool(val)
	case reflect.Int:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		field.SetInt(val)
	case reflect.Float64:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		field.SetFloat(val)
	default:
		configLogger.Warn().
			Str("field_name", fieldType.Name).
			Str("field_type", field.Kind().String()).
			Msg("Unsupported field type for tagged value")
		return false
	}
	return true
}
