package gateway

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tahadhari/tahadhari/pkg/provider"
)

const (
	// DefaultListenAddr is the address the gateway listens on when none is configured.
	DefaultListenAddr = ":8080"

	// DefaultBodyLimit admits a 5 MiB image after base64 expansion.
	DefaultBodyLimit = 8 * 1024 * 1024

	DefaultTextModel   = "llama3-8b-8192"
	DefaultVisionModel = "llama-3.2-90b-vision-preview"
)

// Environment variables that override file configuration.
const (
	EnvListen   = "TAHADHARI_LISTEN"
	EnvProvider = "TAHADHARI_PROVIDER"
	EnvAPIKey   = "TAHADHARI_API_KEY"
)

// Config is the gateway server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen_addr"`

	// BodyLimit is the maximum accepted request body in bytes.
	BodyLimit int `toml:"body_limit"`

	Provider provider.Config `toml:"provider"`
	Models   Models          `toml:"models"`
}

// Models names the model used for each exchange modality.
type Models struct {
	Text   string `toml:"text"`
	Vision string `toml:"vision"`
}

// DefaultConfig returns a configuration for Groq with the default models.
func DefaultConfig() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		BodyLimit:  DefaultBodyLimit,
		Provider: provider.Config{
			Type:           provider.TypeGroq,
			TimeoutSeconds: int(provider.DefaultTimeout.Seconds()),
		},
		Models: Models{
			Text:   DefaultTextModel,
			Vision: DefaultVisionModel,
		},
	}
}

// LoadConfig reads a TOML file over the defaults and applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvListen)); v != "" {
		c.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvProvider)); v != "" {
		c.Provider.Type = provider.Type(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.Provider.APIKey = v
	}
}

func (c *Config) fillDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.BodyLimit == 0 {
		c.BodyLimit = DefaultBodyLimit
	}
	if c.Provider.Type == "" {
		c.Provider.Type = provider.TypeGroq
	}
	if c.Models.Text == "" {
		c.Models.Text = DefaultTextModel
	}
	if c.Models.Vision == "" {
		c.Models.Vision = DefaultVisionModel
	}
}

// Validate reports configuration errors that would prevent serving.
func (c Config) Validate() error {
	var errs []error
	if c.BodyLimit < 0 {
		errs = append(errs, fmt.Errorf("body_limit must not be negative, got %d", c.BodyLimit))
	}
	if c.Provider.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("provider.timeout_seconds must not be negative, got %d", c.Provider.TimeoutSeconds))
	}
	switch c.Provider.Type {
	case provider.TypeGroq, provider.TypeOpenAI, provider.TypeAnthropic, provider.TypeGemini, provider.TypeOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown provider type %q", c.Provider.Type))
	}
	return errors.Join(errs...)
}
