package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fathomhq/fathom/internal/utils"
)

// Global configuration structure.
type Global struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Models is the cascade: primary first, fallbacks in order.
	Models  []string `mapstructure:"models" yaml:"models"`
	BaseURL string   `mapstructure:"base_url" yaml:"base_url"`

	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`

	PythonBin      string `mapstructure:"python_bin" yaml:"python_bin"`
	ExecTimeoutSec int    `mapstructure:"exec_timeout_sec" yaml:"exec_timeout_sec"`

	Addr           string `mapstructure:"addr" yaml:"addr"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	MaxTokens      int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// DefaultModels is the Groq fallback cascade, tried in order when a model
// hits rate limits.
var DefaultModels = []string{
	"llama-3.3-70b-versatile", // primary: best code gen, 128k ctx
	"llama3-70b-8192",
	"mixtral-8x7b-32768",
	"llama3-8b-8192",
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.fathom/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".fathom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FATHOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("models", DefaultModels)
	v.SetDefault("base_url", "")
	v.SetDefault("data_path", filepath.Join("data", "titanic.csv"))
	v.SetDefault("static_dir", "static")
	v.SetDefault("python_bin", "python3")
	v.SetDefault("exec_timeout_sec", 60)
	v.SetDefault("addr", ":8000")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("max_tokens", 2048)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".fathom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Deployments usually export GROQ_API_KEY directly; honor it when the
	// prefixed form is absent.
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if len(c.Models) == 0 {
		c.Models = DefaultModels
	}
	return &c, nil
}
