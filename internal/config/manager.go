package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix prefixes environment overrides, e.g. CARDSCAN_RECOGNITION_TIMEOUT.
const EnvPrefix = "CARDSCAN"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v      *viper.Viper
	logger *slog.Logger

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager loads the defaults, then cfgFile (or cardscan.yaml from the
// working directory or $HOME/.cardscan when cfgFile is empty), then the
// environment. The result must pass Validate.
func NewManager(cfgFile string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cm := &Manager{
		v:         viper.New(),
		logger:    logger,
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}
	return decode(v)
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	if err := setDefaults(cm.v); err != nil {
		return err
	}

	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("cardscan")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.cardscan")
	}

	if err := cm.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) error {
	var defaults map[string]interface{}
	if err := yaml.NewDecoder(bytes.NewReader(defaultsYAML)).Decode(&defaults); err != nil {
		return fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return nil
}

// load parses and validates the current viper state.
func (cm *Manager) load() (*Config, error) {
	return decode(cm.v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe). Callers must not
// modify it.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, or "" when only
// defaults and environment are in effect.
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// Reload re-reads the config file and applies it. An invalid file leaves the
// current configuration in place.
func (cm *Manager) Reload() error {
	if cm.v.ConfigFileUsed() != "" {
		if err := cm.v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	cfg, err := cm.load()
	if err != nil {
		return err
	}
	cm.apply(cfg)
	return nil
}

func (cm *Manager) apply(cfg *Config) {
	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// WatchConfig enables hot-reloading of configuration. It does nothing when
// no config file was found.
func (cm *Manager) WatchConfig() {
	if cm.v.ConfigFileUsed() == "" {
		cm.logger.Debug("no config file to watch")
		return
	}
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.logger.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		cm.logger.Info("config reloaded", "file", e.Name)
		cm.apply(cfg)
	})
	cm.v.WatchConfig()
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}
