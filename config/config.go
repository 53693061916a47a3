// Package config loads the node configuration from <home>/config/config.toml.
// Every key can be overridden from the environment with the AGGREGATORD
// prefix, e.g. AGGREGATORD_NODE_CHAIN_ID or AGGREGATORD_FEEDER_ENABLED.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "AGGREGATORD"

	DefaultDirName    = ".aggregatord"
	ConfigDirName     = "config"
	DataDirName       = "data"
	ConfigFileName    = "config.toml"
	GenesisFileName   = "genesis.json"
	DefaultChainID    = "aggregator-1"
	DefaultRESTAddr   = "127.0.0.1:1317"
	DefaultDBBackend  = "goleveldb"
	DefaultBlockTime  = "1s"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "plain"
	JobKindAggregator = "aggregator"
	JobKindPrice      = "price"
)

// Config is the root of config.toml.
type Config struct {
	Node   NodeConfig   `mapstructure:"node" toml:"node"`
	REST   RESTConfig   `mapstructure:"rest" toml:"rest"`
	Feeder FeederConfig `mapstructure:"feeder" toml:"feeder"`
}

type NodeConfig struct {
	ChainID        string `mapstructure:"chain_id" toml:"chain_id"`
	LogLevel       string `mapstructure:"log_level" toml:"log_level"`
	LogFormat      string `mapstructure:"log_format" toml:"log_format"`
	DBBackend      string `mapstructure:"db_backend" toml:"db_backend"`
	Pruning        string `mapstructure:"pruning" toml:"pruning"`
	BlockInterval  string `mapstructure:"block_interval" toml:"block_interval"`
	InvCheckPeriod int64  `mapstructure:"inv_check_period" toml:"inv_check_period"`
}

type RESTConfig struct {
	Enable      bool     `mapstructure:"enable" toml:"enable"`
	Address     string   `mapstructure:"address" toml:"address"`
	CORSOrigins []string `mapstructure:"cors_origins" toml:"cors_origins"`
	WebSocket   bool     `mapstructure:"websocket" toml:"websocket"`
}

type FeederConfig struct {
	Enabled        bool        `mapstructure:"enabled" toml:"enabled"`
	Endpoint       string      `mapstructure:"endpoint" toml:"endpoint"`
	KeyName        string      `mapstructure:"key_name" toml:"key_name"`
	KeyringBackend string      `mapstructure:"keyring_backend" toml:"keyring_backend"`
	KeyringDir     string      `mapstructure:"keyring_dir" toml:"keyring_dir"`
	KMSRegion      string      `mapstructure:"kms_region" toml:"kms_region"`
	Workers        int         `mapstructure:"workers" toml:"workers"`
	HealthInterval string      `mapstructure:"health_interval" toml:"health_interval"`
	Retry          RetryConfig `mapstructure:"retry" toml:"retry"`
	Jobs           []JobConfig `mapstructure:"jobs" toml:"jobs"`
}

type RetryConfig struct {
	MaxAttempts    int    `mapstructure:"max_attempts" toml:"max_attempts"`
	InitialBackoff string `mapstructure:"initial_backoff" toml:"initial_backoff"`
	MaxBackoff     string `mapstructure:"max_backoff" toml:"max_backoff"`
}

// JobConfig describes one value the feeder reports. Path is a gjson path into
// the response of URL; the extracted number is scaled by 10^Decimals.
type JobConfig struct {
	Name     string `mapstructure:"name" toml:"name"`
	Kind     string `mapstructure:"kind" toml:"kind"`
	URL      string `mapstructure:"url" toml:"url"`
	Path     string `mapstructure:"path" toml:"path"`
	Decimals uint32 `mapstructure:"decimals" toml:"decimals"`
	Interval string `mapstructure:"interval" toml:"interval"`
	From     string `mapstructure:"from" toml:"from,omitempty"`
	To       string `mapstructure:"to" toml:"to,omitempty"`
}

// DefaultConfig returns the configuration written by `aggregatord init`.
func DefaultConfig() Config {
	return Config{
		Node: NodeConfig{
			ChainID:        DefaultChainID,
			LogLevel:       DefaultLogLevel,
			LogFormat:      DefaultLogFormat,
			DBBackend:      DefaultDBBackend,
			Pruning:        "default",
			BlockInterval:  DefaultBlockTime,
			InvCheckPeriod: 1,
		},
		REST: RESTConfig{
			Enable:      true,
			Address:     DefaultRESTAddr,
			CORSOrigins: []string{"*"},
			WebSocket:   true,
		},
		Feeder: FeederConfig{
			Enabled:        false,
			Endpoint:       "http://" + DefaultRESTAddr,
			KeyName:        "feeder",
			KeyringBackend: "test",
			Workers:        4,
			HealthInterval: "30s",
			Retry: RetryConfig{
				MaxAttempts:    5,
				InitialBackoff: "500ms",
				MaxBackoff:     "10s",
			},
		},
	}
}

// DefaultHome returns ~/.aggregatord.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

func ConfigPath(home string) string {
	return filepath.Join(home, ConfigDirName, ConfigFileName)
}

func GenesisPath(home string) string {
	return filepath.Join(home, ConfigDirName, GenesisFileName)
}

func DataDir(home string) string {
	return filepath.Join(home, DataDirName)
}

// KeyringDir returns the keyring directory of the feeder, defaulting to the
// one used by `aggregatord keys`.
func (c Config) KeyringDir(home string) string {
	if c.Feeder.KeyringDir != "" {
		return c.Feeder.KeyringDir
	}
	return home
}

// Load reads the configuration of home. A missing file yields the defaults;
// environment variables override both.
func Load(home string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to encode default config")
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, errors.Wrap(err, "failed to read default config")
	}

	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read %s", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "failed to stat %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// WriteConfig writes cfg to the config file of home, creating directories as
// needed.
func WriteConfig(home string, cfg Config) error {
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
	}
	bz, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, bz, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Validate checks the values that the node cannot start without.
func (c Config) Validate() error {
	if c.Node.ChainID == "" {
		return errors.New("node.chain_id is required")
	}
	switch c.Node.LogFormat {
	case "plain", "json":
	default:
		return errors.Errorf("node.log_format must be plain or json, got %q", c.Node.LogFormat)
	}
	if _, err := ParseLogLevel(c.Node.LogLevel); err != nil {
		return err
	}
	if _, err := c.BlockInterval(); err != nil {
		return err
	}
	if c.Node.InvCheckPeriod < 0 {
		return errors.New("node.inv_check_period cannot be negative")
	}
	if c.REST.Enable && c.REST.Address == "" {
		return errors.New("rest.address is required when rest is enabled")
	}
	if !c.Feeder.Enabled {
		return nil
	}
	return c.Feeder.Validate()
}

func (c FeederConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("feeder.endpoint is required")
	}
	if c.KeyName == "" {
		return errors.New("feeder.key_name is required")
	}
	if c.Workers <= 0 {
		return errors.New("feeder.workers must be positive")
	}
	if _, err := duration("feeder.health_interval", c.HealthInterval); err != nil {
		return err
	}
	if _, err := c.Retry.Policy(); err != nil {
		return err
	}
	if len(c.Jobs) == 0 {
		return errors.New("feeder has no jobs")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for _, job := range c.Jobs {
		if seen[job.Name] {
			return errors.Errorf("duplicate feeder job %q", job.Name)
		}
		seen[job.Name] = true
		if err := job.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (j JobConfig) Validate() error {
	if j.Name == "" {
		return errors.New("feeder job name is required")
	}
	if j.URL == "" {
		return errors.Errorf("feeder job %s: url is required", j.Name)
	}
	if j.Path == "" {
		return errors.Errorf("feeder job %s: path is required", j.Name)
	}
	if _, err := j.IntervalDuration(); err != nil {
		return errors.Wrapf(err, "feeder job %s", j.Name)
	}
	switch j.Kind {
	case JobKindAggregator:
	case JobKindPrice:
		if j.From == "" || j.To == "" {
			return errors.Errorf("feeder job %s: price jobs need from and to", j.Name)
		}
	default:
		return errors.Errorf("feeder job %s: unknown kind %q", j.Name, j.Kind)
	}
	return nil
}

func (j JobConfig) IntervalDuration() (time.Duration, error) {
	d, err := duration("interval", j.Interval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("interval must be positive")
	}
	return d, nil
}

// BlockInterval is the period of empty blocks. Zero disables them.
func (c Config) BlockInterval() (time.Duration, error) {
	return duration("node.block_interval", c.Node.BlockInterval)
}

// HealthIntervalDuration is the period of feeder health checks.
func (c FeederConfig) HealthIntervalDuration() time.Duration {
	d, _ := duration("feeder.health_interval", c.HealthInterval)
	return d
}

// RetryPolicy is the parsed form of RetryConfig.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c RetryConfig) Policy() (RetryPolicy, error) {
	if c.MaxAttempts <= 0 {
		return RetryPolicy{}, errors.New("feeder.retry.max_attempts must be positive")
	}
	initial, err := duration("feeder.retry.initial_backoff", c.InitialBackoff)
	if err != nil {
		return RetryPolicy{}, err
	}
	maxBackoff, err := duration("feeder.retry.max_backoff", c.MaxBackoff)
	if err != nil {
		return RetryPolicy{}, err
	}
	if maxBackoff < initial {
		return RetryPolicy{}, errors.New("feeder.retry.max_backoff is below initial_backoff")
	}
	return RetryPolicy{MaxAttempts: c.MaxAttempts, InitialBackoff: initial, MaxBackoff: maxBackoff}, nil
}

func duration(field, value string) (time.Duration, error) {
	d, err := cast.ToDurationE(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", field)
	}
	if d < 0 {
		return 0, errors.Errorf("%s cannot be negative", field)
	}
	return d, nil
}
