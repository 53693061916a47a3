package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func priceJob() JobConfig {
	return JobConfig{
		Name:     "guru-usd",
		Kind:     JobKindPrice,
		URL:      "https://prices.example/guru",
		Path:     "data.price",
		Decimals: 8,
		Interval: "15s",
		From:     "GURU",
		To:       "USD",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	def := DefaultConfig()
	require.Equal(t, def.Node, cfg.Node)
	require.Equal(t, def.REST, cfg.REST)
	require.Equal(t, def.Feeder.Retry, cfg.Feeder.Retry)
	require.Empty(t, cfg.Feeder.Jobs)

	interval, err := cfg.BlockInterval()
	require.NoError(t, err)
	require.Equal(t, time.Second, interval)
}

func TestWriteAndLoad(t *testing.T) {
	home := t.TempDir()
	cfg := DefaultConfig()
	cfg.Node.ChainID = "feeds-7"
	cfg.REST.CORSOrigins = []string{"https://a.example", "https://b.example"}
	cfg.Feeder.Enabled = true
	cfg.Feeder.Jobs = []JobConfig{priceJob(), {
		Name:     "round",
		Kind:     JobKindAggregator,
		URL:      "https://prices.example/eth",
		Path:     "bids.0.px",
		Decimals: 2,
		Interval: "1m",
	}}

	require.NoError(t, WriteConfig(home, cfg))
	require.FileExists(t, filepath.Join(home, "config", "config.toml"))

	loaded, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	d, err := loaded.Feeder.Jobs[1].IntervalDuration()
	require.NoError(t, err)
	require.Equal(t, time.Minute, d)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGGREGATORD_NODE_CHAIN_ID", "from-env")
	t.Setenv("AGGREGATORD_NODE_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Node.ChainID)
	require.Equal(t, "debug", cfg.Node.LogLevel)
}

func TestLoadInvalidFile(t *testing.T) {
	home := t.TempDir()
	path := ConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[node]\nlog_format = \"xml\"\n"), 0o644))

	_, err := Load(home)
	require.ErrorContains(t, err, "log_format")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		malleate func(*Config)
		expErr   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no chain id", func(c *Config) { c.Node.ChainID = "" }, "chain_id"},
		{"bad log level", func(c *Config) { c.Node.LogLevel = "loud" }, "log_level"},
		{"bad block interval", func(c *Config) { c.Node.BlockInterval = "soon" }, "block_interval"},
		{"zero block interval", func(c *Config) { c.Node.BlockInterval = "0s" }, ""},
		{"negative invariant period", func(c *Config) { c.Node.InvCheckPeriod = -1 }, "inv_check_period"},
		{"rest without address", func(c *Config) { c.REST.Address = "" }, "rest.address"},
		{"disabled feeder is not checked", func(c *Config) { c.Feeder.Workers = 0 }, ""},
		{
			"feeder without jobs",
			func(c *Config) { c.Feeder.Enabled = true },
			"no jobs",
		},
		{
			"feeder ok",
			func(c *Config) {
				c.Feeder.Enabled = true
				c.Feeder.Jobs = []JobConfig{priceJob()}
			},
			"",
		},
		{
			"duplicate job",
			func(c *Config) {
				c.Feeder.Enabled = true
				c.Feeder.Jobs = []JobConfig{priceJob(), priceJob()}
			},
			"duplicate",
		},
		{
			"price job without pair",
			func(c *Config) {
				c.Feeder.Enabled = true
				job := priceJob()
				job.To = ""
				c.Feeder.Jobs = []JobConfig{job}
			},
			"from and to",
		},
		{
			"unknown job kind",
			func(c *Config) {
				c.Feeder.Enabled = true
				job := priceJob()
				job.Kind = "weather"
				c.Feeder.Jobs = []JobConfig{job}
			},
			"unknown kind",
		},
		{
			"zero job interval",
			func(c *Config) {
				c.Feeder.Enabled = true
				job := priceJob()
				job.Interval = "0s"
				c.Feeder.Jobs = []JobConfig{job}
			},
			"interval",
		},
		{
			"backoff inverted",
			func(c *Config) {
				c.Feeder.Enabled = true
				c.Feeder.Jobs = []JobConfig{priceJob()}
				c.Feeder.Retry.MaxBackoff = "1ms"
			},
			"max_backoff",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.malleate(&cfg)
			err := cfg.Validate()
			if tc.expErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.expErr)
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	policy, err := DefaultConfig().Feeder.Retry.Policy()
	require.NoError(t, err)
	require.Equal(t, RetryPolicy{MaxAttempts: 5, InitialBackoff: 500 * time.Millisecond, MaxBackoff: 10 * time.Second}, policy)
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Node.LogFormat = "json"
	cfg.Node.LogLevel = "error"

	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	require.Zero(t, buf.Len())
	logger.Error("shown", "height", 3)
	require.Contains(t, buf.String(), `"_msg":"shown"`)
}

func TestOpenDB(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Node.DBBackend = "memdb"
	db, err := cfg.OpenDB(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())
}
