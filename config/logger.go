package config

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"
)

// ParseLogLevel turns debug, info, error or none into a filter option.
func ParseLogLevel(level string) (log.Option, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid node.log_level")
	}
	return opt, nil
}

// NewLogger builds the node logger writing to w.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	opt, err := ParseLogLevel(c.Node.LogLevel)
	if err != nil {
		return nil, err
	}

	var logger log.Logger
	if c.Node.LogFormat == "json" {
		logger = log.NewTMJSONLogger(log.NewSyncWriter(w))
	} else {
		logger = log.NewTMLogger(log.NewSyncWriter(w))
	}
	return log.NewFilter(logger, opt), nil
}

// OpenDB opens the application database under <home>/data.
func (c Config) OpenDB(home string) (tmdb.DB, error) {
	db, err := tmdb.NewDB("application", tmdb.BackendType(c.Node.DBBackend), DataDir(home))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", c.Node.DBBackend)
	}
	return db, nil
}
