// Package cli defines the towstat subcommands.
package cli

import (
	"github.com/citydot/towstat/config"
	"github.com/citydot/towstat/logging"
	"github.com/citydot/towstat/store/sqlite"
	"github.com/citydot/towstat/towing"
)

// setup loads config and builds the pieces every subcommand needs.
// dbOverride beats the config file (and the config file beats env).
func setup(configPath, dbOverride string) (*config.Config, *logging.Logger, *sqlite.Store, *towing.Classifier, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if dbOverride != "" {
		cfg.DB = dbOverride
	}

	log := logging.New()
	log.SetLevel(cfg.LogLevel)

	st, err := sqlite.New(cfg.DB)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	tables, err := cfg.Tables()
	if err != nil {
		st.Close()
		return nil, nil, nil, nil, err
	}

	return cfg, log, st, towing.NewClassifier(tables), nil
}
